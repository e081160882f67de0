package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/oluwadami/jobpilot/internal/app"
	"github.com/oluwadami/jobpilot/internal/jsearch"
	"github.com/oluwadami/jobpilot/internal/store"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for jobs",
	Long:  "Fetch job postings from JSearch and store them locally",
	Example: `  jobpilot search --query "backend engineer" --location "remote"
  jobpilot search --query "go developer" --remote-only
  jobpilot search --query "platform engineer" --page 2`,
	Run: func(cmd *cobra.Command, args []string) {
		application := app.GetAppFromContext(cmd.Context())
		ctx := cmd.Context()

		query, _ := cmd.Flags().GetString("query")
		location, _ := cmd.Flags().GetString("location")
		page, _ := cmd.Flags().GetInt("page")
		remoteOnly, _ := cmd.Flags().GetBool("remote-only")

		if query == "" {
			fmt.Println("Query is required. Use --query flag")
			return
		}

		fmt.Printf("Searching for jobs: '%s'", query)
		if location != "" {
			fmt.Printf(" in %s", location)
		}
		fmt.Println()

		client := jsearch.NewClient(
			application.Config.JSearchAPIKey,
			application.Config.JSearchHost,
			application.HTTPClient,
			application.Logger,
		)
		jobs, err := client.Search(ctx, jsearch.SearchOptions{
			Query:      query,
			Location:   location,
			Page:       page,
			RemoteOnly: remoteOnly,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error searching jobs: %v\n", err)
			os.Exit(1)
		}

		if len(jobs) == 0 {
			fmt.Println("No jobs found matching your criteria.")
			return
		}

		saved, err := application.Store.UpsertJobPostings(ctx, jobs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error saving jobs: %v\n", err)
			os.Exit(1)
		}

		if userID, err := resolveUserID(cmd, application); err == nil {
			date := time.Now().UTC().Format("2006-01-02")
			delta := store.AnalyticsDelta{JobsViewed: len(jobs)}
			if err := application.Store.UpsertDailyAnalytics(ctx, userID, date, delta); err != nil {
				application.Logger.Warn("failed to record fetch analytics")
			}
		}

		fmt.Println(titleStyle.Render(fmt.Sprintf("Found %d jobs (%d new)", len(jobs), saved)))
		for _, job := range jobs {
			fmt.Printf("%s %s\n", labelStyle.Render(job.Title), valueStyle.Render("at "+job.Company))
			if job.Location != "" {
				fmt.Printf("  Location: %s", job.Location)
				if job.WorkType != "" {
					fmt.Printf(" (%s)", job.WorkType)
				}
				fmt.Println()
			}
			if salary := job.SalaryRangeLabel(); salary != "" {
				fmt.Printf("  Salary: %s\n", salary)
			}
			fmt.Println()
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().String("query", "", "Search query (required)")
	searchCmd.Flags().String("location", "", "Location filter")
	searchCmd.Flags().Int("page", 1, "Result page")
	searchCmd.Flags().Bool("remote-only", false, "Only remote jobs")
}

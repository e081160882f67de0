package cmd

import (
	"fmt"
	"os"

	"github.com/oluwadami/jobpilot/internal/app"
	"github.com/oluwadami/jobpilot/pkg/models"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "View application statistics and daily activity",
	Long:  "Display totals across your applications and the per-day auto-apply counters",
	Run: func(cmd *cobra.Command, args []string) {
		application := app.GetAppFromContext(cmd.Context())
		ctx := cmd.Context()

		userID, err := resolveUserID(cmd, application)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		apps, err := application.Store.ListApplications(ctx, userID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching applications: %v\n", err)
			os.Exit(1)
		}

		if len(apps) == 0 {
			fmt.Println("No applications yet. Run 'jobpilot autoapply' to apply to matched jobs")
			return
		}

		fmt.Println(titleStyle.Render("Application Statistics"))

		breakdown := make(map[string]int)
		autoApplied := 0
		scoreSum, scored := 0, 0
		for _, a := range apps {
			breakdown[a.Status]++
			if a.Status == models.StatusAutoApplied {
				autoApplied++
			}
			if a.MatchScore != nil {
				scoreSum += *a.MatchScore
				scored++
			}
		}

		fmt.Printf("\n%s\n", labelStyle.Render("Overview"))
		fmt.Printf("  Total Applications: %d\n", len(apps))
		fmt.Printf("  Auto-Applied: %d\n", autoApplied)
		if scored > 0 {
			fmt.Printf("  Average Match Score: %d\n", scoreSum/scored)
		}

		fmt.Printf("\n%s\n", labelStyle.Render("Status Breakdown"))
		for _, status := range statusOrder {
			count := breakdown[status]
			if count == 0 {
				continue
			}
			percentage := float64(count) / float64(len(apps)) * 100
			fmt.Printf("  %s: %d (%.1f%%)\n", status, count, percentage)
		}

		analytics, err := application.Store.ListAnalytics(ctx, userID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching analytics: %v\n", err)
			os.Exit(1)
		}
		if len(analytics) > 0 {
			fmt.Printf("\n%s\n", labelStyle.Render("Daily Activity"))
			for _, day := range analytics {
				fmt.Printf("  %s: %d viewed, %d auto-applied, %d manual, %d sent\n",
					day.Date, day.JobsViewed, day.JobsAutoApplied,
					day.JobsManualRequired, day.ApplicationsSent)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

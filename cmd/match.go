package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/oluwadami/jobpilot/internal/app"
	"github.com/oluwadami/jobpilot/internal/matcher"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score stored jobs against your profile",
	Long:  "Compute match scores for stored job postings against your resume analysis and preferences",
	Example: `  jobpilot match
  jobpilot match --jobs id1,id2
  jobpilot match --days 3 --min-score 70`,
	Run: func(cmd *cobra.Command, args []string) {
		application := app.GetAppFromContext(cmd.Context())
		ctx := cmd.Context()

		userID, err := resolveUserID(cmd, application)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		jobsFlag, _ := cmd.Flags().GetString("jobs")
		days, _ := cmd.Flags().GetInt("days")
		minScore, _ := cmd.Flags().GetInt("min-score")

		jobIDs := splitList(jobsFlag)
		if len(jobIDs) == 0 {
			since := time.Now().UTC().AddDate(0, 0, -days)
			jobs, err := application.Store.ListRecentJobPostings(ctx, since)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error listing jobs: %v\n", err)
				os.Exit(1)
			}
			for _, job := range jobs {
				jobIDs = append(jobIDs, job.ID)
			}
		}

		if len(jobIDs) == 0 {
			fmt.Println("No jobs to match. Fetch some with 'jobpilot search'")
			return
		}

		service := matcher.NewService(application.Store, application.Logger)
		resp, err := service.ComputeMatches(ctx, userID, jobIDs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error computing matches: %v\n", err)
			os.Exit(1)
		}

		if !resp.UserHasAnalysis {
			fmt.Println("Tip: no resume analysis on file; scores use neutral defaults. Run 'jobpilot profile set'")
		}
		if !resp.UserHasPreferences {
			fmt.Println("Tip: no preferences on file; scores use neutral defaults. Run 'jobpilot prefs set'")
		}

		shown := 0
		fmt.Println(titleStyle.Render("Match Results"))
		for _, m := range resp.Matches {
			if m.Score < minScore {
				continue
			}
			shown++
			fmt.Printf("%s %s\n", labelStyle.Render(fmt.Sprintf("[%d]", m.Score)), valueStyle.Render(m.JobID))
			fmt.Printf("  %s\n", m.Explanation)
			fmt.Printf("  skills %d, role %d, experience %d, location %d, salary %d\n",
				m.Reasons.SkillsMatch, m.Reasons.RoleMatch, m.Reasons.ExperienceMatch,
				m.Reasons.LocationMatch, m.Reasons.SalaryMatch)
		}
		if shown == 0 {
			fmt.Printf("No matches scored %d or higher\n", minScore)
		}
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().String("jobs", "", "Comma separated job IDs (default: recent jobs)")
	matchCmd.Flags().Int("days", 7, "How many days back to consider when --jobs is not given")
	matchCmd.Flags().Int("min-score", 0, "Only show matches at or above this score")
}

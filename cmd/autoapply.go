package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/oluwadami/jobpilot/internal/app"
	"github.com/oluwadami/jobpilot/internal/applicator"
	"github.com/oluwadami/jobpilot/internal/matcher"
	"github.com/oluwadami/jobpilot/internal/notify"
	"github.com/oluwadami/jobpilot/pkg/models"
	"github.com/spf13/cobra"
)

var autoapplyCmd = &cobra.Command{
	Use:   "autoapply",
	Short: "Run auto-apply for matched jobs",
	Long: `Score recent jobs against your profile and apply to the ones at or above
your threshold, up to your daily limit. Requires auto-apply to be enabled
in your preferences.`,
	Example: `  jobpilot autoapply
  jobpilot autoapply --jobs id1,id2
  jobpilot autoapply --all
  jobpilot autoapply schedule --in 1h`,
	Run: func(cmd *cobra.Command, args []string) {
		application := app.GetAppFromContext(cmd.Context())
		ctx := cmd.Context()

		engine := newEngine(application)
		service := matcher.NewService(application.Store, application.Logger)
		batch := applicator.NewBatch(application.Store, service, engine, application.Logger)

		if all, _ := cmd.Flags().GetBool("all"); all {
			if err := batch.RunAll(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error running batch: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("✓ Batch run completed for all users with preferences")
			return
		}

		userID, err := resolveUserID(cmd, application)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		var outcome *applicator.RunOutcome
		jobsFlag, _ := cmd.Flags().GetString("jobs")
		if jobIDs := splitList(jobsFlag); len(jobIDs) > 0 {
			resp, err := service.ComputeMatches(ctx, userID, jobIDs)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error computing matches: %v\n", err)
				os.Exit(1)
			}
			outcome, err = engine.Run(ctx, userID, resp.Matches)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error running auto-apply: %v\n", err)
				os.Exit(1)
			}
		} else {
			outcome, err = batch.RunForUser(ctx, userID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error running auto-apply: %v\n", err)
				os.Exit(1)
			}
		}

		printOutcome(outcome)
	},
}

var autoapplyScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Schedule an auto-apply run for later",
	Long:  "Record a durable run that 'jobpilot serve' executes when it comes due, even after a restart",
	Example: `  jobpilot autoapply schedule --in 1h
  jobpilot autoapply schedule --at 2026-09-02T09:00:00Z`,
	Run: func(cmd *cobra.Command, args []string) {
		application := app.GetAppFromContext(cmd.Context())

		userID, err := resolveUserID(cmd, application)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		fireAt := time.Now().UTC()
		if in, _ := cmd.Flags().GetDuration("in"); in > 0 {
			fireAt = fireAt.Add(in)
		} else if at, _ := cmd.Flags().GetString("at"); at != "" {
			parsed, err := time.Parse(time.RFC3339, at)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid --at value (want RFC3339): %v\n", err)
				os.Exit(1)
			}
			fireAt = parsed.UTC()
		}

		run, err := application.Store.ScheduleRun(cmd.Context(), userID, fireAt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error scheduling run: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✓ Run %s scheduled for %s\n", run.ID, run.FireAt.Format(time.RFC3339))
	},
}

// newEngine builds the auto-apply engine from app-wide configuration
func newEngine(application *app.App) *applicator.Engine {
	classifier := applicator.NewPatternClassifier(application.Config.AutoApplyChannels)
	notifier := notify.NewWebhook(application.Config.NotifyWebhookURL, application.HTTPClient, application.Logger)
	return applicator.NewEngine(application.Store, classifier, notifier, application.Logger)
}

func printOutcome(outcome *applicator.RunOutcome) {
	if outcome.Message != "" {
		fmt.Println(outcome.Message)
	}
	if len(outcome.Results) == 0 {
		return
	}

	fmt.Println(titleStyle.Render("Auto-Apply Results"))
	for _, r := range outcome.Results {
		line := fmt.Sprintf("%s at %s", r.JobTitle, r.CompanyName)
		if r.JobTitle == "" {
			line = r.JobID
		}
		switch r.Status {
		case models.StatusAutoApplied:
			fmt.Printf("  ✓ Applied: %s (score %d)\n", line, r.MatchScore)
		case models.StatusManualRequired:
			fmt.Printf("  → Apply manually: %s (score %d)\n", line, r.MatchScore)
			if r.ApplyURL != "" {
				fmt.Printf("    %s\n", r.ApplyURL)
			}
		case models.StatusAlreadyApplied:
			fmt.Printf("  - Already applied: %s\n", line)
		case models.StatusFailed:
			fmt.Printf("  ✗ Failed: %s (%s)\n", line, r.Reason)
		}
	}
	fmt.Printf("\n%s %d applied, %d manual, %d failed\n",
		labelStyle.Render("Summary:"),
		outcome.Summary.AutoApplied, outcome.Summary.ManualRequired, outcome.Summary.Failed)
}

func init() {
	rootCmd.AddCommand(autoapplyCmd)
	autoapplyCmd.AddCommand(autoapplyScheduleCmd)

	autoapplyCmd.Flags().String("jobs", "", "Comma separated job IDs (default: recent jobs)")
	autoapplyCmd.Flags().Bool("all", false, "Run the batch for every user with preferences")
	autoapplyScheduleCmd.Flags().Duration("in", 0, "Run after this delay, e.g. 1h")
	autoapplyScheduleCmd.Flags().String("at", "", "Run at this RFC3339 time")
}

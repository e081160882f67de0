package cmd

import (
	"fmt"
	"os"

	"github.com/oluwadami/jobpilot/internal/app"
	"github.com/oluwadami/jobpilot/pkg/models"
	"github.com/spf13/cobra"
)

// display order for grouped applications
var statusOrder = []string{
	models.StatusAutoApplied,
	models.StatusApplied,
	models.StatusManualRequired,
	models.StatusScreening,
	models.StatusInterviewing,
	models.StatusOffer,
	models.StatusRejected,
	models.StatusWithdrawn,
	models.StatusSaved,
	models.StatusFailed,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "View application status",
	Long:  "View and manage your job application statuses",
	Run: func(cmd *cobra.Command, args []string) {
		application := app.GetAppFromContext(cmd.Context())

		userID, err := resolveUserID(cmd, application)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		filterStatus, _ := cmd.Flags().GetString("filter")

		apps, err := application.Store.ListApplications(cmd.Context(), userID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching applications: %v\n", err)
			os.Exit(1)
		}

		if len(apps) == 0 {
			fmt.Println("No applications yet. Run 'jobpilot autoapply' to apply to matched jobs")
			return
		}

		filtered := []*models.Application{}
		for _, a := range apps {
			if filterStatus == "" || a.Status == filterStatus {
				filtered = append(filtered, a)
			}
		}
		if len(filtered) == 0 {
			fmt.Printf("No applications with status '%s'\n", filterStatus)
			return
		}

		fmt.Println(titleStyle.Render("Your Applications"))

		groups := make(map[string][]*models.Application)
		for _, a := range filtered {
			groups[a.Status] = append(groups[a.Status], a)
		}

		for _, status := range statusOrder {
			group := groups[status]
			if len(group) == 0 {
				continue
			}
			fmt.Printf("\n%s (%d)\n", labelStyle.Render(status), len(group))
			for _, a := range group {
				fmt.Printf("  %s  %s at %s", valueStyle.Render(a.ID), a.JobTitle, a.CompanyName)
				if a.MatchScore != nil {
					fmt.Printf(" (score %d)", *a.MatchScore)
				}
				fmt.Println()
			}
		}
	},
}

var statusSetCmd = &cobra.Command{
	Use:   "set <application-id> <status>",
	Short: "Update an application's status",
	Args:  cobra.ExactArgs(2),
	Example: `  jobpilot status set 4f1c... interviewing
  jobpilot status set 4f1c... rejected`,
	Run: func(cmd *cobra.Command, args []string) {
		application := app.GetAppFromContext(cmd.Context())

		if err := application.Store.UpdateApplicationStatus(cmd.Context(), args[0], args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error updating status: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✓ Status updated: %s\n", args[1])
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.AddCommand(statusSetCmd)
	statusCmd.Flags().String("filter", "", "Only show applications with this status")
}

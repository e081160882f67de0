package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/oluwadami/jobpilot/internal/app"
	"github.com/oluwadami/jobpilot/internal/store"
	"github.com/oluwadami/jobpilot/pkg/models"
	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage job preferences",
	Long:  "View and update the preferences used for matching and auto-apply",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current preferences",
	Run: func(cmd *cobra.Command, args []string) {
		application := app.GetAppFromContext(cmd.Context())

		userID, err := resolveUserID(cmd, application)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		prefs, err := application.Store.GetJobPreferences(cmd.Context(), userID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching preferences: %v\n", err)
			os.Exit(1)
		}
		if prefs == nil {
			fmt.Println("No preferences set. Use 'jobpilot prefs set' to create them")
			return
		}

		fmt.Println(titleStyle.Render("Job Preferences"))
		fmt.Printf("%s %s\n", labelStyle.Render("Desired Roles:"), strings.Join(prefs.DesiredRoles, ", "))
		fmt.Printf("%s %s\n", labelStyle.Render("Locations:"), strings.Join(prefs.Locations, ", "))
		fmt.Printf("%s %s\n", labelStyle.Render("Remote:"), prefs.RemotePreference)
		if prefs.MinSalary != nil {
			fmt.Printf("%s %d\n", labelStyle.Render("Min Salary:"), *prefs.MinSalary)
		}
		if prefs.MaxSalary != nil {
			fmt.Printf("%s %d\n", labelStyle.Render("Max Salary:"), *prefs.MaxSalary)
		}

		fmt.Printf("\n%s\n", labelStyle.Render("Auto-Apply"))
		if prefs.AutoApply.Enabled {
			fmt.Println("  Enabled: yes")
		} else {
			fmt.Println("  Enabled: no")
		}
		fmt.Printf("  Threshold: %d\n", prefs.AutoApply.Threshold)
		fmt.Printf("  Daily Limit: %d\n", prefs.AutoApply.DailyLimit)
		fmt.Printf("  Schedule: %s\n", prefs.AutoApply.Schedule)
		fmt.Printf("  Notifications: %v\n", prefs.AutoApply.EmailNotifications)
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update preferences",
	Example: `  jobpilot prefs set --roles "backend engineer,platform engineer" --remote remote
  jobpilot prefs set --enable --threshold 80 --daily-limit 5
  jobpilot prefs set --min-salary 120000 --max-salary 180000`,
	Run: func(cmd *cobra.Command, args []string) {
		application := app.GetAppFromContext(cmd.Context())
		ctx := cmd.Context()

		userID, err := resolveUserID(cmd, application)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		prefs, err := application.Store.GetJobPreferences(ctx, userID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching preferences: %v\n", err)
			os.Exit(1)
		}
		if prefs == nil {
			prefs = &models.JobPreferences{
				UserID:           userID,
				RemotePreference: models.RemotePrefAny,
				AutoApply: models.AutoApplyConfig{
					Threshold:          store.DefaultThreshold,
					DailyLimit:         store.DefaultDailyLimit,
					Schedule:           models.ScheduleManual,
					EmailNotifications: true,
				},
			}
		}

		flags := cmd.Flags()
		if flags.Changed("roles") {
			roles, _ := flags.GetString("roles")
			prefs.DesiredRoles = splitList(roles)
		}
		if flags.Changed("locations") {
			locations, _ := flags.GetString("locations")
			prefs.Locations = splitList(locations)
		}
		if flags.Changed("remote") {
			prefs.RemotePreference, _ = flags.GetString("remote")
		}
		if flags.Changed("min-salary") {
			min, _ := flags.GetInt("min-salary")
			prefs.MinSalary = &min
		}
		if flags.Changed("max-salary") {
			max, _ := flags.GetInt("max-salary")
			prefs.MaxSalary = &max
		}
		if flags.Changed("enable") {
			prefs.AutoApply.Enabled = true
		}
		if flags.Changed("disable") {
			prefs.AutoApply.Enabled = false
		}
		if flags.Changed("threshold") {
			prefs.AutoApply.Threshold, _ = flags.GetInt("threshold")
		}
		if flags.Changed("daily-limit") {
			prefs.AutoApply.DailyLimit, _ = flags.GetInt("daily-limit")
		}
		if flags.Changed("schedule") {
			prefs.AutoApply.Schedule, _ = flags.GetString("schedule")
		}
		if flags.Changed("notify") {
			prefs.AutoApply.EmailNotifications, _ = flags.GetBool("notify")
		}

		if err := application.Store.SaveJobPreferences(ctx, prefs); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving preferences: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✓ Preferences updated")
	},
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsShowCmd)
	prefsCmd.AddCommand(prefsSetCmd)

	prefsSetCmd.Flags().String("roles", "", "Comma separated desired roles")
	prefsSetCmd.Flags().String("locations", "", "Comma separated locations")
	prefsSetCmd.Flags().String("remote", "", "remote, hybrid, onsite or any")
	prefsSetCmd.Flags().Int("min-salary", 0, "Minimum acceptable salary")
	prefsSetCmd.Flags().Int("max-salary", 0, "Maximum expected salary")
	prefsSetCmd.Flags().Bool("enable", false, "Enable auto-apply")
	prefsSetCmd.Flags().Bool("disable", false, "Disable auto-apply")
	prefsSetCmd.Flags().Int("threshold", 0, "Auto-apply score threshold (0-100)")
	prefsSetCmd.Flags().Int("daily-limit", 0, "Max auto-applications per UTC day")
	prefsSetCmd.Flags().String("schedule", "", "now, after_1hr, daily_automatic or manual")
	prefsSetCmd.Flags().Bool("notify", false, "Send a summary notification after runs")
}

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/oluwadami/jobpilot/internal/app"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))
)

var rootCmd = &cobra.Command{
	Use:   "jobpilot",
	Short: "Job search automation CLI",
	Long: `Jobpilot scores job postings against your profile and applies to the
best matches automatically, within a daily quota you control.`,
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize app with all dependencies
		application, err := app.NewApp(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		// Store app in command context
		cmd.SetContext(app.SetAppInContext(cmd.Context(), application))
		return nil
	},
}

// Execute runs the root command
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if appInstance := app.GetAppFromContext(ctx); appInstance != nil {
		appInstance.Close()
	}
}

// resolveUserID picks the user a command acts on: the --user flag when
// given, otherwise default_user_id from the config file.
func resolveUserID(cmd *cobra.Command, application *app.App) (string, error) {
	userID, _ := cmd.Flags().GetString("user")
	if userID == "" {
		userID = application.Config.DefaultUserID
	}
	if userID == "" {
		return "", fmt.Errorf("no user given: pass --user or set default_user_id in ~/.jobpilot/config.yaml")
	}
	return userID, nil
}

func init() {
	rootCmd.PersistentFlags().String("user", "", "User ID to act on (defaults to default_user_id from config)")
}

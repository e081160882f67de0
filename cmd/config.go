package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/oluwadami/jobpilot/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "View and update configuration settings",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(titleStyle.Render("Configuration"))
		fmt.Printf("%s %s\n", labelStyle.Render("Config File:"), config.GetConfigPath())
		fmt.Printf("%s %s\n", labelStyle.Render("Default User:"), config.AppConfig.DefaultUserID)

		// Show if the API key is configured (but don't show the actual key)
		if config.AppConfig.JSearchAPIKey != "" {
			fmt.Printf("%s %s\n", labelStyle.Render("JSearch Key:"), "✓ Configured")
		} else {
			fmt.Printf("%s %s\n", labelStyle.Render("JSearch Key:"), "✗ Not configured")
		}
		fmt.Printf("%s %s\n", labelStyle.Render("JSearch Host:"), config.AppConfig.JSearchHost)
		fmt.Printf("%s %d\n", labelStyle.Render("Listen Port:"), config.AppConfig.ListenPort)

		if config.AppConfig.NotifyWebhookURL != "" {
			fmt.Printf("%s %s\n", labelStyle.Render("Webhook:"), "✓ Configured")
		} else {
			fmt.Printf("%s %s\n", labelStyle.Render("Webhook:"), "✗ Not configured")
		}
		fmt.Printf("%s %s\n", labelStyle.Render("Channels:"), strings.Join(config.AppConfig.AutoApplyChannels, ", "))
		fmt.Printf("%s %s\n", labelStyle.Render("Scheduler:"), config.AppConfig.SchedulerSpec)
		fmt.Printf("%s %s\n", labelStyle.Render("Log Level:"), config.AppConfig.LogLevel)
	},
}

var setConfigCmd = &cobra.Command{
	Use:   "set",
	Short: "Update a configuration value",
	Example: `  jobpilot config set --key jsearch_api_key --value abc123
  jobpilot config set --key default_user_id --value me
  jobpilot config set --key scheduler_spec --value "@every 5m"`,
	Run: func(cmd *cobra.Command, args []string) {
		key, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")

		if key == "" || value == "" {
			fmt.Println("Both --key and --value are required")
			return
		}

		// Validate key
		validKeys := []string{"default_user_id", "jsearch_api_key", "jsearch_host",
			"listen_port", "notify_webhook_url", "scheduler_spec", "log_level"}
		valid := false
		for _, k := range validKeys {
			if k == key {
				valid = true
				break
			}
		}
		if !valid {
			fmt.Printf("Invalid key. Must be one of: %v\n", validKeys)
			return
		}

		if err := config.Set(key, value); err != nil {
			fmt.Fprintf(os.Stderr, "Error updating config: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("✓ Configuration updated: %s\n", key)

		// Reload config
		if err := config.Initialize(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Could not reload config: %v\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(setConfigCmd)

	// Flags for set command
	setConfigCmd.Flags().String("key", "", "Configuration key")
	setConfigCmd.Flags().String("value", "", "Configuration value")
}

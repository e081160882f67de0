package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	// Default user acted on by CLI commands when --user is not given
	DefaultUserID string `mapstructure:"default_user_id"`
	// JSearch (RapidAPI) credentials for job ingestion
	JSearchAPIKey string `mapstructure:"jsearch_api_key"`
	JSearchHost   string `mapstructure:"jsearch_host"`
	// HTTP API
	ListenPort int `mapstructure:"listen_port"`
	// Outbound notification webhook; empty disables dispatch
	NotifyWebhookURL string `mapstructure:"notify_webhook_url"`
	// Apply URLs containing any of these substrings are treated as
	// internally handled channels (auto_applied instead of manual_required)
	AutoApplyChannels []string `mapstructure:"auto_apply_channels"`
	// Scheduler poll interval as a cron spec
	SchedulerSpec string `mapstructure:"scheduler_spec"`
	// Logging: "debug" enables development output
	LogLevel string `mapstructure:"log_level"`
}

var AppConfig *Config

// Initialize loads or creates the configuration file
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".jobpilot")
	configFile := filepath.Join(configDir, "config.yaml")

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create default config if it doesn't exist
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := createDefaultConfig(configFile); err != nil {
			return err
		}
	}

	viper.SetConfigFile(configFile)
	viper.SetConfigType("yaml")

	// Set defaults
	viper.SetDefault("default_user_id", "")
	viper.SetDefault("jsearch_api_key", "")
	viper.SetDefault("jsearch_host", "jsearch.p.rapidapi.com")
	viper.SetDefault("listen_port", 8080)
	viper.SetDefault("notify_webhook_url", "")
	viper.SetDefault("auto_apply_channels", []string{"linkedin.com/jobs/view"})
	viper.SetDefault("scheduler_spec", "@every 1m")
	viper.SetDefault("log_level", "info")

	// Read config
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	// Unmarshal into struct
	AppConfig = &Config{}
	if err := viper.Unmarshal(AppConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig(path string) error {
	defaultConfig := `# Jobpilot Configuration

# User acted on by CLI commands when --user is not provided
default_user_id: ""

# JSearch (RapidAPI) credentials for the 'search' command (keep this file secure!)
jsearch_api_key: ""
jsearch_host: jsearch.p.rapidapi.com

# HTTP API port for 'jobpilot serve'
listen_port: 8080

# Webhook receiving auto-apply summaries; empty disables notifications
notify_webhook_url: ""

# Apply URLs containing these substrings are handled internally
auto_apply_channels:
  - linkedin.com/jobs/view

# How often the scheduler checks for due auto-apply runs
scheduler_spec: "@every 1m"

# Log level: info or debug
log_level: info
`
	return os.WriteFile(path, []byte(defaultConfig), 0600)
}

// Set updates a configuration value
func Set(key, value string) error {
	viper.Set(key, value)
	return viper.WriteConfig()
}

// Get retrieves a configuration value
func Get(key string) string {
	return viper.GetString(key)
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".jobpilot", "config.yaml")
}

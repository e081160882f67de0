package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/oluwadami/jobpilot/internal/config"
	"github.com/oluwadami/jobpilot/internal/logger"
	"github.com/oluwadami/jobpilot/internal/store"
	"go.uber.org/zap"
)

// App is the dependency container for the application
type App struct {
	Store      *store.Store
	Config     *config.Config
	Logger     *zap.Logger
	HTTPClient *http.Client
}

// NewApp initializes and returns a new App instance
func NewApp(ctx context.Context) (*App, error) {
	// Initialize config
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	log, err := logger.New(false, config.AppConfig.LogLevel == "debug")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Open database with proper pragmas and run migrations
	st, err := openStore()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Verify database connection
	if err := st.Ping(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Create HTTP client with timeout
	httpClient := &http.Client{
		Timeout: 10 * time.Second,
	}

	return &App{
		Store:      st,
		Config:     config.AppConfig,
		Logger:     log,
		HTTPClient: httpClient,
	}, nil
}

// Close closes all resources
func (a *App) Close() error {
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// openStore opens the SQLite store under the user's home directory
func openStore() (*store.Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	// Create .jobpilot directory if it doesn't exist
	dataDir := filepath.Join(homeDir, ".jobpilot")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create jobpilot directory: %w", err)
	}

	return store.Open(filepath.Join(dataDir, "jobpilot.db"))
}

package cmd

import (
	"fmt"
	"os"

	"github.com/oluwadami/jobpilot/internal/app"
	"github.com/oluwadami/jobpilot/internal/applicator"
	"github.com/oluwadami/jobpilot/internal/matcher"
	"github.com/oluwadami/jobpilot/internal/scheduler"
	"github.com/oluwadami/jobpilot/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and scheduler",
	Long: `Serve the matching and auto-apply API over HTTP and drain scheduled
auto-apply runs in the background. Blocks until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		application := app.GetAppFromContext(cmd.Context())
		ctx := cmd.Context()

		service := matcher.NewService(application.Store, application.Logger)
		engine := newEngine(application)
		batch := applicator.NewBatch(application.Store, service, engine, application.Logger)

		sched := scheduler.New(application.Store, batch, application.Config.SchedulerSpec, application.Logger)
		if err := sched.Start(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting scheduler: %v\n", err)
			os.Exit(1)
		}
		defer sched.Stop()

		srv := server.New(application.Config.ListenPort, application.Store, service, engine, application.Logger)
		if err := srv.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

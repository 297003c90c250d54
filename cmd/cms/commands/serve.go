package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mytheresa/content-portal/app/database"
	"github.com/mytheresa/content-portal/app/media"
	"github.com/mytheresa/content-portal/app/server"
	"github.com/mytheresa/content-portal/cmd/cms/output"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	Long: `Run the site, the catalog API and the admin console until interrupted.

Examples:
  cms serve                     # listen on HTTP_ADDR (default :8080)
  cms serve --migrate           # update the schema first
  TEMPLATE_DIR=app/web/templates cms serve   # reload edited templates`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "Migrate the database schema before serving")
}

func runServe(ctx context.Context) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	if migrateOnStart {
		if err := database.Migrate(e.db); err != nil {
			return err
		}
		output.Success("Schema is up to date")
	}

	store, err := media.New(e.cfg.Media.CloudinaryURL, e.log)
	if err != nil {
		return err
	}
	srv, err := server.New(e.cfg, e.db, store, e.log)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	output.Info("Serving on %s", e.cfg.HTTP.Addr)
	return srv.Run(ctx)
}

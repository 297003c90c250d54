package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mytheresa/content-portal/app/database"
	"github.com/mytheresa/content-portal/cmd/cms/output"
	"github.com/mytheresa/content-portal/models"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Create the tables, indexes and foreign keys of every model, adding what is
missing to an existing schema. Nothing is dropped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate() error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	output.Section("Migrating " + e.cfg.Database.Dialect + " schema")
	if err := database.Migrate(e.db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	for _, m := range models.All() {
		if t, ok := m.(interface{ TableName() string }); ok {
			output.Muted("  %s", t.TableName())
		}
	}
	output.Success("Schema is up to date")
	return nil
}

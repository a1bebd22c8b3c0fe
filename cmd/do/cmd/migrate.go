package cmd

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/nochase/nochase/internal/db"
)

type dbFlags struct {
	driver     string
	connection string
}

func (f *dbFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.driver, "driver", envOr("DB_DRIVER", "sqlite"), "database driver: sqlite or pgx")
	cmd.PersistentFlags().StringVar(&f.connection, "dsn", envOr("DB_CONNECTION", "./data/nochase.db"), "database connection string")
}

func (f *dbFlags) open() (*sqlx.DB, error) {
	return db.Init(f.driver, f.connection)
}

func MigrateCmd() *cobra.Command {
	var flags dbFlags

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the goals schema",
	}
	flags.register(cmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := flags.open()
			if err != nil {
				return err
			}
			defer db.Close(database)

			return db.RunMigrations(database.DB, flags.driver)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := flags.open()
			if err != nil {
				return err
			}
			defer db.Close(database)

			return db.MigrateDown(database.DB, flags.driver)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := flags.open()
			if err != nil {
				return err
			}
			defer db.Close(database)

			version, err := db.MigrationVersion(database.DB, flags.driver)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
			return nil
		},
	})

	return cmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

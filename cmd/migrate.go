package cmd

import (
	"context"
	"log"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/haroontrailblazer/College-Departments-Portal/internal"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run db migration files under db/migrations directory",
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "", "sql migrations directory (default db/migrations/<driver>)")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	db, err := goose.OpenDBWithDriver(gooseDriverName(cfg.Database.Driver), cfg.Database.Source)
	if err != nil {
		log.Fatalf("goose: failed to open DB: %v\n", err)
	}
	defer db.Close()
	goose.SetTableName("schema_migrations")

	command := "up"
	if migrateRollback {
		command = "down"
	}
	dir := resolveMigrationsDir(migrateDir, cfg.Database.Driver)
	if err := goose.RunContext(ctx, command, db, dir); err != nil {
		log.Fatalf("goose %s: %v", command, err)
	}

	return nil
}

// resolveMigrationsDir picks the dialect-specific migration directory; the
// sqlite and postgres DDL differ, so each driver ships its own files.
func resolveMigrationsDir(dir, driver string) string {
	if dir != "" {
		return dir
	}
	return filepath.Join("db", "migrations", driver)
}

func gooseDriverName(driver string) string {
	if driver == internal.DriverPostgres {
		return "pgx"
	}
	return "sqlite3"
}

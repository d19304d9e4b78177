package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/haroontrailblazer/College-Departments-Portal/internal"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/activitylog"
	activitylogStore "github.com/haroontrailblazer/College-Departments-Portal/internal/activitylog/sqlite"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/core/stats"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/department"
	departmentStore "github.com/haroontrailblazer/College-Departments-Portal/internal/department/sqlite"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/entry"
	entryStore "github.com/haroontrailblazer/College-Departments-Portal/internal/entry/sqlite"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/report"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/transport/rest"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/transport/tcp"
	"github.com/haroontrailblazer/College-Departments-Portal/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the portal server",
	Long:  `Start the TCP protocol server and, when enabled, the admin HTTP listener.`,
	Run: func(cmd *cobra.Command, args []string) {
		startServer()
	},
}

func startServer() {
	cfg, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.LoggerWrapper()

	db, err := initDB(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to access database pool: %v\n", err)
		os.Exit(1)
	}

	counters := stats.NewCounters()
	activity := activitylog.NewService(activitylogStore.NewRepository(db), log)

	deptRepo := departmentStore.NewRepository(db)
	deptService := department.NewService(deptRepo, activity, log)

	generator := report.NewGenerator(sqlx.NewDb(sqlDB, sqlDriverName(cfg.Database.Driver)), cfg.Export.Dir, counters, log)
	entryService := entry.NewService(entryStore.NewRepository(db), deptRepo, generator, activity, log)

	server := tcp.NewServer(cfg.Server, deptService, entryService, generator, counters, activity, log)

	var adminServer *http.Server
	if cfg.Admin.Enabled {
		adminServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Admin.Port),
			Handler: rest.NewRouter(sqlDB, counters, cfg.Export.Dir, log),
		}
		go func() {
			log.Info("admin listener starting", "address", adminServer.Addr)
			if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("admin listener failed", "error", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig)
		shutdown(server, adminServer, cfg, log)
	case err := <-serverErrChan:
		if err != nil && err != tcp.ErrServerClosed {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}

	snapshot := counters.Snapshot()
	log.Info("final statistics",
		"connections", snapshot.Connections,
		"data_entries", snapshot.DataEntries,
		"exports", snapshot.Exports)

	if err := sqlDB.Close(); err != nil {
		log.Error("database close error", "error", err)
	}
}

func shutdown(server *tcp.Server, adminServer *http.Server, cfg *internal.Config, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("server shutdown error", "error", err)
	}
	if adminServer != nil {
		if err := adminServer.Shutdown(ctx); err != nil {
			log.Error("admin shutdown error", "error", err)
		}
	}
}

// initDB opens the configured database through GORM and applies the pool
// settings.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case internal.DriverPostgres:
		dialector = postgres.Open(cfg.Source)
	default:
		dialector = sqlite.Open(cfg.Source)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access database pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

func sqlDriverName(driver string) string {
	if driver == internal.DriverPostgres {
		return "pgx"
	}
	return "sqlite3"
}

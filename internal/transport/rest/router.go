// Package rest is the small operational HTTP surface: health checks, the
// in-memory counters and the latest auto-export file. Clients speak the TCP
// protocol; nothing here serves them.
package rest

import (
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/core/stats"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/report"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/transport/middleware"
	"github.com/haroontrailblazer/College-Departments-Portal/pkg/logger"
)

func NewRouter(db *sql.DB, counters *stats.Counters, exportDir string, log *slog.Logger) *chi.Mux {
	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.Logging(log))
	router.Use(middleware.Recovery(log))

	healthHandler := NewHealthHandler(db)

	router.Get("/ping", healthHandler.pingHandler)
	router.Get("/health", healthHandler.healthCheckHandler)

	router.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, counters.Snapshot())
	})

	router.Get("/exports/latest", func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(exportDir, report.LatestExportName)
		if _, err := os.Stat(path); err != nil {
			logger.From(r.Context()).Warn("latest export missing", "path", path)
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "no export available yet"})
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		http.ServeFile(w, r, path)
	})

	return router
}

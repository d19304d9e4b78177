package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/haroontrailblazer/College-Departments-Portal/internal/core/stats"
	"github.com/jmoiron/sqlx"
)

const (
	// LatestExportName is the stable pointer other tooling reads; every
	// auto-export overwrites it with a copy of the new snapshot.
	LatestExportName = "latest_college_data_export.csv"

	recentSectionSize = 10
	recentPreviewLen  = 100
	detailPreviewLen  = 200
)

// Generator builds the CSV snapshots from the store. Analytics run as raw
// SQL through sqlx over the same connection pool the repositories use.
type Generator struct {
	db       *sqlx.DB
	dir      string
	counters *stats.Counters
	logger   *slog.Logger
}

func NewGenerator(db *sqlx.DB, dir string, counters *stats.Counters, logger *slog.Logger) *Generator {
	return &Generator{
		db:       db,
		dir:      dir,
		counters: counters,
		logger:   logger,
	}
}

type categoryStat struct {
	EntryType string `db:"entry_type"`
	Count     int64  `db:"cnt"`
}

type recentRow struct {
	CreatedAt time.Time `db:"created_at"`
	DeptName  string    `db:"dept_name"`
	EntryType string    `db:"entry_type"`
	Preview   string    `db:"preview"`
}

type detailRow struct {
	EntryID     int64     `db:"entry_id"`
	DeptName    string    `db:"dept_name"`
	Email       string    `db:"email"`
	EntryType   string    `db:"entry_type"`
	DataContent string    `db:"data_content"`
	CreatedAt   time.Time `db:"created_at"`
}

type departmentActivity struct {
	DeptName      string     `db:"dept_name"`
	TotalEntries  int64      `db:"total_entries"`
	FirstActivity *time.Time `db:"first_activity"`
	LastActivity  *time.Time `db:"last_activity"`
}

// AutoExport writes the full data snapshot to a fresh timestamp-named file
// and overwrites the latest-export copy. Returns the timestamped filename.
func (g *Generator) AutoExport() (string, error) {
	filename := fmt.Sprintf("college_data_export_%s.csv", time.Now().Format("20060102_150405"))
	path := filepath.Join(g.dir, filename)

	totalEntries, activeDepartments, err := g.summaryCounts()
	if err != nil {
		return "", fmt.Errorf("export summary counts: %w", err)
	}
	categories, err := g.categoryStats()
	if err != nil {
		return "", fmt.Errorf("export category stats: %w", err)
	}
	recent, err := g.recentActivity()
	if err != nil {
		return "", fmt.Errorf("export recent activity: %w", err)
	}
	details, err := g.detailRows()
	if err != nil {
		return "", fmt.Errorf("export detail rows: %w", err)
	}

	err = g.writeCSV(path, func(w *csv.Writer) error {
		w.Write([]string{"COLLEGE EXTENSION APPLICATION - DATA EXPORT"})
		w.Write([]string{strings.Repeat("=", 60)})
		w.Write([]string{"Export Information"})
		w.Write([]string{"Export Date/Time", time.Now().Format("2006-01-02 15:04:05")})
		w.Write([]string{"Total Records", fmt.Sprintf("%d", totalEntries)})
		w.Write([]string{"Active Departments", fmt.Sprintf("%d", activeDepartments)})
		w.Write([]string{"Export File", filename})
		w.Write([]string{})

		g.writeCategorySection(w, categories, totalEntries)
		g.writeRecentSection(w, recent)

		w.Write([]string{"DETAILED DATA EXPORT"})
		w.Write([]string{strings.Repeat("-", 50)})
		w.Write([]string{"Entry ID", "Department", "Email", "Category", "Content", "Created At"})
		for _, row := range details {
			content := truncateRunes(row.DataContent, detailPreviewLen)
			w.Write([]string{
				fmt.Sprintf("%d", row.EntryID),
				row.DeptName,
				row.Email,
				row.EntryType,
				content,
				row.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if err := copyFile(path, filepath.Join(g.dir, LatestExportName)); err != nil {
		return "", fmt.Errorf("update latest export: %w", err)
	}

	g.counters.ExportCompleted()
	g.logger.Info("CSV export completed", "filename", filename)
	return filename, nil
}

// FormattedReport writes the per-department analytics report to a fresh
// timestamp-named file and returns its name.
func (g *Generator) FormattedReport() (string, error) {
	filename := fmt.Sprintf("college_report_%s.csv", time.Now().Format("20060102_150405"))
	path := filepath.Join(g.dir, filename)

	activity, err := g.departmentActivity()
	if err != nil {
		return "", fmt.Errorf("report department activity: %w", err)
	}
	recent, err := g.recentActivity()
	if err != nil {
		return "", fmt.Errorf("report recent activity: %w", err)
	}

	err = g.writeCSV(path, func(w *csv.Writer) error {
		w.Write([]string{"COLLEGE EXTENSION APPLICATION - COMPREHENSIVE REPORT"})
		w.Write([]string{strings.Repeat("=", 70)})
		w.Write([]string{"Report Generated", time.Now().Format("2006-01-02 15:04:05")})
		w.Write([]string{})

		w.Write([]string{"DEPARTMENT ACTIVITY SUMMARY"})
		w.Write([]string{strings.Repeat("-", 40)})
		w.Write([]string{"Department", "Total Entries", "First Activity", "Last Activity", "Status"})
		for _, row := range activity {
			status := "Active"
			if row.TotalEntries == 0 {
				status = "No Data"
			}
			w.Write([]string{
				row.DeptName,
				fmt.Sprintf("%d", row.TotalEntries),
				formatActivityTime(row.FirstActivity),
				formatActivityTime(row.LastActivity),
				status,
			})
		}
		w.Write([]string{})

		g.writeRecentSection(w, recent)
		return nil
	})
	if err != nil {
		return "", err
	}

	g.counters.ExportCompleted()
	g.logger.Info("formatted report completed", "filename", filename)
	return filename, nil
}

func (g *Generator) writeCategorySection(w *csv.Writer, categories []categoryStat, totalEntries int64) {
	w.Write([]string{"DATA SUMMARY BY CATEGORY"})
	w.Write([]string{strings.Repeat("-", 30)})
	w.Write([]string{"Category", "Count", "Percentage"})
	for _, cat := range categories {
		percentage := 0.0
		if totalEntries > 0 {
			percentage = float64(cat.Count) / float64(totalEntries) * 100
		}
		w.Write([]string{cat.EntryType, fmt.Sprintf("%d", cat.Count), fmt.Sprintf("%.1f%%", percentage)})
	}
	w.Write([]string{})
}

func (g *Generator) writeRecentSection(w *csv.Writer, recent []recentRow) {
	w.Write([]string{fmt.Sprintf("RECENT ACTIVITY (Last %d Entries)", recentSectionSize)})
	w.Write([]string{strings.Repeat("-", 50)})
	w.Write([]string{"Date/Time", "Department", "Category", "Content Preview"})
	for _, row := range recent {
		w.Write([]string{
			row.CreatedAt.Format("2006-01-02 15:04:05"),
			row.DeptName,
			row.EntryType,
			row.Preview + "...",
		})
	}
	w.Write([]string{})
}

func (g *Generator) writeCSV(path string, fill func(*csv.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := fill(w); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return file.Sync()
}

func (g *Generator) summaryCounts() (totalEntries, activeDepartments int64, err error) {
	if err = g.db.Get(&totalEntries, "SELECT COUNT(*) FROM data_entries"); err != nil {
		return 0, 0, err
	}
	if err = g.db.Get(&activeDepartments, "SELECT COUNT(DISTINCT dept_id) FROM data_entries"); err != nil {
		return 0, 0, err
	}
	return totalEntries, activeDepartments, nil
}

func (g *Generator) categoryStats() ([]categoryStat, error) {
	var rows []categoryStat
	err := g.db.Select(&rows, `
		SELECT entry_type, COUNT(*) AS cnt
		FROM data_entries
		GROUP BY entry_type
		ORDER BY cnt DESC`)
	return rows, err
}

func (g *Generator) recentActivity() ([]recentRow, error) {
	var rows []recentRow
	query := g.db.Rebind(`
		SELECT
			de.created_at,
			d.dept_name,
			de.entry_type,
			SUBSTR(de.data_content, 1, ?) AS preview
		FROM data_entries de
		JOIN departments d ON de.dept_id = d.dept_id
		ORDER BY de.created_at DESC, de.entry_id DESC
		LIMIT ?`)
	err := g.db.Select(&rows, query, recentPreviewLen, recentSectionSize)
	return rows, err
}

func (g *Generator) detailRows() ([]detailRow, error) {
	var rows []detailRow
	err := g.db.Select(&rows, `
		SELECT
			de.entry_id,
			d.dept_name,
			d.email,
			de.entry_type,
			de.data_content,
			de.created_at
		FROM data_entries de
		JOIN departments d ON de.dept_id = d.dept_id
		ORDER BY de.created_at DESC, de.entry_id DESC`)
	return rows, err
}

func (g *Generator) departmentActivity() ([]departmentActivity, error) {
	var rows []departmentActivity
	err := g.db.Select(&rows, `
		SELECT
			d.dept_name,
			COUNT(de.entry_id) AS total_entries,
			MIN(de.created_at) AS first_activity,
			MAX(de.created_at) AS last_activity
		FROM departments d
		LEFT JOIN data_entries de ON d.dept_id = de.dept_id
		GROUP BY d.dept_id, d.dept_name
		ORDER BY total_entries DESC`)
	return rows, err
}

// truncateRunes cuts s to max characters on a rune boundary so multibyte
// content never yields invalid UTF-8 in the CSV.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}

func formatActivityTime(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format("2006-01-02 15:04:05")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

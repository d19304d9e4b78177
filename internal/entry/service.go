package entry

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/haroontrailblazer/College-Departments-Portal/internal"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/department"
)

const (
	// DefaultRecentLimit is used when a client omits the limit.
	DefaultRecentLimit = 10
	// MaxRecentLimit caps client-requested limits.
	MaxRecentLimit = 100
	// PreviewLength is how much content a recent-entries row carries.
	PreviewLength = 100
)

// RecentEntry is a repository row for the recent-entries view.
type RecentEntry struct {
	DeptName       string
	EntryType      string
	ContentPreview string
	CreatedAt      time.Time
}

type RepositoryAPI interface {
	Insert(deptID int64, entryType, content string) (int64, error)
	Recent(limit int) ([]RecentEntry, error)
}

type DepartmentAPI interface {
	GetNameByID(deptID int64) (string, error)
}

// Exporter regenerates the CSV snapshot after a successful submit.
type Exporter interface {
	AutoExport() (string, error)
}

type ActivityLogger interface {
	Info(message string)
	Error(message string)
}

type Service struct {
	repo     RepositoryAPI
	depts    DepartmentAPI
	exporter Exporter
	activity ActivityLogger
	logger   *slog.Logger

	// writeMu serializes inserts and the export that follows them. Write
	// concurrency is expected to be low, so one mutex is enough to keep
	// identifier assignment collision-free.
	writeMu sync.Mutex
}

func NewService(repo RepositoryAPI, depts DepartmentAPI, exporter Exporter, activity ActivityLogger, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		depts:    depts,
		exporter: exporter,
		activity: activity,
		logger:   logger,
	}
}

// Submit validates, persists one entry for the department and triggers the
// auto-export. Export failure is logged only; the submit outcome does not
// depend on it.
func (s *Service) Submit(deptID int64, dto SubmitDTO) (*SubmitResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	deptName, err := s.depts.GetNameByID(deptID)
	if err != nil {
		if errors.Is(err, department.ErrNotFound) {
			return nil, internal.ErrUnknownDepartment
		}
		return nil, internal.NewStoreError("Database error", err)
	}

	s.writeMu.Lock()
	entryID, err := s.repo.Insert(deptID, dto.EntryType, dto.DataContent)
	s.writeMu.Unlock()
	if err != nil {
		s.logger.Error("entry insert failed", "dept_id", deptID, "error", err)
		return nil, internal.NewStoreError("Database error", err)
	}

	s.activity.Info(fmt.Sprintf("Data saved successfully: Entry ID %d, Department: %s, Type: %s", entryID, deptName, dto.EntryType))

	s.autoExport()

	return &SubmitResult{EntryID: entryID, DeptName: deptName}, nil
}

func (s *Service) autoExport() {
	if s.exporter == nil {
		return
	}
	filename, err := s.exporter.AutoExport()
	if err != nil {
		s.activity.Error(fmt.Sprintf("CSV auto-export error: %v", err))
		return
	}
	s.activity.Info(fmt.Sprintf("CSV auto-export successful: %s", filename))
}

// Recent returns up to limit summaries, most recent first, with previews
// truncated to PreviewLength characters.
func (s *Service) Recent(limit int) ([]SummaryResponse, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	rows, err := s.repo.Recent(limit)
	if err != nil {
		s.logger.Error("recent entries query failed", "error", err)
		return nil, internal.NewStoreError("Database error", err)
	}

	summaries := make([]SummaryResponse, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, SummaryResponse{
			DeptName:       row.DeptName,
			EntryType:      row.EntryType,
			ContentPreview: row.ContentPreview,
			CreatedAt:      row.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return summaries, nil
}

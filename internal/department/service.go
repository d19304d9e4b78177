package department

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/haroontrailblazer/College-Departments-Portal/internal"
	departmentDatamodel "github.com/haroontrailblazer/College-Departments-Portal/internal/core/datamodel/department"
)

type RepositoryAPI interface {
	FindByCredentials(email, passwordHash string) (*departmentDatamodel.Department, error)
	GetNameByID(deptID int64) (string, error)
}

// ActivityLogger records audit lines in the system log, best-effort.
type ActivityLogger interface {
	Info(message string)
}

type Service struct {
	repo     RepositoryAPI
	activity ActivityLogger
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, activity ActivityLogger, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		activity: activity,
		logger:   logger,
	}
}

// HashPassword returns the deterministic SHA-256 hex digest used for
// credential lookup. Seeding and authentication must agree on this.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Authenticate matches the email and hashed password against a seeded
// department. Failures carry one generic message regardless of whether the
// email exists; only the attempted email is logged.
func (s *Service) Authenticate(email, password string) (*Info, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)

	if email == "" || password == "" {
		return nil, internal.NewValidationError("Email and password required", internal.ErrCodeMissingField)
	}

	dept, err := s.repo.FindByCredentials(email, HashPassword(password))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.activity.Info(fmt.Sprintf("Failed login attempt: %s", email))
			return nil, internal.ErrInvalidCredentials
		}
		s.logger.Error("authentication lookup failed", "error", err)
		return nil, internal.NewStoreError("Authentication system error", err)
	}

	s.activity.Info(fmt.Sprintf("Successful login: %s (%s)", dept.DeptName, email))
	return &Info{DeptID: dept.DeptID, DeptName: dept.DeptName}, nil
}

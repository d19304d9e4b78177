package activitylog

import "log/slog"

const (
	LevelInfo  = "INFO"
	LevelError = "ERROR"
)

type RepositoryAPI interface {
	Append(level, message string) error
}

// Service mirrors activity lines to the process logger and the system_logs
// table. The database write is best-effort: a failed append must never
// abort whatever operation triggered it, so failures are logged and
// discarded here at the boundary.
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) Info(message string) {
	s.logger.Info(message)
	s.append(LevelInfo, message)
}

func (s *Service) Error(message string) {
	s.logger.Error(message)
	s.append(LevelError, message)
}

func (s *Service) append(level, message string) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Append(level, message); err != nil {
		s.logger.Warn("system log append failed", "error", err)
	}
}

package sqlite

import (
	syslogDatamodel "github.com/haroontrailblazer/College-Departments-Portal/internal/core/datamodel/syslog"
	"gorm.io/gorm"
)

// Repository appends rows to system_logs using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Append(level, message string) error {
	record := syslogDatamodel.SystemLog{
		LogLevel: level,
		Message:  message,
	}
	return r.db.Create(&record).Error
}

package sqlite

import (
	entryDatamodel "github.com/haroontrailblazer/College-Departments-Portal/internal/core/datamodel/entry"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/entry"
	"gorm.io/gorm"
)

// Repository implements entry.RepositoryAPI using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert persists one entry inside a transaction so the row either exists
// fully formed with its server-assigned timestamp or not at all.
func (r *Repository) Insert(deptID int64, entryType, content string) (int64, error) {
	record := entryDatamodel.DataEntry{
		DeptID:      deptID,
		EntryType:   entryType,
		DataContent: content,
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&record).Error
	})
	if err != nil {
		return 0, err
	}
	return record.EntryID, nil
}

func (r *Repository) Recent(limit int) ([]entry.RecentEntry, error) {
	var rows []entry.RecentEntry
	err := r.db.Raw(`
		SELECT
			d.dept_name AS dept_name,
			de.entry_type AS entry_type,
			SUBSTR(de.data_content, 1, ?) AS content_preview,
			de.created_at AS created_at
		FROM data_entries de
		JOIN departments d ON de.dept_id = d.dept_id
		ORDER BY de.created_at DESC, de.entry_id DESC
		LIMIT ?`, entry.PreviewLength, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

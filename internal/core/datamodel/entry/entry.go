package entry

import "time"

type DataEntry struct {
	EntryID     int64     `gorm:"column:entry_id;primaryKey"`
	DeptID      int64     `gorm:"column:dept_id;not null;index"`
	EntryType   string    `gorm:"column:entry_type;not null"`
	DataContent string    `gorm:"column:data_content;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (DataEntry) TableName() string {
	return "data_entries"
}

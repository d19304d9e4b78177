package syslog

import "time"

type SystemLog struct {
	LogID     int64     `gorm:"column:log_id;primaryKey"`
	LogLevel  string    `gorm:"column:log_level;not null"`
	Message   string    `gorm:"column:message;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (SystemLog) TableName() string {
	return "system_logs"
}

package department

import "time"

type Department struct {
	DeptID       int64     `gorm:"column:dept_id;primaryKey"`
	DeptName     string    `gorm:"column:dept_name;uniqueIndex;not null"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Department) TableName() string {
	return "departments"
}

package sqlite

import (
	"errors"

	departmentDatamodel "github.com/haroontrailblazer/College-Departments-Portal/internal/core/datamodel/department"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/department"
	"gorm.io/gorm"
)

// Repository implements department.RepositoryAPI using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByCredentials(email, passwordHash string) (*departmentDatamodel.Department, error) {
	var dept departmentDatamodel.Department
	err := r.db.Where("email = ? AND password_hash = ?", email, passwordHash).First(&dept).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, department.ErrNotFound
		}
		return nil, err
	}
	return &dept, nil
}

func (r *Repository) GetNameByID(deptID int64) (string, error) {
	var dept departmentDatamodel.Department
	err := r.db.Select("dept_name").Where("dept_id = ?", deptID).First(&dept).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", department.ErrNotFound
		}
		return "", err
	}
	return dept.DeptName, nil
}

package repository

import (
	"context"
	"errors"

	"github.com/driveline/driveline/internal/entity"
	"gorm.io/gorm"
)

// StaffRepo is the repository for staff directory operations
type StaffRepo struct {
	db *gorm.DB
}

// NewStaffRepo creates a new StaffRepo
func NewStaffRepo(db *gorm.DB) *StaffRepo {
	return &StaffRepo{db: db}
}

// Create inserts a staff member
func (r *StaffRepo) Create(ctx context.Context, staff *entity.Staff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

// GetById gets staff by id, nil when absent
func (r *StaffRepo) GetById(ctx context.Context, id int64) (*entity.Staff, error) {
	var staff entity.Staff
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

// List returns all staff members ordered by name
func (r *StaffRepo) List(ctx context.Context) ([]*entity.Staff, error) {
	var staff []*entity.Staff
	err := r.db.WithContext(ctx).Order("full_name ASC").Find(&staff).Error
	if err != nil {
		return nil, err
	}
	return staff, nil
}

// ListVisible returns publicly visible staff members ordered by name
func (r *StaffRepo) ListVisible(ctx context.Context) ([]*entity.Staff, error) {
	var staff []*entity.Staff
	err := r.db.WithContext(ctx).Where("is_visible = ?", true).Order("full_name ASC").Find(&staff).Error
	if err != nil {
		return nil, err
	}
	return staff, nil
}

// Update updates staff fields and reports affected rows
func (r *StaffRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.Staff{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected, res.Error
}

// Delete removes a staff member and reports affected rows
func (r *StaffRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Staff{})
	return res.RowsAffected, res.Error
}

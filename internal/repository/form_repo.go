package repository

import (
	"context"
	"errors"

	"github.com/driveline/driveline/internal/entity"
	"gorm.io/gorm"
)

const formJoinedColumns = "verification_forms.*, u.first_name, u.last_name, u.email, u.phone, u.dob, u.avatar"

// FormRepo is the repository for verification form operations
type FormRepo struct {
	db *gorm.DB
}

// NewFormRepo creates a new FormRepo
func NewFormRepo(db *gorm.DB) *FormRepo {
	return &FormRepo{db: db}
}

// Create inserts a verification form
func (r *FormRepo) Create(ctx context.Context, form *entity.VerificationForm) error {
	return r.db.WithContext(ctx).Create(form).Error
}

// GetById gets form by id, nil when absent
func (r *FormRepo) GetById(ctx context.Context, id int64) (*entity.VerificationForm, error) {
	var form entity.VerificationForm
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&form).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &form, nil
}

// GetLatestByUser returns the user's most recent form, nil when none submitted
func (r *FormRepo) GetLatestByUser(ctx context.Context, userId int64) (*entity.VerificationForm, error) {
	var form entity.VerificationForm
	err := r.db.WithContext(ctx).Where("user_id = ?", userId).Order("id DESC").First(&form).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &form, nil
}

// ListAll returns all forms joined with submitter details, newest first
func (r *FormRepo) ListAll(ctx context.Context) ([]*entity.FormRow, error) {
	var rows []*entity.FormRow
	err := r.db.WithContext(ctx).Model(&entity.VerificationForm{}).
		Select(formJoinedColumns).
		Joins("JOIN users u ON u.id = verification_forms.user_id").
		Order("verification_forms.created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetRowById returns one form joined with submitter details, nil when absent
func (r *FormRepo) GetRowById(ctx context.Context, id int64) (*entity.FormRow, error) {
	var row entity.FormRow
	err := r.db.WithContext(ctx).Model(&entity.VerificationForm{}).
		Select(formJoinedColumns).
		Joins("JOIN users u ON u.id = verification_forms.user_id").
		Where("verification_forms.id = ?", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Update updates form fields and reports affected rows
func (r *FormRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.VerificationForm{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected, res.Error
}

// Delete removes a form and reports affected rows
func (r *FormRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.VerificationForm{})
	return res.RowsAffected, res.Error
}

// UpdateStatus sets the review outcome and notes, reporting affected rows
func (r *FormRepo) UpdateStatus(ctx context.Context, id int64, status, adminNotes string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.VerificationForm{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "admin_notes": adminNotes})
	return res.RowsAffected, res.Error
}

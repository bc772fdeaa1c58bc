package service

import (
	"context"

	"github.com/driveline/driveline/internal/entity"
	"github.com/driveline/driveline/internal/repository"
	"github.com/driveline/driveline/pkg/errcode"
	"github.com/mbeoliero/kit/log"
)

// StaffService handles the staff directory
type StaffService struct {
	staffRepo *repository.StaffRepo
}

// NewStaffService creates a new StaffService
func NewStaffService(staffRepo *repository.StaffRepo) *StaffService {
	return &StaffService{staffRepo: staffRepo}
}

// List returns all staff members (admin view)
func (s *StaffService) List(ctx context.Context) ([]*entity.StaffInfo, error) {
	staff, err := s.staffRepo.List(ctx)
	if err != nil {
		log.CtxError(ctx, "list staff failed: %v", err)
		return nil, errcode.ErrServer
	}
	return toStaffInfos(staff), nil
}

// ListVisible returns the publicly visible staff directory
func (s *StaffService) ListVisible(ctx context.Context) ([]*entity.StaffInfo, error) {
	staff, err := s.staffRepo.ListVisible(ctx)
	if err != nil {
		log.CtxError(ctx, "list visible staff failed: %v", err)
		return nil, errcode.ErrServer
	}
	return toStaffInfos(staff), nil
}

// SaveStaffRequest carries the staff member fields
type SaveStaffRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar"`
}

// Create adds a staff member, visible by default
func (s *StaffService) Create(ctx context.Context, req *SaveStaffRequest) (*entity.StaffInfo, error) {
	if req.FullName == "" || req.Role == "" {
		return nil, errcode.ErrMissingParams
	}

	staff := &entity.Staff{
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
		Avatar:    req.Avatar,
		IsVisible: true,
	}

	if err := s.staffRepo.Create(ctx, staff); err != nil {
		log.CtxError(ctx, "create staff failed: %v", err)
		return nil, errcode.ErrServer
	}

	log.CtxInfo(ctx, "staff created: staff_id=%d", staff.Id)
	return staff.ToStaffInfo(), nil
}

// Update revises a staff member's details
func (s *StaffService) Update(ctx context.Context, id int64, req *SaveStaffRequest) (*entity.StaffInfo, error) {
	updates := map[string]interface{}{}
	if req.FullName != "" {
		updates["full_name"] = req.FullName
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Role != "" {
		updates["role"] = req.Role
	}
	if req.Avatar != "" {
		updates["avatar"] = req.Avatar
	}
	if len(updates) == 0 {
		return nil, errcode.ErrMissingParams
	}

	if _, err := s.staffRepo.Update(ctx, id, updates); err != nil {
		log.CtxError(ctx, "update staff failed: staff_id=%d err=%v", id, err)
		return nil, errcode.ErrServer
	}

	staff, err := s.staffRepo.GetById(ctx, id)
	if err != nil {
		log.CtxError(ctx, "get staff failed: staff_id=%d err=%v", id, err)
		return nil, errcode.ErrServer
	}
	if staff == nil {
		return nil, errcode.ErrStaffNotFound
	}
	return staff.ToStaffInfo(), nil
}

// SetVisibility toggles whether the member appears in the public directory
func (s *StaffService) SetVisibility(ctx context.Context, id int64, visible bool) error {
	affected, err := s.staffRepo.Update(ctx, id, map[string]interface{}{"is_visible": visible})
	if err != nil {
		log.CtxError(ctx, "toggle staff visibility failed: staff_id=%d err=%v", id, err)
		return errcode.ErrServer
	}
	if affected == 0 {
		exists, err := s.staffRepo.GetById(ctx, id)
		if err != nil {
			return errcode.ErrServer
		}
		if exists == nil {
			return errcode.ErrStaffNotFound
		}
	}
	return nil
}

// Delete removes a staff member
func (s *StaffService) Delete(ctx context.Context, id int64) error {
	affected, err := s.staffRepo.Delete(ctx, id)
	if err != nil {
		log.CtxError(ctx, "delete staff failed: staff_id=%d err=%v", id, err)
		return errcode.ErrServer
	}
	if affected == 0 {
		return errcode.ErrStaffNotFound
	}
	return nil
}

func toStaffInfos(staff []*entity.Staff) []*entity.StaffInfo {
	result := make([]*entity.StaffInfo, 0, len(staff))
	for _, m := range staff {
		result = append(result, m.ToStaffInfo())
	}
	return result
}

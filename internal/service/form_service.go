package service

import (
	"context"

	"github.com/driveline/driveline/internal/entity"
	"github.com/driveline/driveline/internal/repository"
	"github.com/driveline/driveline/pkg/constant"
	"github.com/driveline/driveline/pkg/errcode"
	"github.com/mbeoliero/kit/log"
)

// FormService handles identity-verification document submissions
type FormService struct {
	formRepo *repository.FormRepo
	userRepo *repository.UserRepo
}

// NewFormService creates a new FormService
func NewFormService(repos *repository.Repositories) *FormService {
	return &FormService{formRepo: repos.Form, userRepo: repos.User}
}

// SubmitFormRequest is a verification submission. The four primary document
// images and both id numbers are required; extra documents are optional.
type SubmitFormRequest struct {
	UserId          int64    `json:"userId"`
	GhanaCardNumber string   `json:"ghanaCardNumber"`
	LicenseNumber   string   `json:"licenseNumber"`
	BookingReason   string   `json:"bookingReason"`
	EmergencyName   string   `json:"emergencyName"`
	EmergencyPhone  string   `json:"emergencyPhone"`
	GhanaCardFront  string   `json:"ghanaCardFront"`
	GhanaCardBack   string   `json:"ghanaCardBack"`
	LicenseFront    string   `json:"licenseFront"`
	LicenseBack     string   `json:"licenseBack"`
	OtherDocuments  []string `json:"otherDocuments"`
}

// Submit files a new verification form in Pending state
func (s *FormService) Submit(ctx context.Context, req *SubmitFormRequest) (*entity.VerificationForm, error) {
	if req.UserId <= 0 || req.GhanaCardNumber == "" || req.LicenseNumber == "" {
		return nil, errcode.ErrMissingParams
	}
	if req.GhanaCardFront == "" || req.GhanaCardBack == "" || req.LicenseFront == "" || req.LicenseBack == "" {
		return nil, errcode.ErrMissingParams
	}

	exists, err := s.userRepo.Exists(ctx, req.UserId)
	if err != nil {
		log.CtxError(ctx, "check user failed: user_id=%d err=%v", req.UserId, err)
		return nil, errcode.ErrServer
	}
	if !exists {
		return nil, errcode.ErrUserNotFound
	}

	form := &entity.VerificationForm{
		UserId:          req.UserId,
		GhanaCardNumber: req.GhanaCardNumber,
		LicenseNumber:   req.LicenseNumber,
		BookingReason:   req.BookingReason,
		EmergencyName:   req.EmergencyName,
		EmergencyPhone:  req.EmergencyPhone,
		GhanaCardFront:  req.GhanaCardFront,
		GhanaCardBack:   req.GhanaCardBack,
		LicenseFront:    req.LicenseFront,
		LicenseBack:     req.LicenseBack,
		Status:          constant.FormStatusPending,
	}
	form.SetOtherDocumentPaths(req.OtherDocuments)

	if err := s.formRepo.Create(ctx, form); err != nil {
		log.CtxError(ctx, "create form failed: user_id=%d err=%v", req.UserId, err)
		return nil, errcode.ErrServer
	}

	log.CtxInfo(ctx, "verification form submitted: form_id=%d user_id=%d", form.Id, req.UserId)
	return form, nil
}

// Update revises an existing submission. Only pending forms may be edited by
// their owner; admins and managers can edit regardless of status.
func (s *FormService) Update(ctx context.Context, formId int64, callerRole string, req *SubmitFormRequest) error {
	form, err := s.formRepo.GetById(ctx, formId)
	if err != nil {
		log.CtxError(ctx, "get form failed: form_id=%d err=%v", formId, err)
		return errcode.ErrServer
	}
	if form == nil {
		return errcode.ErrFormNotFound
	}

	privileged := callerRole == constant.RoleAdmin || callerRole == constant.RoleManager
	if !privileged && form.Status != constant.FormStatusPending {
		return errcode.ErrFormNotPending
	}

	updates := map[string]interface{}{}
	setIfPresent(updates, "ghana_card_number", req.GhanaCardNumber)
	setIfPresent(updates, "license_number", req.LicenseNumber)
	setIfPresent(updates, "booking_reason", req.BookingReason)
	setIfPresent(updates, "emergency_name", req.EmergencyName)
	setIfPresent(updates, "emergency_phone", req.EmergencyPhone)
	setIfPresent(updates, "ghana_card_front", req.GhanaCardFront)
	setIfPresent(updates, "ghana_card_back", req.GhanaCardBack)
	setIfPresent(updates, "license_front", req.LicenseFront)
	setIfPresent(updates, "license_back", req.LicenseBack)
	if req.OtherDocuments != nil {
		tmp := &entity.VerificationForm{}
		tmp.SetOtherDocumentPaths(req.OtherDocuments)
		updates["other_documents"] = tmp.OtherDocuments
	}
	if len(updates) == 0 {
		return errcode.ErrMissingParams
	}

	if _, err := s.formRepo.Update(ctx, formId, updates); err != nil {
		log.CtxError(ctx, "update form failed: form_id=%d err=%v", formId, err)
		return errcode.ErrServer
	}
	return nil
}

// ListAll returns every submission with submitter details (admin view)
func (s *FormService) ListAll(ctx context.Context) ([]*entity.FormRow, error) {
	rows, err := s.formRepo.ListAll(ctx)
	if err != nil {
		log.CtxError(ctx, "list forms failed: %v", err)
		return nil, errcode.ErrServer
	}
	return rows, nil
}

// GetByUser returns the user's most recent submission, nil when none exists
func (s *FormService) GetByUser(ctx context.Context, userId int64) (*entity.VerificationForm, error) {
	if userId <= 0 {
		return nil, errcode.ErrMissingUserId
	}

	form, err := s.formRepo.GetLatestByUser(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "get user form failed: user_id=%d err=%v", userId, err)
		return nil, errcode.ErrServer
	}
	return form, nil
}

// Get returns one submission joined with submitter details
func (s *FormService) Get(ctx context.Context, formId int64) (*entity.FormRow, error) {
	row, err := s.formRepo.GetRowById(ctx, formId)
	if err != nil {
		log.CtxError(ctx, "get form failed: form_id=%d err=%v", formId, err)
		return nil, errcode.ErrServer
	}
	if row == nil {
		return nil, errcode.ErrFormNotFound
	}
	return row, nil
}

// UpdateStatus records the admin review decision
func (s *FormService) UpdateStatus(ctx context.Context, formId int64, status, adminNotes string) error {
	switch status {
	case constant.FormStatusPending, constant.FormStatusApproved, constant.FormStatusRejected:
	default:
		return errcode.ErrInvalidParam
	}

	affected, err := s.formRepo.UpdateStatus(ctx, formId, status, adminNotes)
	if err != nil {
		log.CtxError(ctx, "update form status failed: form_id=%d err=%v", formId, err)
		return errcode.ErrServer
	}
	if affected == 0 {
		return errcode.ErrFormNotFound
	}

	log.CtxInfo(ctx, "form status updated: form_id=%d status=%s", formId, status)
	return nil
}

// Delete removes a submission
func (s *FormService) Delete(ctx context.Context, formId int64) error {
	affected, err := s.formRepo.Delete(ctx, formId)
	if err != nil {
		log.CtxError(ctx, "delete form failed: form_id=%d err=%v", formId, err)
		return errcode.ErrServer
	}
	if affected == 0 {
		return errcode.ErrFormNotFound
	}
	return nil
}

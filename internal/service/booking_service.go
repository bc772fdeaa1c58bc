package service

import (
	"context"
	"fmt"

	"github.com/driveline/driveline/internal/entity"
	"github.com/driveline/driveline/internal/repository"
	"github.com/driveline/driveline/pkg/constant"
	"github.com/driveline/driveline/pkg/errcode"
	"github.com/mbeoliero/kit/log"
)

// BookingService handles the booking request and approval workflow
type BookingService struct {
	bookingRepo *repository.BookingRepo
	carRepo     *repository.CarRepo
	userRepo    *repository.UserRepo
}

// NewBookingService creates a new BookingService
func NewBookingService(repos *repository.Repositories) *BookingService {
	return &BookingService{
		bookingRepo: repos.Booking,
		carRepo:     repos.Car,
		userRepo:    repos.User,
	}
}

// CreateBookingRequest is the customer booking submission
type CreateBookingRequest struct {
	CarId               int64  `json:"carId"`
	UserId              int64  `json:"userId"`
	PickupLocationType  string `json:"pickupLocationType"`
	DropoffLocationType string `json:"dropoffLocationType"`
	PickupLocation      string `json:"pickupLocation"`
	DropoffLocation     string `json:"dropoffLocation"`
	PickupDate          string `json:"pickupDate"`
	PickupTime          string `json:"pickupTime"`
	DropoffDate         string `json:"dropoffDate"`
	DropoffTime         string `json:"dropoffTime"`
	CustomerNote        string `json:"customerNote"`
}

// Create submits a booking request in Pending state
func (s *BookingService) Create(ctx context.Context, req *CreateBookingRequest) (*entity.Booking, error) {
	if req.CarId <= 0 || req.UserId <= 0 || req.PickupDate == "" || req.DropoffDate == "" {
		return nil, errcode.ErrMissingParams
	}

	car, err := s.carRepo.GetById(ctx, req.CarId)
	if err != nil {
		log.CtxError(ctx, "get car failed: car_id=%d err=%v", req.CarId, err)
		return nil, errcode.ErrServer
	}
	if car == nil {
		return nil, errcode.ErrCarNotFound
	}

	exists, err := s.userRepo.Exists(ctx, req.UserId)
	if err != nil {
		log.CtxError(ctx, "check user failed: user_id=%d err=%v", req.UserId, err)
		return nil, errcode.ErrServer
	}
	if !exists {
		return nil, errcode.ErrUserNotFound
	}

	booking := &entity.Booking{
		CarId:               req.CarId,
		UserId:              req.UserId,
		PickupLocationType:  req.PickupLocationType,
		DropoffLocationType: req.DropoffLocationType,
		PickupLocation:      req.PickupLocation,
		DropoffLocation:     req.DropoffLocation,
		PickupDate:          req.PickupDate,
		PickupTime:          req.PickupTime,
		DropoffDate:         req.DropoffDate,
		DropoffTime:         req.DropoffTime,
		Status:              constant.BookingStatusPending,
		CustomerNote:        req.CustomerNote,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		log.CtxError(ctx, "create booking failed: %v", err)
		return nil, errcode.ErrServer
	}

	log.CtxInfo(ctx, "booking created: booking_id=%d car_id=%d user_id=%d", booking.Id, req.CarId, req.UserId)
	return booking, nil
}

// ListAll returns every booking with customer and car details (admin view)
func (s *BookingService) ListAll(ctx context.Context) ([]*entity.BookingInfo, error) {
	rows, err := s.bookingRepo.ListAll(ctx)
	if err != nil {
		log.CtxError(ctx, "list bookings failed: %v", err)
		return nil, errcode.ErrServer
	}
	return toBookingInfos(rows, true), nil
}

// ListByUser returns a customer's own bookings with car details
func (s *BookingService) ListByUser(ctx context.Context, userId int64) ([]*entity.BookingInfo, error) {
	if userId <= 0 {
		return nil, errcode.ErrMissingUserId
	}

	rows, err := s.bookingRepo.ListByUser(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "list user bookings failed: user_id=%d err=%v", userId, err)
		return nil, errcode.ErrServer
	}
	return toBookingInfos(rows, false), nil
}

// EditBookingRequest is the customer edit payload
type EditBookingRequest struct {
	PickupLocationType  string `json:"pickupLocationType"`
	DropoffLocationType string `json:"dropoffLocationType"`
	PickupLocation      string `json:"pickupLocation"`
	DropoffLocation     string `json:"dropoffLocation"`
	PickupDate          string `json:"pickupDate"`
	PickupTime          string `json:"pickupTime"`
	DropoffDate         string `json:"dropoffDate"`
	DropoffTime         string `json:"dropoffTime"`
	CustomerNote        string `json:"customerNote"`
}

// Edit lets the owning customer revise a booking. Approved bookings are
// immutable; every successful edit resets the status to Pending for re-review.
func (s *BookingService) Edit(ctx context.Context, bookingId, userId int64, req *EditBookingRequest) error {
	booking, err := s.bookingRepo.GetById(ctx, bookingId)
	if err != nil {
		log.CtxError(ctx, "get booking failed: booking_id=%d err=%v", bookingId, err)
		return errcode.ErrServer
	}
	if booking == nil {
		return errcode.ErrBookingNotFound
	}
	if booking.UserId != userId {
		return errcode.ErrNotBookingOwner
	}
	if booking.IsApproved() {
		return errcode.ErrBookingApproved
	}

	updates := map[string]interface{}{"status": constant.BookingStatusPending}
	setIfPresent(updates, "pickup_location_type", req.PickupLocationType)
	setIfPresent(updates, "dropoff_location_type", req.DropoffLocationType)
	setIfPresent(updates, "pickup_location", req.PickupLocation)
	setIfPresent(updates, "dropoff_location", req.DropoffLocation)
	setIfPresent(updates, "pickup_date", req.PickupDate)
	setIfPresent(updates, "pickup_time", req.PickupTime)
	setIfPresent(updates, "dropoff_date", req.DropoffDate)
	setIfPresent(updates, "dropoff_time", req.DropoffTime)
	setIfPresent(updates, "customer_note", req.CustomerNote)

	if _, err := s.bookingRepo.Update(ctx, bookingId, updates); err != nil {
		log.CtxError(ctx, "edit booking failed: booking_id=%d err=%v", bookingId, err)
		return errcode.ErrServer
	}
	return nil
}

// UpdateStatus applies an admin review decision with a manager note
func (s *BookingService) UpdateStatus(ctx context.Context, bookingId int64, status, managerNote string) error {
	switch status {
	case constant.BookingStatusPending, constant.BookingStatusApproved,
		constant.BookingStatusRejected, constant.BookingStatusCancelled:
	default:
		return errcode.ErrInvalidParam
	}

	affected, err := s.bookingRepo.Update(ctx, bookingId, map[string]interface{}{
		"status":       status,
		"manager_note": managerNote,
	})
	if err != nil {
		log.CtxError(ctx, "update booking status failed: booking_id=%d err=%v", bookingId, err)
		return errcode.ErrServer
	}
	if affected == 0 {
		return errcode.ErrBookingNotFound
	}

	log.CtxInfo(ctx, "booking status updated: booking_id=%d status=%s", bookingId, status)
	return nil
}

// Cancel lets the owning customer withdraw a pending booking
func (s *BookingService) Cancel(ctx context.Context, bookingId, userId int64) error {
	booking, err := s.bookingRepo.GetById(ctx, bookingId)
	if err != nil {
		log.CtxError(ctx, "get booking failed: booking_id=%d err=%v", bookingId, err)
		return errcode.ErrServer
	}
	if booking == nil {
		return errcode.ErrBookingNotFound
	}
	if booking.UserId != userId {
		return errcode.ErrNotBookingOwner
	}
	if booking.IsApproved() {
		return errcode.ErrBookingApproved
	}

	if _, err := s.bookingRepo.Update(ctx, bookingId, map[string]interface{}{
		"status": constant.BookingStatusCancelled,
	}); err != nil {
		log.CtxError(ctx, "cancel booking failed: booking_id=%d err=%v", bookingId, err)
		return errcode.ErrServer
	}
	return nil
}

// Delete removes a booking (admin operation). Approved bookings stay on record.
func (s *BookingService) Delete(ctx context.Context, bookingId int64) error {
	booking, err := s.bookingRepo.GetById(ctx, bookingId)
	if err != nil {
		log.CtxError(ctx, "get booking failed: booking_id=%d err=%v", bookingId, err)
		return errcode.ErrServer
	}
	if booking == nil {
		return errcode.ErrBookingNotFound
	}
	if booking.IsApproved() {
		return errcode.ErrBookingApproved
	}

	if _, err := s.bookingRepo.Delete(ctx, bookingId); err != nil {
		log.CtxError(ctx, "delete booking failed: booking_id=%d err=%v", bookingId, err)
		return errcode.ErrServer
	}
	return nil
}

func toBookingInfos(rows []*entity.BookingRow, withCustomer bool) []*entity.BookingInfo {
	result := make([]*entity.BookingInfo, 0, len(rows))
	for _, row := range rows {
		info := &entity.BookingInfo{
			Id:                  row.Id,
			CarName:             row.CarName,
			CarImage:            row.CarImage,
			PricePerDay:         row.PricePerDay,
			PickupDate:          row.PickupDate,
			PickupTime:          row.PickupTime,
			DropoffDate:         row.DropoffDate,
			DropoffTime:         row.DropoffTime,
			PickupLocationType:  row.PickupLocationType,
			PickupLocation:      row.PickupLocation,
			DropoffLocationType: row.DropoffLocationType,
			DropoffLocation:     row.DropoffLocation,
			Status:              row.Status,
			CustomerNote:        row.CustomerNote,
			ManagerNote:         row.ManagerNote,
			CreatedAt:           row.CreatedAt,
			UserId:              row.UserId,
			CarId:               row.CarId,
		}
		if withCustomer {
			info.CustomerName = fmt.Sprintf("%s %s", row.FirstName, row.LastName)
			info.CustomerPhone = row.Phone
			info.CustomerEmail = row.Email
		}
		result = append(result, info)
	}
	return result
}

func setIfPresent(updates map[string]interface{}, column, value string) {
	if value != "" {
		updates[column] = value
	}
}

package repository

import (
	"context"
	"errors"

	"github.com/driveline/driveline/internal/entity"
	"gorm.io/gorm"
)

const bookingJoinedColumns = "bookings.*, u.first_name, u.last_name, u.email, u.phone, " +
	"c.name AS car_name, c.image AS car_image, c.price AS price_per_day, c.year AS car_year, c.transmission"

// BookingRepo is the repository for booking operations
type BookingRepo struct {
	db *gorm.DB
}

// NewBookingRepo creates a new BookingRepo
func NewBookingRepo(db *gorm.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// Create inserts a booking
func (r *BookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// GetById gets booking by id, nil when absent
func (r *BookingRepo) GetById(ctx context.Context, id int64) (*entity.Booking, error) {
	var booking entity.Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

// ListAll returns all bookings joined with customer and car columns, newest first
func (r *BookingRepo) ListAll(ctx context.Context) ([]*entity.BookingRow, error) {
	var rows []*entity.BookingRow
	err := r.db.WithContext(ctx).Model(&entity.Booking{}).
		Select(bookingJoinedColumns).
		Joins("JOIN users u ON u.id = bookings.user_id").
		Joins("JOIN cars c ON c.id = bookings.car_id").
		Order("bookings.created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByUser returns a user's bookings joined with car columns, newest first
func (r *BookingRepo) ListByUser(ctx context.Context, userId int64) ([]*entity.BookingRow, error) {
	var rows []*entity.BookingRow
	err := r.db.WithContext(ctx).Model(&entity.Booking{}).
		Select(bookingJoinedColumns).
		Joins("JOIN users u ON u.id = bookings.user_id").
		Joins("JOIN cars c ON c.id = bookings.car_id").
		Where("bookings.user_id = ?", userId).
		Order("bookings.created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update updates booking fields and reports affected rows
func (r *BookingRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.Booking{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected, res.Error
}

// Delete removes a booking and reports affected rows
func (r *BookingRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Booking{})
	return res.RowsAffected, res.Error
}

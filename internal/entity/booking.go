package entity

import "github.com/driveline/driveline/pkg/constant"

// Booking represents a rental booking request
type Booking struct {
	Id                  int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	CarId               int64  `json:"car_id" gorm:"column:car_id;index"`
	UserId              int64  `json:"user_id" gorm:"column:user_id;index"`
	PickupLocationType  string `json:"pickup_location_type" gorm:"column:pickup_location_type"`
	DropoffLocationType string `json:"dropoff_location_type" gorm:"column:dropoff_location_type"`
	PickupLocation      string `json:"pickup_location" gorm:"column:pickup_location"`
	DropoffLocation     string `json:"dropoff_location" gorm:"column:dropoff_location"`
	PickupDate          string `json:"pickup_date" gorm:"column:pickup_date"`
	PickupTime          string `json:"pickup_time" gorm:"column:pickup_time"`
	DropoffDate         string `json:"dropoff_date" gorm:"column:dropoff_date"`
	DropoffTime         string `json:"dropoff_time" gorm:"column:dropoff_time"`
	Status              string `json:"status" gorm:"column:status"`
	CustomerNote        string `json:"customer_note" gorm:"column:customer_note"`
	ManagerNote         string `json:"manager_note" gorm:"column:manager_note"`
	CreatedAt           int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt           int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// IsApproved reports whether the booking has been approved. Approved bookings
// may not be edited, cancelled or deleted.
func (b *Booking) IsApproved() bool {
	return b.Status == constant.BookingStatusApproved
}

// BookingRow is the joined customer+car projection for admin and user listings
type BookingRow struct {
	Booking
	FirstName    string  `gorm:"column:first_name"`
	LastName     string  `gorm:"column:last_name"`
	Email        string  `gorm:"column:email"`
	Phone        string  `gorm:"column:phone"`
	CarName      string  `gorm:"column:car_name"`
	CarImage     string  `gorm:"column:car_image"`
	PricePerDay  float64 `gorm:"column:price_per_day"`
	CarYear      int     `gorm:"column:car_year"`
	Transmission string  `gorm:"column:transmission"`
}

// BookingInfo is the frontend-facing booking shape
type BookingInfo struct {
	Id                  int64   `json:"id"`
	CustomerName        string  `json:"customerName,omitempty"`
	CustomerPhone       string  `json:"customerPhone,omitempty"`
	CustomerEmail       string  `json:"customerEmail,omitempty"`
	CarName             string  `json:"carName"`
	CarImage            string  `json:"carImage"`
	PricePerDay         float64 `json:"pricePerDay"`
	PickupDate          string  `json:"pickupDate"`
	PickupTime          string  `json:"pickupTime"`
	DropoffDate         string  `json:"dropoffDate"`
	DropoffTime         string  `json:"dropoffTime"`
	PickupLocationType  string  `json:"pickupLocationType"`
	PickupLocation      string  `json:"pickupLocation"`
	DropoffLocationType string  `json:"dropoffLocationType"`
	DropoffLocation     string  `json:"dropoffLocation"`
	Status              string  `json:"status"`
	CustomerNote        string  `json:"customerNote"`
	ManagerNote         string  `json:"managerNote"`
	CreatedAt           int64   `json:"createdAt"`
	UserId              int64   `json:"userId,omitempty"`
	CarId               int64   `json:"carId,omitempty"`
}

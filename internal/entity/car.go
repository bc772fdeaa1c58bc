package entity

// Car represents a rental car listing
type Car struct {
	Id           int64   `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name         string  `json:"name" gorm:"column:name"`
	Price        float64 `json:"price" gorm:"column:price"`
	Year         int     `json:"year" gorm:"column:year"`
	Transmission string  `json:"transmission" gorm:"column:transmission"`
	Fuel         string  `json:"fuel" gorm:"column:fuel"`
	Seats        int     `json:"seats" gorm:"column:seats"`
	Mileage      int     `json:"mileage" gorm:"column:mileage"`
	Description  string  `json:"description" gorm:"column:description"`
	Image        string  `json:"image" gorm:"column:image"`
	CreatedAt    int64   `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt    int64   `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Car
func (Car) TableName() string {
	return "cars"
}

// CarImage is one gallery image attached to a car
type CarImage struct {
	Id        int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	CarId     int64  `json:"car_id" gorm:"column:car_id;index"`
	ImagePath string `json:"image_path" gorm:"column:image_path"`
}

// TableName returns the table name for CarImage
func (CarImage) TableName() string {
	return "car_gallery"
}

// CarInfo is a car with its aggregated gallery, as served to clients.
// The main image is prepended to the gallery when not already present.
type CarInfo struct {
	Car
	Gallery []string `json:"gallery"`
}

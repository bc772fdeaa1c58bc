package repository

import (
	"context"
	"errors"

	"github.com/driveline/driveline/internal/entity"
	"gorm.io/gorm"
)

// CarRepo is the repository for car inventory operations
type CarRepo struct {
	db *gorm.DB
}

// NewCarRepo creates a new CarRepo
func NewCarRepo(db *gorm.DB) *CarRepo {
	return &CarRepo{db: db}
}

// List returns all cars, newest first
func (r *CarRepo) List(ctx context.Context) ([]*entity.Car, error) {
	var cars []*entity.Car
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&cars).Error
	if err != nil {
		return nil, err
	}
	return cars, nil
}

// GetById gets car by id, nil when absent
func (r *CarRepo) GetById(ctx context.Context, id int64) (*entity.Car, error) {
	var car entity.Car
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&car).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &car, nil
}

// Create inserts a car within the given transaction
func (r *CarRepo) Create(ctx context.Context, tx *gorm.DB, car *entity.Car) error {
	return tx.WithContext(ctx).Create(car).Error
}

// Update updates car fields
func (r *CarRepo) Update(ctx context.Context, tx *gorm.DB, id int64, updates map[string]interface{}) (int64, error) {
	res := tx.WithContext(ctx).Model(&entity.Car{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected, res.Error
}

// Delete removes a car; gallery rows cascade via foreign key
func (r *CarRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Car{}).Error
}

// GetGallery returns the gallery image paths for a car
func (r *CarRepo) GetGallery(ctx context.Context, carId int64) ([]string, error) {
	var images []*entity.CarImage
	err := r.db.WithContext(ctx).Where("car_id = ?", carId).Find(&images).Error
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(images))
	for _, img := range images {
		paths = append(paths, img.ImagePath)
	}
	return paths, nil
}

// ReplaceGallery deletes the car's gallery rows and inserts the new set
func (r *CarRepo) ReplaceGallery(ctx context.Context, tx *gorm.DB, carId int64, paths []string) error {
	if err := tx.WithContext(ctx).Where("car_id = ?", carId).Delete(&entity.CarImage{}).Error; err != nil {
		return err
	}
	return r.AddGallery(ctx, tx, carId, paths)
}

// AddGallery inserts gallery rows for a car
func (r *CarRepo) AddGallery(ctx context.Context, tx *gorm.DB, carId int64, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	images := make([]*entity.CarImage, 0, len(paths))
	for _, p := range paths {
		images = append(images, &entity.CarImage{CarId: carId, ImagePath: p})
	}
	return tx.WithContext(ctx).Create(&images).Error
}

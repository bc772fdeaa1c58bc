package service

import (
	"context"

	"github.com/driveline/driveline/internal/entity"
	"github.com/driveline/driveline/internal/repository"
	"github.com/driveline/driveline/pkg/errcode"
	"github.com/mbeoliero/kit/log"
	"gorm.io/gorm"
)

// CarService handles car inventory and gallery management
type CarService struct {
	carRepo *repository.CarRepo
	repos   *repository.Repositories
}

// NewCarService creates a new CarService
func NewCarService(repos *repository.Repositories) *CarService {
	return &CarService{carRepo: repos.Car, repos: repos}
}

// List returns all cars with their galleries, main image first
func (s *CarService) List(ctx context.Context) ([]*entity.CarInfo, error) {
	cars, err := s.carRepo.List(ctx)
	if err != nil {
		log.CtxError(ctx, "list cars failed: %v", err)
		return nil, errcode.ErrServer
	}

	result := make([]*entity.CarInfo, 0, len(cars))
	for _, car := range cars {
		gallery, err := s.carRepo.GetGallery(ctx, car.Id)
		if err != nil {
			log.CtxError(ctx, "load gallery failed: car_id=%d err=%v", car.Id, err)
			return nil, errcode.ErrServer
		}
		result = append(result, buildCarInfo(car, gallery))
	}
	return result, nil
}

// Get returns one car with its gallery
func (s *CarService) Get(ctx context.Context, id int64) (*entity.CarInfo, error) {
	car, err := s.carRepo.GetById(ctx, id)
	if err != nil {
		log.CtxError(ctx, "get car failed: car_id=%d err=%v", id, err)
		return nil, errcode.ErrServer
	}
	if car == nil {
		return nil, errcode.ErrCarNotFound
	}

	gallery, err := s.carRepo.GetGallery(ctx, id)
	if err != nil {
		log.CtxError(ctx, "load gallery failed: car_id=%d err=%v", id, err)
		return nil, errcode.ErrServer
	}
	return buildCarInfo(car, gallery), nil
}

// SaveCarRequest carries the car fields plus the gallery image URLs
type SaveCarRequest struct {
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	Year         int      `json:"year"`
	Transmission string   `json:"transmission"`
	Fuel         string   `json:"fuel"`
	Seats        int      `json:"seats"`
	Mileage      int      `json:"mileage"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	Gallery      []string `json:"gallery"`
}

// Create inserts a car and its gallery atomically
func (s *CarService) Create(ctx context.Context, req *SaveCarRequest) (*entity.CarInfo, error) {
	if req.Name == "" || req.Price <= 0 {
		return nil, errcode.ErrMissingParams
	}

	car := &entity.Car{
		Name:         req.Name,
		Price:        req.Price,
		Year:         req.Year,
		Transmission: req.Transmission,
		Fuel:         req.Fuel,
		Seats:        req.Seats,
		Mileage:      req.Mileage,
		Description:  req.Description,
		Image:        req.Image,
	}

	err := s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.carRepo.Create(ctx, tx, car); err != nil {
			return err
		}
		return s.carRepo.AddGallery(ctx, tx, car.Id, req.Gallery)
	})
	if err != nil {
		log.CtxError(ctx, "create car failed: %v", err)
		return nil, errcode.ErrServer
	}

	log.CtxInfo(ctx, "car created: car_id=%d", car.Id)
	return buildCarInfo(car, req.Gallery), nil
}

// Update rewrites a car's fields and replaces its gallery atomically
func (s *CarService) Update(ctx context.Context, id int64, req *SaveCarRequest) (*entity.CarInfo, error) {
	existing, err := s.carRepo.GetById(ctx, id)
	if err != nil {
		log.CtxError(ctx, "get car failed: car_id=%d err=%v", id, err)
		return nil, errcode.ErrServer
	}
	if existing == nil {
		return nil, errcode.ErrCarNotFound
	}

	updates := map[string]interface{}{
		"name":         req.Name,
		"price":        req.Price,
		"year":         req.Year,
		"transmission": req.Transmission,
		"fuel":         req.Fuel,
		"seats":        req.Seats,
		"mileage":      req.Mileage,
		"description":  req.Description,
	}
	if req.Image != "" {
		updates["image"] = req.Image
	}

	err = s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.carRepo.Update(ctx, tx, id, updates); err != nil {
			return err
		}
		if req.Gallery != nil {
			return s.carRepo.ReplaceGallery(ctx, tx, id, req.Gallery)
		}
		return nil
	})
	if err != nil {
		log.CtxError(ctx, "update car failed: car_id=%d err=%v", id, err)
		return nil, errcode.ErrServer
	}

	return s.Get(ctx, id)
}

// Delete removes a car listing
func (s *CarService) Delete(ctx context.Context, id int64) error {
	existing, err := s.carRepo.GetById(ctx, id)
	if err != nil {
		log.CtxError(ctx, "get car failed: car_id=%d err=%v", id, err)
		return errcode.ErrServer
	}
	if existing == nil {
		return errcode.ErrCarNotFound
	}

	if err := s.carRepo.Delete(ctx, id); err != nil {
		log.CtxError(ctx, "delete car failed: car_id=%d err=%v", id, err)
		return errcode.ErrServer
	}

	log.CtxInfo(ctx, "car deleted: car_id=%d", id)
	return nil
}

// buildCarInfo prepends the main image to the gallery when missing
func buildCarInfo(car *entity.Car, gallery []string) *entity.CarInfo {
	if car.Image != "" {
		found := false
		for _, g := range gallery {
			if g == car.Image {
				found = true
				break
			}
		}
		if !found {
			gallery = append([]string{car.Image}, gallery...)
		}
	}
	if gallery == nil {
		gallery = []string{}
	}
	return &entity.CarInfo{Car: *car, Gallery: gallery}
}

// Package garage is the vehicle store: one car and its service history per
// user.
package garage

import (
	"context"
	"fmt"
	"time"

	"github.com/ukydev/car-logbook/internal/db"
	"github.com/ukydev/car-logbook/internal/models"
)

type Store struct {
	vehicles db.VehicleCollection
	now      func() time.Time
}

func NewStore(vehicles db.VehicleCollection) *Store {
	return &Store{vehicles: vehicles, now: time.Now}
}

// WithClock replaces the clock used for the default car's year.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Car returns the user's car. Users who never saved one get a complete
// default car; missing fields of a stored car are filled the same way.
func (s *Store) Car(ctx context.Context, username string) (models.Car, error) {
	car, err := s.vehicles.FindCar(ctx, username)
	if err != nil {
		return models.Car{}, fmt.Errorf("failed to load car for %s: %w", username, err)
	}
	if car == nil {
		return models.DefaultCar(s.now()), nil
	}
	return car.WithDefaults(s.now()), nil
}

// Services returns the user's service history, unsorted.
func (s *Store) Services(ctx context.Context, username string) ([]models.ServiceRecord, error) {
	services, err := s.vehicles.FindServices(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load services for %s: %w", username, err)
	}
	return services, nil
}

// SaveData replaces both the car and the whole service history.
func (s *Store) SaveData(ctx context.Context, username string, car models.Car, services []models.ServiceRecord) error {
	if err := s.vehicles.SaveCar(ctx, username, car); err != nil {
		return fmt.Errorf("failed to save car for %s: %w", username, err)
	}
	if err := s.vehicles.SaveServices(ctx, username, services); err != nil {
		return fmt.Errorf("failed to save services for %s: %w", username, err)
	}
	return nil
}

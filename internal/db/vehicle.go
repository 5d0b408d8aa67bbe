package db

import (
	"context"

	"github.com/ukydev/car-logbook/internal/models"
)

// StoreVehicleCollection keeps a user's car and service history under
// CarKey and ServicesKey.
type StoreVehicleCollection struct {
	Store Store
}

// FindCar returns the stored car, or nil if the user never saved one.
func (c *StoreVehicleCollection) FindCar(ctx context.Context, username string) (*models.Car, error) {
	var car models.Car
	found, err := getJSON(ctx, c.Store, CarKey(username), &car)
	if err != nil || !found {
		return nil, err
	}
	return &car, nil
}

// FindServices returns the stored history, or an empty slice.
func (c *StoreVehicleCollection) FindServices(ctx context.Context, username string) ([]models.ServiceRecord, error) {
	var services []models.ServiceRecord
	if _, err := getJSON(ctx, c.Store, ServicesKey(username), &services); err != nil {
		return nil, err
	}
	if services == nil {
		services = []models.ServiceRecord{}
	}
	return services, nil
}

func (c *StoreVehicleCollection) SaveCar(ctx context.Context, username string, car models.Car) error {
	return setJSON(ctx, c.Store, CarKey(username), car)
}

// SaveServices replaces the whole history.
func (c *StoreVehicleCollection) SaveServices(ctx context.Context, username string, services []models.ServiceRecord) error {
	if services == nil {
		services = []models.ServiceRecord{}
	}
	return setJSON(ctx, c.Store, ServicesKey(username), services)
}

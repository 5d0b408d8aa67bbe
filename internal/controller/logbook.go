package controller

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/car-logbook/internal/apperror"
	"github.com/ukydev/car-logbook/internal/currency"
	"github.com/ukydev/car-logbook/internal/events"
	"github.com/ukydev/car-logbook/internal/models"
	"github.com/ukydev/car-logbook/internal/subscription"
	"github.com/ukydev/car-logbook/internal/validation"
)

func newServiceID() string {
	return uuid.NewString()
}

// Car returns the signed-in user's car.
func (c *Controller) Car() (models.Car, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.ready(); err != nil {
		return models.Car{}, err
	}
	return c.car, nil
}

// Services returns the service history, highest mileage first.
func (c *Controller) Services() ([]models.ServiceRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.ready(); err != nil {
		return nil, err
	}
	return models.SortByMileageDesc(c.services), nil
}

// UpdateCar replaces the whole car profile.
func (c *Controller) UpdateCar(ctx context.Context, car models.Car) (models.Car, error) {
	if err := validation.Struct(car); err != nil {
		return models.Car{}, err
	}

	c.mu.Lock()
	defer c.unlock(ctx)

	user, err := c.ready()
	if err != nil {
		return models.Car{}, err
	}
	if err := c.save(ctx, user.Username, car, c.services); err != nil {
		return models.Car{}, err
	}
	c.publish(events.CarUpdated, user.Username, car)
	return car, nil
}

// AddService appends a record to the history. Cost is converted from the
// input currency to the base currency, the date defaults to today and the
// car's mileage is raised to the record's mileage when that is higher.
func (c *Controller) AddService(ctx context.Context, input models.ServiceInput) (*models.ServiceRecord, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	date, err := c.serviceDate(input.Date)
	if err != nil {
		return nil, err
	}
	cost, err := toBase(input.Cost, input.Currency)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.unlock(ctx)

	user, err := c.ready()
	if err != nil {
		return nil, err
	}
	if !subscription.CanAddService(user, len(c.services)) {
		return nil, ErrServiceLimitReached
	}

	category := input.Category
	if category == "" {
		category = models.CategoryGeneral
	}
	record := models.ServiceRecord{
		ID:             c.newID(),
		Date:           date,
		Mileage:        input.Mileage,
		Category:       category,
		Type:           input.Type,
		Cost:           cost,
		ServiceStation: input.ServiceStation,
		Notes:          input.Notes,
	}

	services := append(append([]models.ServiceRecord(nil), c.services...), record)
	car, raised := raiseMileage(c.car, record.Mileage)
	if err := c.save(ctx, user.Username, car, services); err != nil {
		return nil, err
	}
	if c.modal == ModalAddService {
		c.closeModal()
	}

	c.metrics.ServiceRecord("added")
	c.logger.WithFields(log.Fields{
		"username": user.Username,
		"service":  record.ID,
		"mileage":  record.Mileage,
	}).Info("Service added")
	c.publish(events.ServiceAdded, user.Username, record)
	if raised {
		c.publish(events.MileageRaised, user.Username, map[string]int{"mileage": car.Mileage})
	}
	return &record, nil
}

// UpdateService merges patch into the record with the given id. Like
// AddService it never lowers the car's mileage.
func (c *Controller) UpdateService(ctx context.Context, id string, patch models.ServicePatch) (*models.ServiceRecord, error) {
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}
	if patch.Date != nil {
		date, err := c.serviceDate(*patch.Date)
		if err != nil {
			return nil, err
		}
		patch.Date = &date
	}
	var cost *float64
	if patch.Cost != nil {
		base, err := toBase(*patch.Cost, patch.Currency)
		if err != nil {
			return nil, err
		}
		cost = &base
	}

	c.mu.Lock()
	defer c.unlock(ctx)

	user, err := c.ready()
	if err != nil {
		return nil, err
	}
	i := c.indexOf(id)
	if i < 0 {
		return nil, apperror.NotFound("service", id)
	}

	services := append([]models.ServiceRecord(nil), c.services...)
	services[i] = patch.Apply(services[i], cost)
	record := services[i]
	car, raised := raiseMileage(c.car, record.Mileage)
	if err := c.save(ctx, user.Username, car, services); err != nil {
		return nil, err
	}
	if c.modal == ModalEditService && c.serviceID == id {
		c.closeModal()
	}

	c.metrics.ServiceRecord("updated")
	c.publish(events.ServiceUpdated, user.Username, record)
	if raised {
		c.publish(events.MileageRaised, user.Username, map[string]int{"mileage": car.Mileage})
	}
	return &record, nil
}

// DeleteService removes a record. The car's mileage is left as is.
func (c *Controller) DeleteService(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.unlock(ctx)

	user, err := c.ready()
	if err != nil {
		return err
	}
	i := c.indexOf(id)
	if i < 0 {
		return apperror.NotFound("service", id)
	}

	services := make([]models.ServiceRecord, 0, len(c.services)-1)
	services = append(services, c.services[:i]...)
	services = append(services, c.services[i+1:]...)
	if err := c.save(ctx, user.Username, c.car, services); err != nil {
		return err
	}
	if c.serviceID == id {
		c.closeModal()
	}

	c.metrics.ServiceRecord("deleted")
	c.publish(events.ServiceDeleted, user.Username, map[string]string{"id": id})
	return nil
}

// save writes car and services through the garage and, on success, adopts
// them as the in-memory state. c.mu must be held.
func (c *Controller) save(ctx context.Context, username string, car models.Car, services []models.ServiceRecord) error {
	if err := c.garage.SaveData(ctx, username, car, services); err != nil {
		c.logger.WithError(err).WithField("username", username).Error("Failed to save logbook")
		return err
	}
	c.car = car
	c.services = services
	return nil
}

func (c *Controller) indexOf(id string) int {
	for i, s := range c.services {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) serviceDate(date string) (string, error) {
	if date == "" {
		return c.now().Format(models.DateLayout), nil
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return "", apperror.ValidationFailed("date", "date must be in YYYY-MM-DD format")
	}
	return date, nil
}

func raiseMileage(car models.Car, mileage int) (models.Car, bool) {
	if mileage <= car.Mileage {
		return car, false
	}
	car.Mileage = mileage
	return car, true
}

func toBase(amount float64, c models.Currency) (float64, error) {
	if c == "" {
		return amount, nil
	}
	return currency.ToBase(amount, c)
}

package controller

import (
	"context"

	"github.com/ukydev/car-logbook/internal/currency"
	"github.com/ukydev/car-logbook/internal/maintenance"
	"github.com/ukydev/car-logbook/internal/models"
	"github.com/ukydev/car-logbook/internal/subscription"
)

// Dashboard is the overview shown after sign-in.
type Dashboard struct {
	User           models.User            `json:"user"`
	Car            models.Car             `json:"car"`
	ServiceCount   int                    `json:"serviceCount"`
	Currency       models.Currency        `json:"currency"`
	TotalSpent     float64                `json:"totalSpent"`
	TotalFormatted string                 `json:"totalSpentFormatted"`
	OilLife        maintenance.OilLife    `json:"oilLife"`
	Limits         subscription.Limits    `json:"limits"`
	History        []models.ServiceRecord `json:"history"`
}

// Dashboard summarises the logbook in the selected currency.
func (c *Controller) Dashboard(ctx context.Context) (*Dashboard, error) {
	prefs, err := c.prefs.GetPreferences(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	user, err := c.ready()
	if err != nil {
		return nil, err
	}

	base := maintenance.TotalCost(c.services)
	total, err := currency.ToSelected(base, prefs.Currency)
	if err != nil {
		return nil, err
	}
	formatted, err := currency.Format(base, prefs.Currency)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		User:           user,
		Car:            c.car,
		ServiceCount:   len(c.services),
		Currency:       prefs.Currency,
		TotalSpent:     total,
		TotalFormatted: formatted,
		OilLife:        maintenance.EstimateOilLife(c.car, c.services),
		Limits:         subscription.UsageLimits(user),
		History:        models.SortByMileageDesc(c.services),
	}, nil
}

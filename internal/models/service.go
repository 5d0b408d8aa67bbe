package models

import (
	"sort"
	"time"
)

// Service categories offered by the logbook.
const (
	CategoryGeneral    = "general"
	CategoryEngine     = "engine"
	CategoryBrakes     = "brakes"
	CategorySuspension = "suspension"
	CategoryElectrical = "electrical"
	CategoryTires      = "tires"
	CategoryOther      = "other"

	DateLayout = "2006-01-02"
)

// ServiceRecord represents one maintenance or repair event.
type ServiceRecord struct {
	ID             string  `json:"id"`
	Date           string  `json:"date"` // YYYY-MM-DD
	Mileage        int     `json:"mileage"`
	Category       string  `json:"category"`
	Type           string  `json:"type"`
	Cost           float64 `json:"cost"` // in the base currency
	ServiceStation string  `json:"serviceStation"`
	Notes          string  `json:"notes"`
}

// Time parses Date. Records written with a full timestamp are accepted too.
func (s ServiceRecord) Time() time.Time {
	if t, err := time.Parse(DateLayout, s.Date); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s.Date); err == nil {
		return t
	}
	return time.Time{}
}

// ServiceInput is what a user submits when logging a service. Cost is in
// Currency, which defaults to the base currency.
type ServiceInput struct {
	Date           string   `json:"date,omitempty"`
	Mileage        int      `json:"mileage" validate:"gt=0"`
	Category       string   `json:"category" validate:"omitempty,oneof=general engine brakes suspension electrical tires other"`
	Type           string   `json:"type" validate:"required"`
	Cost           float64  `json:"cost" validate:"gte=0"`
	Currency       Currency `json:"currency,omitempty"`
	ServiceStation string   `json:"serviceStation"`
	Notes          string   `json:"notes"`
}

// ServicePatch lists editable service fields; nil fields are left untouched.
// Cost is in Currency like ServiceInput.
type ServicePatch struct {
	Date           *string  `json:"date,omitempty"`
	Mileage        *int     `json:"mileage,omitempty" validate:"omitempty,gt=0"`
	Category       *string  `json:"category,omitempty" validate:"omitempty,oneof=general engine brakes suspension electrical tires other"`
	Type           *string  `json:"type,omitempty" validate:"omitempty,min=1"`
	Cost           *float64 `json:"cost,omitempty" validate:"omitempty,gte=0"`
	Currency       Currency `json:"currency,omitempty"`
	ServiceStation *string  `json:"serviceStation,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
}

// Apply merges the patch into s. baseCost is the patch cost already
// converted to the base currency.
func (p ServicePatch) Apply(s ServiceRecord, baseCost *float64) ServiceRecord {
	if p.Date != nil {
		s.Date = *p.Date
	}
	if p.Mileage != nil {
		s.Mileage = *p.Mileage
	}
	if p.Category != nil {
		s.Category = *p.Category
	}
	if p.Type != nil {
		s.Type = *p.Type
	}
	if baseCost != nil {
		s.Cost = *baseCost
	}
	if p.ServiceStation != nil {
		s.ServiceStation = *p.ServiceStation
	}
	if p.Notes != nil {
		s.Notes = *p.Notes
	}
	return s
}

// Categories returns the known service categories in display order.
func Categories() []string {
	return []string{
		CategoryGeneral, CategoryEngine, CategoryBrakes, CategorySuspension,
		CategoryElectrical, CategoryTires, CategoryOther,
	}
}

// SortByMileageDesc returns a copy of services, highest mileage first.
func SortByMileageDesc(services []ServiceRecord) []ServiceRecord {
	out := append([]ServiceRecord(nil), services...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Mileage > out[j].Mileage
	})
	return out
}

// SortByDateDesc returns a copy of services, newest first. Records on the
// same day are ordered by mileage.
func SortByDateDesc(services []ServiceRecord) []ServiceRecord {
	out := append([]ServiceRecord(nil), services...)
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := out[i].Time(), out[j].Time()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].Mileage > out[j].Mileage
	})
	return out
}

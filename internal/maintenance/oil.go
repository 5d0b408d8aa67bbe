// Package maintenance derives maintenance indicators from a car's service
// history.
package maintenance

import (
	"math"
	"strings"

	"github.com/ukydev/car-logbook/internal/models"
)

// OilChangeInterval is the distance in km an oil change is expected to last.
const OilChangeInterval = 15000

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Oil keywords matched in a service's free-text type, lower case.
var oilKeywords = []string{"oil", "öl", "масло", "aceite", "huile"}

// OilLife is the estimated remaining oil life.
type OilLife struct {
	Percentage    int                   `json:"percentage"`
	Severity      Severity              `json:"severity"`
	KmSinceChange int                   `json:"kmSinceChange"`
	LastChange    *models.ServiceRecord `json:"lastChange,omitempty"`
	// Inconsistent is set when the car's mileage is below the last oil
	// change. The estimate then reads 100% with high severity.
	Inconsistent bool `json:"inconsistent,omitempty"`
}

// IsOilService reports whether s counts as an oil change.
func IsOilService(s models.ServiceRecord) bool {
	if s.Category == models.CategoryEngine {
		return true
	}
	t := strings.ToLower(s.Type)
	for _, kw := range oilKeywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

// EstimateOilLife estimates remaining oil life from the most recent oil
// service and the car's current mileage.
func EstimateOilLife(car models.Car, services []models.ServiceRecord) OilLife {
	var oil []models.ServiceRecord
	for _, s := range services {
		if IsOilService(s) {
			oil = append(oil, s)
		}
	}
	if len(oil) == 0 {
		return OilLife{Percentage: 0, Severity: SeverityLow}
	}

	last := models.SortByDateDesc(oil)[0]
	km := car.Mileage - last.Mileage
	if km < 0 {
		return OilLife{
			Percentage:    100,
			Severity:      SeverityHigh,
			KmSinceChange: km,
			LastChange:    &last,
			Inconsistent:  true,
		}
	}

	used := float64(km) / OilChangeInterval * 100
	pct := int(math.Round(math.Max(0, math.Min(100, 100-used))))
	return OilLife{
		Percentage:    pct,
		Severity:      SeverityFor(pct),
		KmSinceChange: km,
		LastChange:    &last,
	}
}

// SeverityFor maps a remaining-life percentage to a severity.
func SeverityFor(percentage int) Severity {
	switch {
	case percentage >= 50:
		return SeverityHigh
	case percentage >= 20:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// TotalCost sums service costs in the base currency.
func TotalCost(services []models.ServiceRecord) float64 {
	var total float64
	for _, s := range services {
		total += s.Cost
	}
	return total
}

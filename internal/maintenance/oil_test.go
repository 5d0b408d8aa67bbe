package maintenance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/car-logbook/internal/models"
)

func oilChange(id, date string, mileage int) models.ServiceRecord {
	return models.ServiceRecord{ID: id, Date: date, Mileage: mileage, Category: models.CategoryGeneral, Type: "Oil change"}
}

func TestEstimateOilLife_Boundaries(t *testing.T) {
	services := []models.ServiceRecord{oilChange("1", "2024-01-01", 50000)}

	tests := []struct {
		name     string
		mileage  int
		pct      int
		severity Severity
	}{
		{"fresh", 50000, 100, SeverityHigh},
		{"exactly half", 57500, 50, SeverityHigh},
		{"just under half", 57600, 49, SeverityMedium},
		{"exactly twenty", 62000, 20, SeverityMedium},
		{"just under twenty", 62100, 19, SeverityLow},
		{"interval reached", 65000, 0, SeverityLow},
		{"overdue clamps", 90000, 0, SeverityLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			life := EstimateOilLife(models.Car{Mileage: tt.mileage}, services)
			assert.Equal(t, tt.pct, life.Percentage)
			assert.Equal(t, tt.severity, life.Severity)
			assert.Equal(t, tt.mileage-50000, life.KmSinceChange)
			assert.False(t, life.Inconsistent)
		})
	}
}

func TestEstimateOilLife_NoOilService(t *testing.T) {
	services := []models.ServiceRecord{
		{ID: "1", Date: "2024-01-01", Mileage: 50000, Category: models.CategoryBrakes, Type: "Brake pads"},
	}

	life := EstimateOilLife(models.Car{Mileage: 51000}, services)

	assert.Equal(t, OilLife{Percentage: 0, Severity: SeverityLow}, life)
	assert.Equal(t, OilLife{Percentage: 0, Severity: SeverityLow}, EstimateOilLife(models.Car{}, nil))
}

func TestEstimateOilLife_UsesMostRecentByDate(t *testing.T) {
	services := []models.ServiceRecord{
		oilChange("old", "2023-01-01", 40000),
		oilChange("new", "2024-06-01", 55000),
		{ID: "tires", Date: "2024-09-01", Mileage: 58000, Category: models.CategoryTires, Type: "Tire rotation"},
	}

	life := EstimateOilLife(models.Car{Mileage: 58000}, services)

	require.NotNil(t, life.LastChange)
	assert.Equal(t, "new", life.LastChange.ID)
	assert.Equal(t, 80, life.Percentage)
}

func TestEstimateOilLife_NegativeDistanceIsFlagged(t *testing.T) {
	services := []models.ServiceRecord{oilChange("1", "2024-01-01", 60000)}

	life := EstimateOilLife(models.Car{Mileage: 59000}, services)

	assert.Equal(t, 100, life.Percentage)
	assert.Equal(t, SeverityHigh, life.Severity)
	assert.Equal(t, -1000, life.KmSinceChange)
	assert.True(t, life.Inconsistent)
}

func TestIsOilService(t *testing.T) {
	tests := []struct {
		name string
		s    models.ServiceRecord
		want bool
	}{
		{"engine category", models.ServiceRecord{Category: models.CategoryEngine, Type: "Timing belt"}, true},
		{"english", models.ServiceRecord{Type: "OIL and filter"}, true},
		{"german", models.ServiceRecord{Type: "Ölwechsel"}, true},
		{"bulgarian", models.ServiceRecord{Type: "Смяна на масло"}, true},
		{"spanish", models.ServiceRecord{Type: "Cambio de aceite"}, true},
		{"french", models.ServiceRecord{Type: "Vidange huile"}, true},
		{"unrelated", models.ServiceRecord{Category: models.CategoryBrakes, Type: "Brake fluid"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOilService(tt.s))
		})
	}
}

func TestTotalCost(t *testing.T) {
	services := []models.ServiceRecord{{Cost: 80}, {Cost: 120.5}, {Cost: 0}}
	assert.InDelta(t, 200.5, TotalCost(services), 1e-9)
	assert.Zero(t, TotalCost(nil))
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ids(services []ServiceRecord) []string {
	out := make([]string, 0, len(services))
	for _, s := range services {
		out = append(out, s.ID)
	}
	return out
}

func TestSortByMileageDesc(t *testing.T) {
	services := []ServiceRecord{
		{ID: "a", Mileage: 10000},
		{ID: "b", Mileage: 30000},
		{ID: "c", Mileage: 20000},
	}

	sorted := SortByMileageDesc(services)

	assert.Equal(t, []string{"b", "c", "a"}, ids(sorted))
	assert.Equal(t, []string{"a", "b", "c"}, ids(services), "input must not be reordered")
}

func TestSortByDateDesc(t *testing.T) {
	services := []ServiceRecord{
		{ID: "old", Date: "2023-01-10", Mileage: 40000},
		{ID: "new", Date: "2024-06-01", Mileage: 45000},
		{ID: "same-day-low", Date: "2024-02-01", Mileage: 41000},
		{ID: "same-day-high", Date: "2024-02-01", Mileage: 42000},
		{ID: "timestamp", Date: "2024-03-15T10:00:00Z", Mileage: 43000},
	}

	sorted := SortByDateDesc(services)

	assert.Equal(t, []string{"new", "timestamp", "same-day-high", "same-day-low", "old"}, ids(sorted))
}

func TestServiceRecord_Time(t *testing.T) {
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), ServiceRecord{Date: "2024-05-02"}.Time())
	assert.True(t, ServiceRecord{Date: "not a date"}.Time().IsZero())
}

func TestServicePatch_Apply(t *testing.T) {
	record := ServiceRecord{
		ID:       "1",
		Date:     "2024-01-01",
		Mileage:  50000,
		Category: CategoryGeneral,
		Type:     "Inspection",
		Cost:     80,
		Notes:    "ok",
	}
	mileage := 50500
	category := CategoryEngine
	cost := 120.0

	updated := ServicePatch{Mileage: &mileage, Category: &category, Cost: &cost}.Apply(record, &cost)

	assert.Equal(t, 50500, updated.Mileage)
	assert.Equal(t, CategoryEngine, updated.Category)
	assert.Equal(t, 120.0, updated.Cost)
	assert.Equal(t, "Inspection", updated.Type)
	assert.Equal(t, "ok", updated.Notes)
	assert.Equal(t, "1", updated.ID)
}

func TestServicePatch_CostRequiresConvertedValue(t *testing.T) {
	cost := 110.0
	record := ServiceRecord{Cost: 50}

	updated := ServicePatch{Cost: &cost}.Apply(record, nil)

	assert.Equal(t, 50.0, updated.Cost, "cost only changes through the converted base value")
}

func TestDefaultCar(t *testing.T) {
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	car := DefaultCar(now)

	assert.Equal(t, 2025, car.Year)
	assert.Zero(t, car.Mileage)
	assert.Empty(t, car.Make)
	assert.Nil(t, car.ImageURL)
	assert.Equal(t, TransmissionAutomatic, car.Transmission)
	assert.Equal(t, TirePressure{FL: 32, FR: 32, RL: 32, RR: 32}, car.TirePressure)
	assert.Equal(t, FluidLevels{Brake: FluidOK, Coolant: FluidOK}, car.FluidLevels)
}

func TestCar_WithDefaultsKeepsStoredValues(t *testing.T) {
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	stored := Car{Make: "Skoda", Model: "Octavia", Year: 2015, Mileage: 180000, Transmission: TransmissionManual}

	car := stored.WithDefaults(now)

	assert.Equal(t, "Skoda", car.Make)
	assert.Equal(t, 2015, car.Year)
	assert.Equal(t, 180000, car.Mileage)
	assert.Equal(t, TransmissionManual, car.Transmission)
	assert.Equal(t, "#ffffff", car.ExteriorColor)
	assert.Equal(t, float64(DefaultTirePressure), car.TirePressure.RR)
	assert.Equal(t, FluidOK, car.FluidLevels.Coolant)
}

package models

import "time"

type Transmission string

const (
	TransmissionAutomatic Transmission = "Automatic"
	TransmissionManual    Transmission = "Manual"
)

type FluidLevel string

const (
	FluidOK    FluidLevel = "OK"
	FluidLow   FluidLevel = "Low"
	FluidCheck FluidLevel = "Check"
)

// TirePressure holds the four-corner pressures in psi.
type TirePressure struct {
	FL float64 `json:"fl"`
	FR float64 `json:"fr"`
	RL float64 `json:"rl"`
	RR float64 `json:"rr"`
}

type FluidLevels struct {
	Brake   FluidLevel `json:"brake"`
	Coolant FluidLevel `json:"coolant"`
}

// Car is the single vehicle a user keeps a logbook for.
type Car struct {
	Make          string       `json:"make"`
	Model         string       `json:"model"`
	Year          int          `json:"year" validate:"gte=1886,lte=2100"`
	Mileage       int          `json:"mileage" validate:"gte=0"` // in kilometers
	VIN           string       `json:"vin" validate:"omitempty,max=17"`
	ImageURL      *string      `json:"imageUrl"`
	EngineType    string       `json:"engineType"`
	Transmission  Transmission `json:"transmission" validate:"omitempty,oneof=Automatic Manual"`
	ExteriorColor string       `json:"exteriorColor"`
	TirePressure  TirePressure `json:"tirePressure"`
	FluidLevels   FluidLevels  `json:"fluidLevels"`
}

const DefaultTirePressure = 32

// DefaultCar returns the car a user starts with before saving a profile.
func DefaultCar(now time.Time) Car {
	return Car{
		Year:          now.Year(),
		Transmission:  TransmissionAutomatic,
		ExteriorColor: "#ffffff",
		TirePressure: TirePressure{
			FL: DefaultTirePressure,
			FR: DefaultTirePressure,
			RL: DefaultTirePressure,
			RR: DefaultTirePressure,
		},
		FluidLevels: FluidLevels{Brake: FluidOK, Coolant: FluidOK},
	}
}

// WithDefaults fills zero-valued fields of a stored car from DefaultCar.
func (c Car) WithDefaults(now time.Time) Car {
	d := DefaultCar(now)
	if c.Year == 0 {
		c.Year = d.Year
	}
	if c.Transmission == "" {
		c.Transmission = d.Transmission
	}
	if c.ExteriorColor == "" {
		c.ExteriorColor = d.ExteriorColor
	}
	if c.TirePressure == (TirePressure{}) {
		c.TirePressure = d.TirePressure
	}
	if c.FluidLevels == (FluidLevels{}) {
		c.FluidLevels = d.FluidLevels
	}
	return c
}

package db

import (
	"context"

	"github.com/ukydev/car-logbook/internal/models"
)

// UserCollection defines the interface for account list operations.
type UserCollection interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	InsertUser(ctx context.Context, user models.User) error
	ReplaceUser(ctx context.Context, user models.User) error
}

// VehicleCollection defines the interface for per-user car and service history operations.
type VehicleCollection interface {
	FindCar(ctx context.Context, username string) (*models.Car, error)
	FindServices(ctx context.Context, username string) ([]models.ServiceRecord, error)
	SaveCar(ctx context.Context, username string, car models.Car) error
	SaveServices(ctx context.Context, username string, services []models.ServiceRecord) error
}

// SessionCollection holds the snapshot of the signed-in user.
type SessionCollection interface {
	GetSession(ctx context.Context) (*models.User, error)
	SetSession(ctx context.Context, user models.User) error
	ClearSession(ctx context.Context) error
}

// PreferenceCollection holds display preferences.
type PreferenceCollection interface {
	GetPreferences(ctx context.Context) (models.Preferences, error)
	SetCurrency(ctx context.Context, currency models.Currency) error
	SetLanguage(ctx context.Context, lang models.Language) error
}

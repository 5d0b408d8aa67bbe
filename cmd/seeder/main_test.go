package main

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ukydev/car-logbook/internal/auth"
	"github.com/ukydev/car-logbook/internal/controller"
	"github.com/ukydev/car-logbook/internal/db"
	"github.com/ukydev/car-logbook/internal/garage"
	"github.com/ukydev/car-logbook/internal/handlers"
	"github.com/ukydev/car-logbook/internal/models"
	"github.com/ukydev/car-logbook/internal/subscription"
)

var seedNow = time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)

func newAPI(t *testing.T) (*httptest.Server, *controller.Controller) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	local := db.NewMemoryStore()
	users := &db.StoreUserCollection{Store: local}
	sessions := &db.StoreSessionCollection{Store: db.NewMemoryStore()}
	authService := auth.NewService(users, sessions, auth.Options{BcryptCost: bcrypt.MinCost, Logger: logger})
	ctl := controller.New(controller.Deps{
		Auth:          authService,
		Garage:        garage.NewStore(&db.StoreVehicleCollection{Store: local}),
		Subscriptions: subscription.NewService(users, sessions, logger),
		Preferences:   &db.StorePreferenceCollection{Store: local},
		Logger:        logger,
	})
	srv := httptest.NewServer(handlers.NewRouter(handlers.RouterOptions{
		Controller: ctl,
		Auth:       authService,
		Logger:     logger,
	}))
	t.Cleanup(srv.Close)
	return srv, ctl
}

func TestHistory(t *testing.T) {
	s := newSeeder("", 42)

	services := s.history(6, seedNow)

	require.Len(t, services, 6)
	for i := 1; i < len(services); i++ {
		assert.Greater(t, services[i].Mileage, services[i-1].Mileage)
		assert.Greater(t, services[i].Date, services[i-1].Date)
	}
	for _, svc := range services {
		assert.NotEmpty(t, svc.Type)
		assert.GreaterOrEqual(t, svc.Cost, 0.0)
		assert.Equal(t, models.BaseCurrency, svc.Currency)
	}
}

func TestRandomCar(t *testing.T) {
	car := newSeeder("", 7).randomCar(seedNow)

	assert.Contains(t, catalogue[car.Make], car.Model)
	assert.LessOrEqual(t, car.Year, 2023)
	assert.Zero(t, car.Mileage)
}

func TestRun_BasicAccount(t *testing.T) {
	srv, ctl := newAPI(t)

	created, err := newSeeder(srv.URL+"/api", 1).run("demo", "demo123", 3, seedNow)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	services, err := ctl.Services()
	require.NoError(t, err)
	assert.Len(t, services, 3)

	car, err := ctl.Car()
	require.NoError(t, err)
	assert.Equal(t, services[0].Mileage, car.Mileage)
}

func TestRun_UpgradesForLongHistory(t *testing.T) {
	srv, ctl := newAPI(t)

	created, err := newSeeder(srv.URL+"/api", 2).run("demo", "demo123", 8, seedNow)
	require.NoError(t, err)
	assert.Equal(t, 8, created)

	user, err := ctl.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, models.TierPro, user.Tier())
}

func TestRun_ExistingAccount(t *testing.T) {
	srv, _ := newAPI(t)

	_, err := newSeeder(srv.URL+"/api", 3).run("demo", "demo123", 1, seedNow)
	require.NoError(t, err)

	created, err := newSeeder(srv.URL+"/api", 4).run("demo", "demo123", 1, seedNow)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestRun_WrongPassword(t *testing.T) {
	srv, _ := newAPI(t)

	_, err := newSeeder(srv.URL+"/api", 5).run("demo", "demo123", 0, seedNow)
	require.NoError(t, err)

	_, err = newSeeder(srv.URL+"/api", 6).run("demo", "other-pass", 0, seedNow)
	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
}

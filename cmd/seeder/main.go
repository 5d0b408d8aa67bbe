// Command seeder fills a running logbook API with a demo account, a car and
// a plausible service history.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/car-logbook/internal/models"
)

// basicServiceLimit mirrors the free tier allowance; longer histories need
// an upgraded account.
const basicServiceLimit = 5

type seeder struct {
	apiURL string
	token  string
	client *http.Client
	rnd    *rand.Rand
}

func newSeeder(apiURL string, seed int64) *seeder {
	return &seeder{
		apiURL: apiURL,
		client: &http.Client{Timeout: 10 * time.Second},
		rnd:    rand.New(rand.NewSource(seed)),
	}
}

// apiError carries a non-2xx response.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.Status, e.Message)
}

func (s *seeder) do(method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}
	req, err := http.NewRequest(method, s.apiURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &apiError{Status: resp.StatusCode, Message: e.Error}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// signIn registers the account if needed, confirms it and logs in.
func (s *seeder) signIn(username, password string) error {
	err := s.do(http.MethodPost, "/auth/register", models.RegisterInput{
		Username:        username,
		Password:        password,
		ConfirmPassword: password,
		Email:           username + "@example.com",
		FullName:        "Demo Driver",
	}, nil)
	var apiErr *apiError
	switch {
	case err == nil:
		log.WithField("username", username).Info("Registered account")
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict:
		log.WithField("username", username).Info("Account already exists")
	default:
		return fmt.Errorf("failed to register: %w", err)
	}

	if err := s.do(http.MethodPost, "/auth/confirm", map[string]string{"username": username}, nil); err != nil {
		return fmt.Errorf("failed to confirm: %w", err)
	}

	var login models.LoginResponse
	if err := s.do(http.MethodPost, "/auth/login", models.LoginRequest{Identifier: username, Password: password}, &login); err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}
	s.token = login.Token
	return nil
}

var catalogue = map[string][]string{
	"Toyota":     {"Corolla", "Camry", "RAV4"},
	"Volkswagen": {"Golf", "Passat", "Tiguan"},
	"Skoda":      {"Octavia", "Fabia", "Superb"},
	"Ford":       {"Focus", "Mondeo", "Kuga"},
	"BMW":        {"320d", "X3", "520i"},
}

var makes = []string{"Toyota", "Volkswagen", "Skoda", "Ford", "BMW"}

func (s *seeder) randomCar(now time.Time) models.Car {
	mk := makes[s.rnd.Intn(len(makes))]
	model := catalogue[mk][s.rnd.Intn(len(catalogue[mk]))]
	car := models.DefaultCar(now)
	car.Make = mk
	car.Model = model
	car.Year = now.Year() - 2 - s.rnd.Intn(10)
	car.Mileage = 0
	car.EngineType = []string{"Petrol", "Diesel", "Hybrid"}[s.rnd.Intn(3)]
	if s.rnd.Intn(2) == 0 {
		car.Transmission = models.TransmissionManual
	}
	return car
}

type template struct {
	category string
	kind     string
	minCost  float64
	maxCost  float64
}

var templates = []template{
	{models.CategoryEngine, "Oil Change", 60, 140},
	{models.CategoryBrakes, "Brake Pads", 120, 320},
	{models.CategoryTires, "Tire Rotation", 30, 70},
	{models.CategoryGeneral, "Annual Inspection", 50, 110},
	{models.CategoryElectrical, "Battery Replacement", 110, 250},
	{models.CategorySuspension, "Shock Absorbers", 300, 700},
}

// history returns n services spread backwards from now, oldest first, with
// mileage growing between visits.
func (s *seeder) history(n int, now time.Time) []models.ServiceInput {
	out := make([]models.ServiceInput, 0, n)
	mileage := 5000 + s.rnd.Intn(20000)
	date := now.AddDate(0, -4*n, 0)
	for i := 0; i < n; i++ {
		t := templates[s.rnd.Intn(len(templates))]
		cost := t.minCost + s.rnd.Float64()*(t.maxCost-t.minCost)
		out = append(out, models.ServiceInput{
			Date:           date.Format(models.DateLayout),
			Mileage:        mileage,
			Category:       t.category,
			Type:           t.kind,
			Cost:           float64(int(cost*100)) / 100,
			Currency:       models.BaseCurrency,
			ServiceStation: "Demo Garage",
		})
		mileage += 6000 + s.rnd.Intn(9000)
		date = date.AddDate(0, 4, 0)
	}
	return out
}

// run seeds one account and returns the number of services created.
func (s *seeder) run(username, password string, services int, now time.Time) (int, error) {
	if err := s.signIn(username, password); err != nil {
		return 0, err
	}

	car := s.randomCar(now)
	if err := s.do(http.MethodPut, "/car", car, nil); err != nil {
		return 0, fmt.Errorf("failed to save car: %w", err)
	}
	log.WithFields(log.Fields{"make": car.Make, "model": car.Model, "year": car.Year}).Info("Saved car")

	if services > basicServiceLimit {
		if err := s.do(http.MethodPost, "/subscription/upgrade", map[string]models.Tier{"planId": models.TierPro}, nil); err != nil {
			return 0, fmt.Errorf("failed to upgrade: %w", err)
		}
		log.Info("Upgraded to Pro for a longer history")
	}

	created := 0
	for _, in := range s.history(services, now) {
		var rec models.ServiceRecord
		if err := s.do(http.MethodPost, "/services", in, &rec); err != nil {
			log.WithError(err).WithField("type", in.Type).Error("Failed to add service")
			continue
		}
		created++
		log.WithFields(log.Fields{"id": rec.ID, "type": rec.Type, "mileage": rec.Mileage}).Debug("Added service")
	}
	return created, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	apiURL := getenv("API_BASE_URL", "http://127.0.0.1:8080/api")
	username := getenv("SEED_USERNAME", "demo")
	password := getenv("SEED_PASSWORD", "demo123")

	services := 8
	if v := os.Getenv("SEED_SERVICES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			services = n
		}
	}

	log.WithFields(log.Fields{
		"api_url":  apiURL,
		"username": username,
		"services": services,
	}).Info("Seeding logbook")

	created, err := newSeeder(apiURL, time.Now().UnixNano()).run(username, password, services, time.Now())
	if err != nil {
		log.WithError(err).Fatal("Seeding failed")
	}
	log.WithField("created_services", created).Info("Seeding completed")
}

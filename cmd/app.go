package main

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/car-logbook/internal/advisor"
	"github.com/ukydev/car-logbook/internal/auth"
	"github.com/ukydev/car-logbook/internal/config"
	"github.com/ukydev/car-logbook/internal/controller"
	"github.com/ukydev/car-logbook/internal/db"
	"github.com/ukydev/car-logbook/internal/events"
	"github.com/ukydev/car-logbook/internal/garage"
	"github.com/ukydev/car-logbook/internal/metrics"
	"github.com/ukydev/car-logbook/internal/subscription"
)

// app is the wired application. close releases every backend it opened.
type app struct {
	auth       *auth.Service
	users      db.UserCollection
	controller *controller.Controller
	metrics    *metrics.Metrics
	closers    []func() error
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.WithError(err).Warn("Failed to close backend")
		}
	}
}

// openLocalStore opens the backend holding accounts, cars, services and
// preferences.
func openLocalStore(ctx context.Context, c config.Storage, logger *log.Logger) (db.Store, func() error, error) {
	switch c.Backend {
	case "memory":
		logger.Warn("Using in-memory storage, data is lost on exit")
		return db.NewMemoryStore(), func() error { return nil }, nil
	case "sqlite":
		store, err := db.OpenSQLite(c.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.WithField("path", c.SQLitePath).Info("Opened SQLite storage")
		return store, store.Close, nil
	case "mongo":
		client, err := db.ConnectMongo(ctx, c.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		logger.WithField("database", c.MongoDatabase).Info("Connected to MongoDB")
		store := &db.MongoStore{Collection: client.Database(c.MongoDatabase).Collection("storage")}
		return store, func() error { return client.Disconnect(context.Background()) }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", c.Backend)
	}
}

// openSessionStore opens the backend holding the signed-in user.
func openSessionStore(ctx context.Context, c config.Session, logger *log.Logger) (db.Store, func() error, error) {
	switch c.Backend {
	case "memory":
		return db.NewMemoryStore(), func() error { return nil }, nil
	case "redis":
		store, err := db.ConnectRedis(ctx, db.RedisOptions{
			Addr:     c.RedisAddress,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			Prefix:   "carlog:",
			TTL:      c.TTL,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.WithField("addr", c.RedisAddress).Info("Connected to Redis session storage")
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", c.Backend)
	}
}

func openPublisher(c config.MQTT, logger *log.Logger) (events.Publisher, func() error, error) {
	if c.Broker == "" {
		return events.Noop{}, func() error { return nil }, nil
	}
	pub, err := events.ConnectMQTT(events.MQTTOptions{
		Broker:      c.Broker,
		ClientID:    c.ClientID,
		TopicPrefix: c.TopicPrefix,
		QoS:         byte(c.QoS),
		Timeout:     5 * time.Second,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return pub, func() error { pub.Close(); return nil }, nil
}

func newApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*app, error) {
	a := &app{}
	fail := func(err error) (*app, error) {
		a.close()
		return nil, err
	}

	local, closeLocal, err := openLocalStore(ctx, cfg.Storage, logger)
	if err != nil {
		return fail(fmt.Errorf("opening storage: %w", err))
	}
	a.closers = append(a.closers, closeLocal)

	sessionStore, closeSessions, err := openSessionStore(ctx, cfg.Session, logger)
	if err != nil {
		return fail(fmt.Errorf("opening session storage: %w", err))
	}
	a.closers = append(a.closers, closeSessions)

	publisher, closePublisher, err := openPublisher(cfg.MQTT, logger)
	if err != nil {
		return fail(fmt.Errorf("connecting to MQTT: %w", err))
	}
	a.closers = append(a.closers, closePublisher)

	ai, err := advisor.New(ctx, cfg.AI.APIKey, cfg.AI.Model, logger)
	if err != nil {
		return fail(fmt.Errorf("creating AI advisor: %w", err))
	}

	users := &db.StoreUserCollection{Store: local}
	sessions := &db.StoreSessionCollection{Store: sessionStore}
	if cfg.Auth.JWTSecret == "" {
		logger.Warn("JWT_SECRET is not set, using the built-in development secret")
	}

	a.users = users
	a.metrics = metrics.New()
	a.auth = auth.NewService(users, sessions, auth.Options{
		JWTSecret:   cfg.Auth.JWTSecret,
		TokenExpiry: cfg.Auth.TokenExpiry,
		Logger:      logger,
	})
	a.controller = controller.New(controller.Deps{
		Auth:          a.auth,
		Garage:        garage.NewStore(&db.StoreVehicleCollection{Store: local}),
		Subscriptions: subscription.NewService(users, sessions, logger),
		Preferences:   &db.StorePreferenceCollection{Store: local},
		Advisor:       ai,
		Events:        publisher,
		Metrics:       a.metrics,
		Logger:        logger,
	})
	return a, nil
}

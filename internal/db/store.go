package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Storage keys. Values are JSON documents.
const (
	UsersKey       = "app_users"
	CurrentUserKey = "currentUser"
	CurrencyKey    = "app-currency"
	LanguageKey    = "app-language"
)

// CarKey is the key holding a user's car.
func CarKey(username string) string {
	return "car_" + username
}

// ServicesKey is the key holding a user's service records.
func ServicesKey(username string) string {
	return "services_" + username
}

// ErrNoDocument is returned by typed collections when a lookup misses.
var ErrNoDocument = errors.New("document not found")

// Store is a string-keyed blob store with browser-storage semantics: Get
// returns (nil, nil) for a missing key and Set overwrites unconditionally.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

func getJSON(ctx context.Context, s Store, key string, out any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func setJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

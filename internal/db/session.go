package db

import (
	"context"

	"github.com/ukydev/car-logbook/internal/models"
)

// StoreSessionCollection keeps the current user under CurrentUserKey.
type StoreSessionCollection struct {
	Store Store
}

// GetSession returns nil when nobody is signed in.
func (c *StoreSessionCollection) GetSession(ctx context.Context) (*models.User, error) {
	var user models.User
	found, err := getJSON(ctx, c.Store, CurrentUserKey, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (c *StoreSessionCollection) SetSession(ctx context.Context, user models.User) error {
	return setJSON(ctx, c.Store, CurrentUserKey, user)
}

func (c *StoreSessionCollection) ClearSession(ctx context.Context) error {
	return c.Store.Delete(ctx, CurrentUserKey)
}

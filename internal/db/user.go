package db

import (
	"context"

	"github.com/ukydev/car-logbook/internal/models"
)

// StoreUserCollection keeps every account as one JSON array under UsersKey.
// Each write rewrites the whole array.
type StoreUserCollection struct {
	Store Store
}

// ListUsers returns every stored account, or an empty slice.
func (c *StoreUserCollection) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if _, err := getJSON(ctx, c.Store, UsersKey, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// FindUserByUsername finds a user by their username
func (c *StoreUserCollection) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return c.findOne(ctx, func(u models.User) bool { return u.Username == username })
}

// FindUserByEmail finds a user by their email
func (c *StoreUserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return c.findOne(ctx, func(u models.User) bool { return u.Email == email })
}

func (c *StoreUserCollection) findOne(ctx context.Context, match func(models.User) bool) (*models.User, error) {
	users, err := c.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNoDocument
}

// InsertUser appends user to the list. Uniqueness is the caller's concern.
func (c *StoreUserCollection) InsertUser(ctx context.Context, user models.User) error {
	users, err := c.ListUsers(ctx)
	if err != nil {
		return err
	}
	return setJSON(ctx, c.Store, UsersKey, append(users, user))
}

// ReplaceUser overwrites the stored user with the same username. It returns
// ErrNoDocument when there is none.
func (c *StoreUserCollection) ReplaceUser(ctx context.Context, user models.User) error {
	users, err := c.ListUsers(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].Username == user.Username {
			users[i] = user
			return setJSON(ctx, c.Store, UsersKey, users)
		}
	}
	return ErrNoDocument
}

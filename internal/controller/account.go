package controller

import (
	"context"
	"fmt"

	"github.com/ukydev/car-logbook/internal/apperror"
	"github.com/ukydev/car-logbook/internal/events"
	"github.com/ukydev/car-logbook/internal/models"
	"github.com/ukydev/car-logbook/internal/subscription"
)

// UpdateProfile merges patch into the signed-in user's account.
func (c *Controller) UpdateProfile(ctx context.Context, patch models.UserPatch) (*models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, err := c.ready()
	if err != nil {
		return nil, err
	}
	updated, err := c.auth.UpdateUser(ctx, user.Username, patch)
	if err != nil {
		return nil, err
	}
	c.user = updated
	if c.modal == ModalProfileSettings {
		c.closeModal()
	}
	return updated, nil
}

func (c *Controller) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, err := c.ready()
	if err != nil {
		return err
	}
	if err := c.auth.ChangePassword(ctx, user.Username, req); err != nil {
		return err
	}
	c.metrics.AccountEvent("password_changed")
	return nil
}

// Plans returns the plan catalogue in the selected currency and the
// signed-in user's current plan.
func (c *Controller) Plans(ctx context.Context) ([]subscription.Plan, subscription.Plan, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, err := c.ready()
	if err != nil {
		return nil, subscription.Plan{}, err
	}
	prefs, err := c.prefs.GetPreferences(ctx)
	if err != nil {
		return nil, subscription.Plan{}, err
	}
	return subscription.Plans(prefs.Currency), subscription.CurrentPlan(user, prefs.Currency), nil
}

func (c *Controller) Upgrade(ctx context.Context, tier models.Tier) (*models.User, error) {
	c.mu.Lock()
	defer c.unlock(ctx)

	user, err := c.ready()
	if err != nil {
		return nil, err
	}
	updated, err := c.subs.Upgrade(ctx, user, tier)
	if err != nil {
		return nil, err
	}
	c.adopt(*updated)
	c.publish(events.SubscriptionChanged, user.Username, updated.Subscription)
	return c.user, nil
}

func (c *Controller) CancelSubscription(ctx context.Context) (*models.User, error) {
	c.mu.Lock()
	defer c.unlock(ctx)

	user, err := c.ready()
	if err != nil {
		return nil, err
	}
	updated, err := c.subs.Cancel(ctx, user)
	if err != nil {
		return nil, err
	}
	c.adopt(*updated)
	c.publish(events.SubscriptionChanged, user.Username, updated.Subscription)
	return c.user, nil
}

// adopt replaces the in-memory user after a subscription change and closes
// the subscription modal.
func (c *Controller) adopt(user models.User) {
	public := user.Public()
	c.user = &public
	if c.modal == ModalSubscription {
		c.closeModal()
	}
}

// HasFeature reports whether the signed-in user's tier includes feature.
func (c *Controller) HasFeature(feature subscription.Feature) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	user, err := c.ready()
	if err != nil {
		return false
	}
	return subscription.HasFeatureAccess(user, feature)
}

// Preferences are device-wide and readable without signing in.
func (c *Controller) Preferences(ctx context.Context) (models.Preferences, error) {
	return c.prefs.GetPreferences(ctx)
}

// SetPreferences stores the non-empty fields of prefs.
func (c *Controller) SetPreferences(ctx context.Context, prefs models.Preferences) (models.Preferences, error) {
	if prefs.Currency != "" && !models.IsValidCurrency(prefs.Currency) {
		return models.Preferences{}, apperror.ValidationFailed("currency", fmt.Sprintf("unsupported currency %q", prefs.Currency))
	}
	if prefs.Language != "" && !models.IsValidLanguage(prefs.Language) {
		return models.Preferences{}, apperror.ValidationFailed("language", fmt.Sprintf("unsupported language %q", prefs.Language))
	}
	if prefs.Currency != "" {
		if err := c.prefs.SetCurrency(ctx, prefs.Currency); err != nil {
			return models.Preferences{}, err
		}
	}
	if prefs.Language != "" {
		if err := c.prefs.SetLanguage(ctx, prefs.Language); err != nil {
			return models.Preferences{}, err
		}
	}
	return c.prefs.GetPreferences(ctx)
}

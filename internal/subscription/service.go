// Package subscription gates features by tier and changes a user's tier.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/car-logbook/internal/apperror"
	"github.com/ukydev/car-logbook/internal/db"
	"github.com/ukydev/car-logbook/internal/models"
)

// Period is the length of a subscription billing period.
const Period = 30 * 24 * time.Hour

// Service changes subscriptions and persists the result the same way the
// account store does: update the user in the list and refresh the session.
type Service struct {
	users    db.UserCollection
	sessions db.SessionCollection
	logger   *log.Logger
	now      func() time.Time
}

func NewService(users db.UserCollection, sessions db.SessionCollection, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Service{users: users, sessions: sessions, logger: logger, now: time.Now}
}

// WithClock replaces the clock used to stamp subscription periods.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Upgrade moves user to tier with a fresh active subscription.
func (s *Service) Upgrade(ctx context.Context, user models.User, tier models.Tier) (*models.User, error) {
	if !models.IsValidTier(tier) {
		return nil, apperror.ValidationFailed("planId", fmt.Sprintf("unknown plan %q", tier))
	}

	start := s.now().UTC()
	updated := user
	updated.SubscriptionTier = tier
	updated.Subscription = &models.Subscription{
		ID:                 "sub_" + xid.New().String(),
		Tier:               tier,
		Status:             models.SubscriptionActive,
		CurrentPeriodStart: start,
		CurrentPeriodEnd:   start.Add(Period),
	}

	if err := s.persist(ctx, updated); err != nil {
		return nil, err
	}
	s.logger.WithFields(log.Fields{
		"username":        user.Username,
		"tier":            tier,
		"subscription_id": updated.Subscription.ID,
	}).Info("Subscription upgraded")
	return &updated, nil
}

// Cancel reverts user to basic. An existing subscription is kept but marked
// canceled at period end.
func (s *Service) Cancel(ctx context.Context, user models.User) (*models.User, error) {
	updated := user
	updated.SubscriptionTier = models.TierBasic
	if user.Subscription != nil {
		sub := *user.Subscription
		sub.Status = models.SubscriptionCanceled
		sub.CancelAtPeriodEnd = true
		updated.Subscription = &sub
	}

	if err := s.persist(ctx, updated); err != nil {
		return nil, err
	}
	s.logger.WithField("username", user.Username).Info("Subscription canceled")
	return &updated, nil
}

// persist writes the tier change into the stored account, keeping every
// other stored field, then refreshes the session.
func (s *Service) persist(ctx context.Context, user models.User) error {
	stored, err := s.users.FindUserByUsername(ctx, user.Username)
	switch {
	case err == nil:
		patch := models.UserPatch{
			SubscriptionTier: &user.SubscriptionTier,
			Subscription:     user.Subscription,
		}
		if err := s.users.ReplaceUser(ctx, patch.Apply(*stored)); err != nil {
			return fmt.Errorf("failed to store user: %w", err)
		}
	case errors.Is(err, db.ErrNoDocument):
		// Not in the list; only the session changes.
	default:
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if err := s.sessions.SetSession(ctx, user.Public()); err != nil {
		return fmt.Errorf("failed to refresh session: %w", err)
	}
	return nil
}

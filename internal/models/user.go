package models

import (
	"time"
)

// Tier is a subscription tier.
type Tier string

const (
	TierBasic   Tier = "basic"
	TierPro     Tier = "pro"
	TierPremium Tier = "premium"
)

// IsValidTier checks if a tier is one of the known tiers
func IsValidTier(tier Tier) bool {
	switch tier {
	case TierBasic, TierPro, TierPremium:
		return true
	default:
		return false
	}
}

// AuthProvider tells how an account signs in.
type AuthProvider string

const (
	ProviderManual   AuthProvider = "manual"
	ProviderExternal AuthProvider = "external"
)

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Subscription represents a paid plan period
type Subscription struct {
	ID                 string             `json:"id"`
	Tier               Tier               `json:"planId"`
	Status             SubscriptionStatus `json:"status"`
	CurrentPeriodStart time.Time          `json:"currentPeriodStart"`
	CurrentPeriodEnd   time.Time          `json:"currentPeriodEnd"`
	CancelAtPeriodEnd  bool               `json:"cancelAtPeriodEnd"`
}

// User represents a registered account. It is stored as an element of the
// app_users list and as the currentUser session snapshot.
type User struct {
	Username         string        `json:"username"`
	Email            string        `json:"email"`
	PasswordHash     string        `json:"passwordHash,omitempty"`
	FullName         string        `json:"fullName"`
	Phone            string        `json:"phone"`
	Address          string        `json:"address,omitempty"`
	IsConfirmed      bool          `json:"isConfirmed"`
	AuthProvider     AuthProvider  `json:"authProvider"`
	ProfilePicture   *string       `json:"profilePicture"`
	SubscriptionTier Tier          `json:"subscriptionTier,omitempty"`
	Subscription     *Subscription `json:"subscription,omitempty"`
}

// Tier returns the user's tier, defaulting to basic when unset.
func (u User) Tier() Tier {
	if u.SubscriptionTier == "" {
		return TierBasic
	}
	return u.SubscriptionTier
}

// Public returns a copy that is safe to hand to clients.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// RegisterInput represents a user registration request
type RegisterInput struct {
	Username        string `json:"username" validate:"required,min=3,max=50"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone"`
	FullName        string `json:"fullName" validate:"required"`
	Address         string `json:"address"`
}

// LoginRequest represents a login request. Identifier is a username or an email.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UserPatch lists the user fields that may be changed after registration.
// Nil fields are left untouched.
type UserPatch struct {
	Email            *string       `json:"email,omitempty" validate:"omitempty,email"`
	FullName         *string       `json:"fullName,omitempty" validate:"omitempty,min=1"`
	Phone            *string       `json:"phone,omitempty"`
	Address          *string       `json:"address,omitempty"`
	ProfilePicture   *string       `json:"profilePicture,omitempty"`
	PasswordHash     *string       `json:"-"`
	SubscriptionTier *Tier         `json:"-"`
	Subscription     *Subscription `json:"-"`
}

// Apply merges the patch into u and returns the result.
func (p UserPatch) Apply(u User) User {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	if p.ProfilePicture != nil {
		pic := *p.ProfilePicture
		u.ProfilePicture = &pic
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.SubscriptionTier != nil {
		u.SubscriptionTier = *p.SubscriptionTier
	}
	if p.Subscription != nil {
		sub := *p.Subscription
		u.Subscription = &sub
	}
	return u
}

// ChangePasswordRequest is the payload of a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

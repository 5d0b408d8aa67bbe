package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/car-logbook/internal/db"
	"github.com/ukydev/car-logbook/internal/models"
	"github.com/ukydev/car-logbook/internal/validation"
)

// CurrentUser returns the signed-in user, or nil.
func (s *Service) CurrentUser(ctx context.Context) (*models.User, error) {
	user, err := s.sessions.GetSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return user, nil
}

// Register creates an unconfirmed account. It does not sign the user in.
func (s *Service) Register(ctx context.Context, input models.RegisterInput) (*models.User, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.users.FindUserByUsername(ctx, input.Username); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, db.ErrNoDocument) {
		return nil, fmt.Errorf("failed to look up username: %w", err)
	}
	if _, err := s.users.FindUserByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, db.ErrNoDocument) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	hash, err := s.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		FullName:     input.FullName,
		Phone:        input.Phone,
		Address:      input.Address,
		IsConfirmed:  false,
		AuthProvider: models.ProviderManual,
	}
	if err := s.users.InsertUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store user: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"username": user.Username,
		"email":    user.Email,
	}).Info("User registered")

	public := user.Public()
	return &public, nil
}

// ConfirmUser marks the account confirmed and reports whether it exists.
func (s *Service) ConfirmUser(ctx context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.users.FindUserByUsername(ctx, username)
	if errors.Is(err, db.ErrNoDocument) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up user: %w", err)
	}

	user.IsConfirmed = true
	if err := s.users.ReplaceUser(ctx, *user); err != nil {
		return false, fmt.Errorf("failed to store user: %w", err)
	}
	s.logger.WithField("username", username).Info("User confirmed")
	return true, nil
}

// Login signs in a manual account by username or email. It returns
// (nil, nil) when no account matches the credentials.
func (s *Service) Login(ctx context.Context, identifier, password string) (*models.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	// Username matches are tried before email matches.
	var byUsername, byEmail []models.User
	for _, u := range users {
		if u.AuthProvider != models.ProviderManual {
			continue
		}
		switch identifier {
		case u.Username:
			byUsername = append(byUsername, u)
		case u.Email:
			byEmail = append(byEmail, u)
		}
	}

	var match *models.User
	for _, u := range append(byUsername, byEmail...) {
		if s.CheckPassword(password, u.PasswordHash) {
			match = &u
			break
		}
	}
	if match == nil {
		s.logger.WithField("identifier", identifier).Warn("Login failed")
		return nil, nil
	}
	if !match.IsConfirmed {
		return nil, ErrAccountNotConfirmed
	}

	public := match.Public()
	if err := s.sessions.SetSession(ctx, public); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	s.logger.WithField("username", public.Username).Info("User logged in")
	return &public, nil
}

// LoginWithExternal signs in with an identity token issued by an external
// provider. The token was already verified by the provider's client, so only
// its claims are read. Unknown emails get a new confirmed account whose
// username is the email.
func (s *Service) LoginWithExternal(ctx context.Context, credential string) (*models.User, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, claims); err != nil {
		return nil, ErrInvalidCredential
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return nil, ErrInvalidCredential
	}
	name, _ := claims["name"].(string)
	var picture *string
	if p, ok := claims["picture"].(string); ok && p != "" {
		picture = &p
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.users.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		user.FullName = name
		user.ProfilePicture = picture
		user.AuthProvider = models.ProviderExternal
		if err := s.users.ReplaceUser(ctx, *user); err != nil {
			return nil, fmt.Errorf("failed to store user: %w", err)
		}
	case errors.Is(err, db.ErrNoDocument):
		// The email becomes the username, so it must not belong to
		// another account's username.
		if _, err := s.users.FindUserByUsername(ctx, email); err == nil {
			s.logger.WithField("email", email).Warn("External sign-in email is taken as a username")
			return nil, ErrUserExists
		} else if !errors.Is(err, db.ErrNoDocument) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
		user = &models.User{
			Username:       email,
			Email:          email,
			FullName:       name,
			ProfilePicture: picture,
			AuthProvider:   models.ProviderExternal,
			IsConfirmed:    true,
		}
		if err := s.users.InsertUser(ctx, *user); err != nil {
			return nil, fmt.Errorf("failed to store user: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	public := user.Public()
	if err := s.sessions.SetSession(ctx, public); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	s.logger.WithField("username", public.Username).Info("User logged in with external provider")
	return &public, nil
}

// UpdateUser merges patch into the stored user and refreshes the session if
// it belongs to the same user.
func (s *Service) UpdateUser(ctx context.Context, username string, patch models.UserPatch) (*models.User, error) {
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.users.FindUserByUsername(ctx, username)
	if errors.Is(err, db.ErrNoDocument) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if patch.Email != nil && *patch.Email != user.Email {
		other, err := s.users.FindUserByEmail(ctx, *patch.Email)
		if err == nil && other.Username != username {
			return nil, ErrEmailExists
		}
		if err != nil && !errors.Is(err, db.ErrNoDocument) {
			return nil, fmt.Errorf("failed to look up email: %w", err)
		}
	}

	updated := patch.Apply(*user)
	if err := s.users.ReplaceUser(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to store user: %w", err)
	}

	public := updated.Public()
	if err := s.refreshSession(ctx, public); err != nil {
		return nil, err
	}
	return &public, nil
}

// ChangePassword replaces the password of a manual account after checking
// the current one.
func (s *Service) ChangePassword(ctx context.Context, username string, req models.ChangePasswordRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.users.FindUserByUsername(ctx, username)
	if errors.Is(err, db.ErrNoDocument) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if !s.CheckPassword(req.CurrentPassword, user.PasswordHash) {
		return ErrWrongPassword
	}

	hash, err := s.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.ReplaceUser(ctx, *user); err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}
	s.logger.WithField("username", username).Info("Password changed")
	return nil
}

// Logout clears the session. Stored accounts are untouched.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.sessions.ClearSession(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *Service) refreshSession(ctx context.Context, user models.User) error {
	current, err := s.sessions.GetSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	if current == nil || current.Username != user.Username {
		return nil
	}
	if err := s.sessions.SetSession(ctx, user); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

package auth

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ukydev/car-logbook/internal/apperror"
	"github.com/ukydev/car-logbook/internal/db"
	"github.com/ukydev/car-logbook/internal/models"
)

type accountFixture struct {
	service  *Service
	users    *db.StoreUserCollection
	sessions *db.StoreSessionCollection
	hook     *test.Hook
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()
	logger, hook := test.NewNullLogger()
	f := &accountFixture{
		users:    &db.StoreUserCollection{Store: db.NewMemoryStore()},
		sessions: &db.StoreSessionCollection{Store: db.NewMemoryStore()},
		hook:     hook,
	}
	f.service = NewService(f.users, f.sessions, Options{BcryptCost: bcrypt.MinCost, Logger: logger})
	return f
}

func registration(username, email string) models.RegisterInput {
	return models.RegisterInput{
		Username:        username,
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Email:           email,
		Phone:           "+359888000000",
		FullName:        "Test User",
	}
}

func TestRegister(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	user, err := f.service.Register(ctx, registration("alice", "alice@example.com"))
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.False(t, user.IsConfirmed)
	assert.Equal(t, models.ProviderManual, user.AuthProvider)
	assert.Empty(t, user.PasswordHash, "returned user hides the hash")
	assert.Nil(t, user.ProfilePicture)

	stored, err := f.users.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.True(t, f.service.CheckPassword("secret1", stored.PasswordHash))

	session, err := f.service.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, session, "registering does not sign in")

	assert.Equal(t, "User registered", f.hook.LastEntry().Message)
	assert.Equal(t, "alice", f.hook.LastEntry().Data["username"])
}

func TestRegister_Uniqueness(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	_, err := f.service.Register(ctx, registration("alice", "alice@example.com"))
	require.NoError(t, err)

	_, err = f.service.Register(ctx, registration("alice", "other@example.com"))
	assert.ErrorIs(t, err, ErrUserExists)
	assert.ErrorIs(t, err, apperror.ErrDuplicateIdentity)

	_, err = f.service.Register(ctx, registration("bob", "alice@example.com"))
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.ErrorIs(t, err, apperror.ErrDuplicateIdentity)

	users, err := f.users.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1, "failed registrations store nothing")
}

func TestRegister_Validation(t *testing.T) {
	f := newAccountFixture(t)
	in := registration("alice", "alice@example.com")
	in.ConfirmPassword = "different"

	_, err := f.service.Register(context.Background(), in)

	assert.ErrorIs(t, err, apperror.ErrValidation)
	users, _ := f.users.ListUsers(context.Background())
	assert.Empty(t, users)
}

func TestConfirmationGate(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	_, err := f.service.Register(ctx, registration("alice", "alice@example.com"))
	require.NoError(t, err)

	_, err = f.service.Login(ctx, "alice", "secret1")
	assert.ErrorIs(t, err, ErrAccountNotConfirmed)
	assert.ErrorIs(t, err, apperror.ErrNotConfirmed)

	session, _ := f.service.CurrentUser(ctx)
	assert.Nil(t, session)

	found, err := f.service.ConfirmUser(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, found)

	user, err := f.service.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.True(t, user.IsConfirmed)

	session, err = f.service.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "alice", session.Username)
	assert.Empty(t, session.PasswordHash)
}

func TestConfirmUser_Unknown(t *testing.T) {
	f := newAccountFixture(t)

	found, err := f.service.ConfirmUser(context.Background(), "ghost")

	require.NoError(t, err)
	assert.False(t, found)
}

func TestLogin(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	_, err := f.service.Register(ctx, registration("alice", "alice@example.com"))
	require.NoError(t, err)
	_, err = f.service.ConfirmUser(ctx, "alice")
	require.NoError(t, err)

	tests := []struct {
		name       string
		identifier string
		password   string
		ok         bool
	}{
		{"by username", "alice", "secret1", true},
		{"by email", "alice@example.com", "secret1", true},
		{"wrong password", "alice", "nope", false},
		{"unknown user", "bob", "secret1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := f.service.Login(ctx, tt.identifier, tt.password)
			require.NoError(t, err, "no match is not an error")
			if tt.ok {
				require.NotNil(t, user)
				assert.Equal(t, "alice", user.Username)
			} else {
				assert.Nil(t, user)
				assert.Equal(t, logrus.WarnLevel, f.hook.LastEntry().Level)
			}
		})
	}
}

func TestLogin_ExternalAccountsNeedExternalSignIn(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	require.NoError(t, f.users.InsertUser(ctx, models.User{
		Username:     "carol@example.com",
		Email:        "carol@example.com",
		IsConfirmed:  true,
		AuthProvider: models.ProviderExternal,
	}))

	user, err := f.service.Login(ctx, "carol@example.com", "")

	require.NoError(t, err)
	assert.Nil(t, user)
}

func externalToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("provider-key"))
	require.NoError(t, err)
	return token
}

func TestLoginWithExternal_NewUser(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	token := externalToken(t, jwt.MapClaims{
		"email":   "dana@example.com",
		"name":    "Dana Petrova",
		"picture": "https://example.com/dana.png",
	})

	user, err := f.service.LoginWithExternal(ctx, token)
	require.NoError(t, err)

	assert.Equal(t, "dana@example.com", user.Username)
	assert.True(t, user.IsConfirmed)
	assert.Equal(t, models.ProviderExternal, user.AuthProvider)
	require.NotNil(t, user.ProfilePicture)
	assert.Equal(t, "https://example.com/dana.png", *user.ProfilePicture)

	session, err := f.service.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "dana@example.com", session.Username)
}

func TestLoginWithExternal_ExistingUser(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	_, err := f.service.Register(ctx, registration("alice", "alice@example.com"))
	require.NoError(t, err)

	user, err := f.service.LoginWithExternal(ctx, externalToken(t, jwt.MapClaims{
		"email": "alice@example.com",
		"name":  "Alice Provider",
	}))
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "Alice Provider", user.FullName)
	assert.Equal(t, models.ProviderExternal, user.AuthProvider)

	users, err := f.users.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestLoginWithExternal_EmailTakenAsUsername(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	_, err := f.service.Register(ctx, registration("carol@example.com", "carol.work@example.com"))
	require.NoError(t, err)

	_, err = f.service.LoginWithExternal(ctx, externalToken(t, jwt.MapClaims{
		"email": "carol@example.com",
		"name":  "Someone Else",
	}))
	assert.ErrorIs(t, err, ErrUserExists)
	assert.ErrorIs(t, err, apperror.ErrDuplicateIdentity)

	users, err := f.users.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, models.ProviderManual, users[0].AuthProvider)
	assert.Equal(t, "Test User", users[0].FullName)

	session, err := f.service.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestLogin_UsernameWinsOverEmail(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	// beth's email is the same string as the other account's username.
	_, err := f.service.Register(ctx, registration("beth", "x@example.com"))
	require.NoError(t, err)
	_, err = f.service.Register(ctx, registration("x@example.com", "other@example.com"))
	require.NoError(t, err)
	for _, name := range []string{"beth", "x@example.com"} {
		ok, err := f.service.ConfirmUser(ctx, name)
		require.NoError(t, err)
		require.True(t, ok)
	}

	user, err := f.service.Login(ctx, "x@example.com", "secret1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "x@example.com", user.Username)
}

func TestLoginWithExternal_InvalidCredential(t *testing.T) {
	f := newAccountFixture(t)

	_, err := f.service.LoginWithExternal(context.Background(), "garbage")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.service.LoginWithExternal(context.Background(), externalToken(t, jwt.MapClaims{"name": "No Email"}))
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestUpdateUser(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	_, err := f.service.Register(ctx, registration("alice", "alice@example.com"))
	require.NoError(t, err)
	_, err = f.service.ConfirmUser(ctx, "alice")
	require.NoError(t, err)
	_, err = f.service.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	name := "Alice Smith"
	address := "1 Vitosha Blvd"
	updated, err := f.service.UpdateUser(ctx, "alice", models.UserPatch{FullName: &name, Address: &address})
	require.NoError(t, err)

	assert.Equal(t, "Alice Smith", updated.FullName)
	assert.Equal(t, "alice@example.com", updated.Email)
	assert.Equal(t, "+359888000000", updated.Phone)

	session, err := f.service.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", session.FullName, "session owner is refreshed")

	stored, err := f.users.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "1 Vitosha Blvd", stored.Address)
	assert.True(t, f.service.CheckPassword("secret1", stored.PasswordHash), "hash survives updates")
}

func TestUpdateUser_OtherUserLeavesSession(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	require.NoError(t, f.users.InsertUser(ctx, models.User{Username: "bob", Email: "bob@example.com"}))
	require.NoError(t, f.sessions.SetSession(ctx, models.User{Username: "alice", FullName: "Alice"}))

	name := "Bobby"
	_, err := f.service.UpdateUser(ctx, "bob", models.UserPatch{FullName: &name})
	require.NoError(t, err)

	session, err := f.service.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Username)
	assert.Equal(t, "Alice", session.FullName)
}

func TestUpdateUser_Errors(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	require.NoError(t, f.users.InsertUser(ctx, models.User{Username: "alice", Email: "alice@example.com"}))
	require.NoError(t, f.users.InsertUser(ctx, models.User{Username: "bob", Email: "bob@example.com"}))

	name := "Ghost"
	_, err := f.service.UpdateUser(ctx, "ghost", models.UserPatch{FullName: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	taken := "bob@example.com"
	_, err = f.service.UpdateUser(ctx, "alice", models.UserPatch{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailExists)

	same := "alice@example.com"
	_, err = f.service.UpdateUser(ctx, "alice", models.UserPatch{Email: &same})
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	_, err := f.service.Register(ctx, registration("alice", "alice@example.com"))
	require.NoError(t, err)
	_, err = f.service.ConfirmUser(ctx, "alice")
	require.NoError(t, err)

	err = f.service.ChangePassword(ctx, "alice", models.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "newsecret"})
	assert.ErrorIs(t, err, ErrWrongPassword)

	err = f.service.ChangePassword(ctx, "alice", models.ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "short"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	err = f.service.ChangePassword(ctx, "alice", models.ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "newsecret"})
	require.NoError(t, err)

	user, err := f.service.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Nil(t, user)
	user, err = f.service.Login(ctx, "alice", "newsecret")
	require.NoError(t, err)
	assert.NotNil(t, user)

	err = f.service.ChangePassword(ctx, "ghost", models.ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "newsecret"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLogout(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	_, err := f.service.Register(ctx, registration("alice", "alice@example.com"))
	require.NoError(t, err)
	_, err = f.service.ConfirmUser(ctx, "alice")
	require.NoError(t, err)
	_, err = f.service.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx))

	session, err := f.service.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)

	users, err := f.users.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1, "logout keeps accounts")
}

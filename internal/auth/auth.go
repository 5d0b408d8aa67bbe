package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/ukydev/car-logbook/internal/apperror"
	"github.com/ukydev/car-logbook/internal/db"
	"github.com/ukydev/car-logbook/internal/models"
)

var (
	ErrInvalidToken = &apperror.AppError{Err: apperror.ErrUnauthenticated, Message: "invalid token"}
	ErrExpiredToken = &apperror.AppError{Err: apperror.ErrUnauthenticated, Message: "token expired"}

	ErrUserExists          = &apperror.AppError{Err: apperror.ErrDuplicateIdentity, Message: "username already exists", Field: "username"}
	ErrEmailExists         = &apperror.AppError{Err: apperror.ErrDuplicateIdentity, Message: "email already registered", Field: "email"}
	ErrAccountNotConfirmed = &apperror.AppError{Err: apperror.ErrNotConfirmed, Message: "account not confirmed"}
	ErrUserNotFound        = &apperror.AppError{Err: apperror.ErrNotFound, Message: "user not found"}
	ErrWrongPassword       = apperror.ValidationFailed("currentPassword", "current password is incorrect")
	ErrInvalidCredential   = apperror.ValidationFailed("credential", "invalid external credential")
)

const (
	defaultSecret = "default-secret-key-change-in-production"
	defaultExpiry = 24 * time.Hour
)

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
	JWTSecret   string
	TokenExpiry time.Duration
	BcryptCost  int
	Logger      *log.Logger
}

// Claims are the fields carried by an access token.
type Claims struct {
	Username string
	Exp      int64
}

// Service is the account store: it registers, confirms and signs in users,
// keeps the session snapshot and issues access tokens for it.
type Service struct {
	users    db.UserCollection
	sessions db.SessionCollection
	logger   *log.Logger

	jwtSecret  []byte
	tokenExp   time.Duration
	bcryptCost int

	// mu serialises read-modify-write cycles on the user list.
	mu sync.Mutex
}

// NewService creates a new authentication service
func NewService(users db.UserCollection, sessions db.SessionCollection, opts Options) *Service {
	secret := opts.JWTSecret
	if secret == "" {
		secret = defaultSecret
	}
	exp := opts.TokenExpiry
	if exp <= 0 {
		exp = defaultExpiry
	}
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}

	return &Service{
		users:      users,
		sessions:   sessions,
		logger:     logger,
		jwtSecret:  []byte(secret),
		tokenExp:   exp,
		bcryptCost: cost,
	}
}

// HashPassword hashes a password using bcrypt
func (s *Service) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword checks if a password matches a hash
func (s *Service) CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken generates a JWT token for a user
func (s *Service) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"username": user.Username,
		"exp":      now.Add(s.tokenExp).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken validates a JWT token and returns the claims
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return nil, ErrInvalidToken
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}

	return &Claims{
		Username: username,
		Exp:      int64(exp),
	}, nil
}

// ExtractTokenFromHeader extracts token from Authorization header
func (s *Service) ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrInvalidToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrInvalidToken
	}

	return parts[1], nil
}

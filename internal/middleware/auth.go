package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/car-logbook/internal/auth"
	"github.com/ukydev/car-logbook/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	UserContextKey contextKey = "user"
)

// Session reports the signed-in user. Tokens are only honoured for that user.
type Session interface {
	CurrentUser() (models.User, error)
}

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authService *auth.Service
	session     Session
	logger      *log.Logger
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(authService *auth.Service, session Session, logger *log.Logger) *AuthMiddleware {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &AuthMiddleware{
		authService: authService,
		session:     session,
		logger:      logger,
	}
}

// Authenticate validates the bearer token, checks it belongs to the
// signed-in user and adds its claims to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip authentication for certain endpoints
		if shouldSkipAuth(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, r, "authorization header required")
			return
		}

		claims, err := m.authService.ValidateToken(authHeader)
		if err != nil {
			unauthorized(w, r, err.Error())
			return
		}

		user, err := m.session.CurrentUser()
		if err != nil || user.Username != claims.Username {
			m.logger.WithField("username", claims.Username).Debug("Token does not match the active session")
			unauthorized(w, r, "session is no longer active")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserFromContext extracts user claims from request context
func GetUserFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*auth.Claims)
	return claims, ok
}

// shouldSkipAuth determines if authentication should be skipped for a given path
func shouldSkipAuth(path string) bool {
	skipPaths := []string{
		"/api/auth/login",
		"/api/auth/external",
		"/api/auth/register",
		"/api/auth/confirm",
		"/api/preferences",
		"/health",
		"/metrics",
	}

	for _, skipPath := range skipPaths {
		if strings.HasPrefix(path, skipPath) {
			return true
		}
	}
	return false
}

type errorBody struct {
	Error string `json:"error"`
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, errorBody{Error: msg})
}

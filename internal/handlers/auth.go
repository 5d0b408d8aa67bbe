package handlers

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/car-logbook/internal/auth"
	"github.com/ukydev/car-logbook/internal/controller"
	"github.com/ukydev/car-logbook/internal/models"
)

// AuthHandler handles authentication and profile requests
type AuthHandler struct {
	ctl         *controller.Controller
	authService *auth.Service
	logger      *log.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(ctl *controller.Controller, authService *auth.Service, logger *log.Logger) *AuthHandler {
	return &AuthHandler{
		ctl:         ctl,
		authService: authService,
		logger:      logger,
	}
}

// Register creates an unconfirmed account
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input models.RegisterInput
	if err := decode(r, &input); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.ctl.Register(r.Context(), input)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, user)
}

type confirmRequest struct {
	Username string `json:"username"`
}

// Confirm marks an account as confirmed
func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.ctl.Confirm(r.Context(), req.Username); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusOK, MessageResponse{Message: "Account confirmed"})
}

// Login signs in with a username or email and returns a bearer token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.ctl.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.respondWithToken(w, r, user)
}

type externalLoginRequest struct {
	Credential string `json:"credential"`
}

// External signs in with an identity token from an external provider
func (h *AuthHandler) External(w http.ResponseWriter, r *http.Request) {
	var req externalLoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.ctl.LoginExternal(r.Context(), req.Credential)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.respondWithToken(w, r, user)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, user *models.User) {
	token, err := h.authService.GenerateToken(user)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusOK, models.LoginResponse{Token: token, User: *user})
}

// Logout clears the session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.ctl.Logout(r.Context()); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusOK, MessageResponse{Message: "Logged out"})
}

// GetProfile returns the current user's profile
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.ctl.CurrentUser()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

// UpdateProfile updates the current user's profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch models.UserPatch
	if err := decode(r, &patch); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.ctl.UpdateProfile(r.Context(), patch)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

// ChangePassword changes the current user's password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.ctl.ChangePassword(r.Context(), req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusOK, MessageResponse{Message: "Password changed successfully"})
}

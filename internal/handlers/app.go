package handlers

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/car-logbook/internal/controller"
	"github.com/ukydev/car-logbook/internal/models"
	"github.com/ukydev/car-logbook/internal/subscription"
)

// AppHandler serves plans, preferences, navigation and the AI assistant.
type AppHandler struct {
	ctl    *controller.Controller
	logger *log.Logger
}

func NewAppHandler(ctl *controller.Controller, logger *log.Logger) *AppHandler {
	return &AppHandler{ctl: ctl, logger: logger}
}

type plansResponse struct {
	Plans   []subscription.Plan `json:"plans"`
	Current subscription.Plan   `json:"current"`
}

func (h *AppHandler) Plans(w http.ResponseWriter, r *http.Request) {
	plans, current, err := h.ctl.Plans(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusOK, plansResponse{Plans: plans, Current: current})
}

type upgradeRequest struct {
	PlanID models.Tier `json:"planId"`
}

func (h *AppHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	var req upgradeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.ctl.Upgrade(r.Context(), req.PlanID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

func (h *AppHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	user, err := h.ctl.CancelSubscription(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

func (h *AppHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.ctl.Preferences(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusOK, prefs)
}

func (h *AppHandler) SetPreferences(w http.ResponseWriter, r *http.Request) {
	var prefs models.Preferences
	if err := decode(r, &prefs); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	updated, err := h.ctl.SetPreferences(r.Context(), prefs)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusOK, updated)
}

type viewRequest struct {
	View controller.View `json:"view"`
}

func (h *AppHandler) SetView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	snap, err := h.ctl.SetView(req.View)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

type modalRequest struct {
	Modal     controller.Modal `json:"modal"`
	ServiceID string           `json:"serviceId,omitempty"`
}

func (h *AppHandler) OpenModal(w http.ResponseWriter, r *http.Request) {
	var req modalRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	snap, err := h.ctl.OpenModal(req.Modal, req.ServiceID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (h *AppHandler) CloseModal(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.ctl.CloseModal())
}

func (h *AppHandler) Advice(w http.ResponseWriter, r *http.Request) {
	var req models.AdviceRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp, err := h.ctl.Advice(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (h *AppHandler) Diagnose(w http.ResponseWriter, r *http.Request) {
	var req models.DiagnosisRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp, err := h.ctl.Diagnose(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/car-logbook/internal/controller"
	"github.com/ukydev/car-logbook/internal/models"
)

// LogbookHandler serves the car profile, the service history and the
// dashboard.
type LogbookHandler struct {
	ctl    *controller.Controller
	logger *log.Logger
}

func NewLogbookHandler(ctl *controller.Controller, logger *log.Logger) *LogbookHandler {
	return &LogbookHandler{ctl: ctl, logger: logger}
}

func (h *LogbookHandler) GetCar(w http.ResponseWriter, r *http.Request) {
	car, err := h.ctl.Car()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusOK, car)
}

// UpdateCar replaces the car profile with the request body.
func (h *LogbookHandler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	var car models.Car
	if err := decode(r, &car); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	updated, err := h.ctl.UpdateCar(r.Context(), car)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusOK, updated)
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

// Categories lists the service categories in display order.
func (h *LogbookHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, categoriesResponse{Categories: models.Categories()})
}

func (h *LogbookHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.ctl.Services()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusOK, services)
}

func (h *LogbookHandler) AddService(w http.ResponseWriter, r *http.Request) {
	var input models.ServiceInput
	if err := decode(r, &input); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	record, err := h.ctl.AddService(r.Context(), input)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, record)
}

func (h *LogbookHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	var patch models.ServicePatch
	if err := decode(r, &patch); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	record, err := h.ctl.UpdateService(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusOK, record)
}

func (h *LogbookHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	if err := h.ctl.DeleteService(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LogbookHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.ctl.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dash)
}

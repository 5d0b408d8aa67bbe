package controller

import (
	"context"
	"errors"
	"strings"

	"github.com/ukydev/car-logbook/internal/apperror"
	"github.com/ukydev/car-logbook/internal/models"
	"github.com/ukydev/car-logbook/internal/subscription"
	"github.com/ukydev/car-logbook/internal/validation"
)

var (
	ErrDiagnosticsLocked = apperror.Forbidden("AI diagnostics require a Pro or Premium plan")
	ErrCarIncomplete     = apperror.ValidationFailed("car", "set your car's make and model before running diagnostics")
)

// Advice asks the AI collaborator for a cost estimate of a service type.
// The controller lock is not held during the call.
func (c *Controller) Advice(ctx context.Context, req models.AdviceRequest) (*models.AIAdviceResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	car, _, err := c.aiContext()
	if err != nil {
		return nil, err
	}
	lang := c.language(ctx)

	resp, err := c.advisor.Advice(ctx, car, strings.TrimSpace(req.ServiceType), lang)
	c.metrics.ObserveAI("advice", outcome(err))
	return resp, err
}

// Diagnose asks for likely causes of a problem. It needs the
// ai_diagnostics feature and a car with make and model.
func (c *Controller) Diagnose(ctx context.Context, req models.DiagnosisRequest) (*models.AIDiagnosisResponse, error) {
	req.Problem = strings.TrimSpace(req.Problem)
	car, user, err := c.aiContext()
	if err != nil {
		return nil, err
	}
	if !subscription.HasFeatureAccess(user, subscription.FeatureAIDiagnostics) {
		return nil, ErrDiagnosticsLocked
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(car.Make) == "" || strings.TrimSpace(car.Model) == "" {
		return nil, ErrCarIncomplete
	}
	lang := c.language(ctx)

	resp, err := c.advisor.Diagnose(ctx, car, req.Problem, lang)
	c.metrics.ObserveAI("diagnosis", outcome(err))
	return resp, err
}

func (c *Controller) aiContext() (models.Car, models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	user, err := c.ready()
	if err != nil {
		return models.Car{}, models.User{}, err
	}
	return c.car, user, nil
}

// language falls back to the default when preferences cannot be read.
func (c *Controller) language(ctx context.Context) models.Language {
	prefs, err := c.prefs.GetPreferences(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to read preferences, using default language")
		return models.DefaultLanguage
	}
	return prefs.Language
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperror.ErrRequestPending):
		return "pending"
	case errors.Is(err, apperror.ErrAIUnavailable):
		return "unavailable"
	default:
		return "failed"
	}
}

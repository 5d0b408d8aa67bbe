// Package advisor asks a generative-language model for repair cost advice
// and problem diagnoses.
package advisor

import (
	"context"

	"github.com/ukydev/car-logbook/internal/apperror"
	"github.com/ukydev/car-logbook/internal/models"
)

// Advisor is the AI collaborator. Implementations return errors of kind
// apperror.ErrAIUnavailable or apperror.ErrAIRequestFailed.
type Advisor interface {
	Advice(ctx context.Context, car models.Car, serviceType string, lang models.Language) (*models.AIAdviceResponse, error)
	Diagnose(ctx context.Context, car models.Car, problem string, lang models.Language) (*models.AIDiagnosisResponse, error)
}

// Unavailable is the advisor used when no API key is configured.
type Unavailable struct{}

var errUnavailable = &apperror.AppError{Err: apperror.ErrAIUnavailable, Message: "AI service is not available"}

func (Unavailable) Advice(context.Context, models.Car, string, models.Language) (*models.AIAdviceResponse, error) {
	return nil, errUnavailable
}

func (Unavailable) Diagnose(context.Context, models.Car, string, models.Language) (*models.AIDiagnosisResponse, error) {
	return nil, errUnavailable
}

// Available reports whether a is backed by a real model.
func Available(a Advisor) bool {
	switch v := a.(type) {
	case nil, Unavailable, *Unavailable:
		return false
	case *Guarded:
		return Available(v.next)
	default:
		return true
	}
}

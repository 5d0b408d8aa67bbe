package advisor

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/ukydev/car-logbook/internal/apperror"
	"github.com/ukydev/car-logbook/internal/models"
)

var errPending = &apperror.AppError{Err: apperror.ErrRequestPending, Message: "an AI request is already in progress"}

// Guarded lets at most one request of each kind run at a time. A request
// arriving while another of its kind is pending fails with
// apperror.ErrRequestPending instead of queueing.
type Guarded struct {
	next      Advisor
	advice    *semaphore.Weighted
	diagnosis *semaphore.Weighted
}

func NewGuarded(next Advisor) *Guarded {
	return &Guarded{
		next:      next,
		advice:    semaphore.NewWeighted(1),
		diagnosis: semaphore.NewWeighted(1),
	}
}

func (g *Guarded) Advice(ctx context.Context, car models.Car, serviceType string, lang models.Language) (*models.AIAdviceResponse, error) {
	if !g.advice.TryAcquire(1) {
		return nil, errPending
	}
	defer g.advice.Release(1)
	return g.next.Advice(ctx, car, serviceType, lang)
}

func (g *Guarded) Diagnose(ctx context.Context, car models.Car, problem string, lang models.Language) (*models.AIDiagnosisResponse, error) {
	if !g.diagnosis.TryAcquire(1) {
		return nil, errPending
	}
	defer g.diagnosis.Release(1)
	return g.next.Diagnose(ctx, car, problem, lang)
}

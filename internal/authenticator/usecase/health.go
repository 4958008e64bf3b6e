package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/seedauth/internal/authenticator/entity"
)

type HealthOutput struct {
	Status          string
	SeedProvisioned bool
}

// Health never fails: an unreadable or corrupt seed is reported as not
// provisioned.
func (s *Usecase) Health(ctx context.Context) *HealthOutput {
	ctx, span := s.startSpan(ctx, "Health")
	defer span.End()

	_, err := s.store.Get(ctx)
	if err != nil && !errors.Is(err, entity.ErrNotProvisioned) {
		slog.WarnContext(ctx, "health check found unusable seed", "backend", s.store.Backend(), "error", err)
	}

	return &HealthOutput{Status: "ok", SeedProvisioned: err == nil}
}

package usecase

import (
	"context"

	"github.com/shandysiswandi/seedauth/internal/pkg/goerror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type VerifyCodeInput struct {
	Code string `validate:"required"`
}

type VerifyCodeOutput struct {
	Valid bool
}

// VerifyCode checks code against the stored seed using the configured window.
// A wrong or malformed code is reported as Valid=false, not as an error.
func (s *Usecase) VerifyCode(ctx context.Context, in VerifyCodeInput) (*VerifyCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyCode")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidFormat("Missing code")
	}

	seed, err := s.currentSeed(ctx)
	if err != nil {
		return nil, err
	}

	valid := s.otp.Verify(seed.Bytes(), in.Code, s.clock.Now(), s.params)

	if s.verifyCounter != nil {
		s.verifyCounter.Add(ctx, 1, metric.WithAttributes(attribute.Bool("valid", valid)))
	}

	return &VerifyCodeOutput{Valid: valid}, nil
}

package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/seedauth/internal/pkg/goerror"
	"github.com/shandysiswandi/seedauth/internal/pkg/otp"
)

type GenerateCodeOutput struct {
	Code string
	// ValidFor is the number of seconds left in the current step, in [1, step].
	ValidFor uint64
}

func (s *Usecase) GenerateCode(ctx context.Context) (*GenerateCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "GenerateCode")
	defer span.End()

	seed, err := s.currentSeed(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	code, err := s.otp.Generate(seed.Bytes(), now, s.params)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate totp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	if s.generateCounter != nil {
		s.generateCounter.Add(ctx, 1)
	}

	return &GenerateCodeOutput{
		Code:     code,
		ValidFor: otp.ValidFor(now.Unix(), s.params.Step),
	}, nil
}

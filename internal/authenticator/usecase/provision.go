package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/seedauth/internal/authenticator/entity"
	"github.com/shandysiswandi/seedauth/internal/pkg/goerror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type ProvisionInput struct {
	EncryptedSeed string `validate:"required"`
}

type ProvisionOutput struct {
	Status string
}

func (s *Usecase) Provision(ctx context.Context, in ProvisionInput) (_ *ProvisionOutput, err error) {
	ctx, span := s.startSpan(ctx, "Provision")
	defer span.End()

	defer func() {
		if s.provisionCounter != nil {
			s.provisionCounter.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", err == nil)))
		}
	}()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidFormat("Missing field: encrypted_seed")
	}

	seed, err := DecryptSeed(in.EncryptedSeed, s.key)
	switch {
	case errors.Is(err, entity.ErrMalformedCiphertext):
		slog.WarnContext(ctx, "encrypted seed is not valid base64")
		return nil, goerror.NewInvalidFormat("Malformed encrypted seed")
	case errors.Is(err, entity.ErrDecryptionFailed):
		slog.WarnContext(ctx, "failed to decrypt seed")
		return nil, goerror.WrapBusiness(err, "Decryption failed", goerror.CodeInvalidInput)
	case errors.Is(err, entity.ErrInvalidSeedFormat):
		slog.WarnContext(ctx, "decrypted seed has invalid format")
		return nil, goerror.WrapBusiness(err, "Decrypted seed invalid format", goerror.CodeInvalidInput)
	case err != nil:
		slog.ErrorContext(ctx, "failed to decrypt seed", "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.store.Put(ctx, seed); err != nil {
		return nil, s.mapStoreError(ctx, err)
	}

	slog.InfoContext(ctx, "seed provisioned", "backend", s.store.Backend(), "seed_fingerprint", s.fingerprint(seed))

	return &ProvisionOutput{Status: "ok"}, nil
}

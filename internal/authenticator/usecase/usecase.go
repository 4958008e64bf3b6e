package usecase

import (
	"context"
	"crypto/rsa"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/seedauth/internal/authenticator/entity"
	"github.com/shandysiswandi/seedauth/internal/pkg/clock"
	"github.com/shandysiswandi/seedauth/internal/pkg/goerror"
	"github.com/shandysiswandi/seedauth/internal/pkg/hash"
	"github.com/shandysiswandi/seedauth/internal/pkg/instrument"
	"github.com/shandysiswandi/seedauth/internal/pkg/otp"
	"github.com/shandysiswandi/seedauth/internal/pkg/validator"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type seedStore interface {
	Get(ctx context.Context) (entity.Seed, error)
	Put(ctx context.Context, seed entity.Seed) error
	Backend() string
}

type Usecase struct {
	store     seedStore
	otp       otp.OTP
	clock     clock.Clocker
	validator validator.Validator
	hmac      hash.Hash
	ins       instrument.Instrumentation
	params    otp.Params
	key       *rsa.PrivateKey

	provisionCounter metric.Int64Counter
	generateCounter  metric.Int64Counter
	verifyCounter    metric.Int64Counter
}

type Dependency struct {
	Store      seedStore
	OTP        otp.OTP
	Clock      clock.Clocker
	Validator  validator.Validator
	HMAC       hash.Hash
	Instrument instrument.Instrumentation
	// Params is the TOTP profile used for every code; the zero value means
	// otp.DefaultParams.
	Params     otp.Params
	PrivateKey *rsa.PrivateKey
}

func NewAuthenticator(dep Dependency) *Usecase {
	params := dep.Params
	if params == (otp.Params{}) {
		params = otp.DefaultParams
	}

	meter := dep.Instrument.Meter("authenticator.usecase")

	provisionCounter, err := meter.Int64Counter("authenticator.provision", metric.WithDescription("Number of seed provisioning attempts"))
	if err != nil {
		slog.Error("failed to create provision counter", "error", err)
	}

	generateCounter, err := meter.Int64Counter("authenticator.code.generated", metric.WithDescription("Number of TOTP codes generated"))
	if err != nil {
		slog.Error("failed to create code generated counter", "error", err)
	}

	verifyCounter, err := meter.Int64Counter("authenticator.code.verified", metric.WithDescription("Number of TOTP codes verified"))
	if err != nil {
		slog.Error("failed to create code verified counter", "error", err)
	}

	return &Usecase{
		store:            dep.Store,
		otp:              dep.OTP,
		clock:            dep.Clock,
		validator:        dep.Validator,
		hmac:             dep.HMAC,
		ins:              dep.Instrument,
		params:           params,
		key:              dep.PrivateKey,
		provisionCounter: provisionCounter,
		generateCounter:  generateCounter,
		verifyCounter:    verifyCounter,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("authenticator.usecase").Start(ctx, name)
}

// Params returns the TOTP profile the usecase runs with.
func (s *Usecase) Params() otp.Params {
	return s.params
}

// currentSeed reads the live seed and maps store failures to API errors.
func (s *Usecase) currentSeed(ctx context.Context) (entity.Seed, error) {
	seed, err := s.store.Get(ctx)
	if err == nil {
		return seed, nil
	}

	return entity.Seed{}, s.mapStoreError(ctx, err)
}

func (s *Usecase) mapStoreError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, entity.ErrNotProvisioned):
		if err != entity.ErrNotProvisioned { //nolint:errorlint // only the bare sentinel means "nothing stored"
			slog.WarnContext(ctx, "failed to read seed store, treating as not provisioned", "backend", s.store.Backend(), "error", err)
		}
		return goerror.WrapBusiness(err, "Seed not decrypted yet", goerror.CodeUnavailable)
	case errors.Is(err, entity.ErrCorruptStoredSeed):
		slog.ErrorContext(ctx, "stored seed is invalid", "backend", s.store.Backend(), "error", err)
		return goerror.NewServerMsg(err, "Stored seed invalid")
	case errors.Is(err, entity.ErrInvalidSeedFormat):
		return goerror.WrapBusiness(err, "Decrypted seed invalid format", goerror.CodeInvalidInput)
	default:
		slog.ErrorContext(ctx, "failed to access seed store", "backend", s.store.Backend(), "error", err)
		return goerror.NewServer(err)
	}
}

func (s *Usecase) fingerprint(seed entity.Seed) string {
	sum, err := s.hmac.Hash(seed.String())
	if err != nil || len(sum) < 12 {
		return ""
	}
	return string(sum[:12])
}

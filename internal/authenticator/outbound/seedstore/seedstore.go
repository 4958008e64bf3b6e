package seedstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shandysiswandi/seedauth/internal/authenticator/entity"
	"github.com/shandysiswandi/seedauth/internal/pkg/goerror"
	"github.com/shandysiswandi/seedauth/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Backend persists the seed text. Read returns goerror.ErrNotFound when
// nothing has been written yet.
type Backend interface {
	Name() string
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, value string) error
	Close() error
}

// Store guards a Backend: writes are exclusive, reads may run together and
// nothing leaves it without passing the seed format check.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	ins     instrument.Instrumentation
}

func New(backend Backend, ins instrument.Instrumentation) *Store {
	return &Store{backend: backend, ins: ins}
}

// Get returns the stored seed.
//
// A missing seed or an unreadable backend is ErrNotProvisioned, content that
// fails the format check is ErrCorruptStoredSeed.
func (s *Store) Get(ctx context.Context) (_ entity.Seed, err error) {
	ctx, span := s.startSpan(ctx, "Get")
	defer func() { s.endSpan(span, err) }()

	s.mu.RLock()
	raw, err := s.backend.Read(ctx)
	s.mu.RUnlock()

	if errors.Is(err, goerror.ErrNotFound) {
		return entity.Seed{}, entity.ErrNotProvisioned
	}
	if err != nil {
		return entity.Seed{}, fmt.Errorf("%w: %w", entity.ErrNotProvisioned, err)
	}

	return entity.ParseStoredSeed(raw)
}

// Put replaces the stored seed. A seed that fails the format check is
// rejected with ErrInvalidSeedFormat and the previous value stays. A backend
// write failure is ErrCorruptStoredSeed.
func (s *Store) Put(ctx context.Context, seed entity.Seed) (err error) {
	ctx, span := s.startSpan(ctx, "Put")
	defer func() { s.endSpan(span, err) }()

	if _, err := entity.ParseSeed(seed.String()); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Write(ctx, seed.String()); err != nil {
		return fmt.Errorf("%w: %w", entity.ErrCorruptStoredSeed, err)
	}

	return nil
}

// Backend returns the driver name, used by health output and logs.
func (s *Store) Backend() string {
	return s.backend.Name()
}

func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("authenticator.outbound.seedstore").Start(ctx, name,
		trace.WithAttributes(attribute.String("seedstore.backend", s.backend.Name())),
	)
}

func (s *Store) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, entity.ErrNotProvisioned) && !errors.Is(err, entity.ErrInvalidSeedFormat) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

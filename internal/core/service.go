// Package core exposes the transactional service façade over the guildcore
// domain: entity CRUD, ledger postings, scope prioritization, and the
// supporting observability hooks.
package core

import (
	"errors"

	"guildcore/internal/blob"
	"guildcore/internal/infra/persistence/memory"
	"guildcore/pkg/domain"
)

// ErrNoArtifactStore is returned by artifact operations when the service was
// built without a blob store.
var ErrNoArtifactStore = errors.New("no artifact store configured")

// Service exposes higher-level transactional operations for the guildcore
// schema. Every mutation runs inside a store transaction and is instrumented
// through the configured observability hooks.
type Service struct {
	store     domain.PersistentStore
	logger    Logger
	clock     Clock
	audit     AuditRecorder
	metrics   MetricsRecorder
	tracer    Tracer
	artifacts blob.Store
}

// ServiceOption customizes service construction.
type ServiceOption func(*Service)

// WithLogger overrides the structured logger.
func WithLogger(logger Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the service clock.
func WithClock(clock Clock) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithAuditRecorder wires an audit trail sink.
func WithAuditRecorder(recorder AuditRecorder) ServiceOption {
	return func(s *Service) {
		if recorder != nil {
			s.audit = recorder
		}
	}
}

// WithMetricsRecorder wires an operation metrics sink.
func WithMetricsRecorder(recorder MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

// WithTracer wires a span tracer.
func WithTracer(tracer Tracer) ServiceOption {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithArtifactStore wires a blob store for design artifacts.
func WithArtifactStore(store blob.Store) ServiceOption {
	return func(s *Service) {
		if store != nil {
			s.artifacts = store
		}
	}
}

// NewService constructs a service backed by the supplied store.
func NewService(store domain.PersistentStore, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		logger:  noopLogger{},
		clock:   ClockFunc(nil),
		audit:   noopAuditRecorder{},
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService creates a service and in-memory store with the given
// rules engine.
func NewInMemoryService(engine *domain.RulesEngine, opts ...ServiceOption) *Service {
	return NewService(memory.NewStore(engine), opts...)
}

// Store returns the underlying storage implementation. Read paths go through
// its getters directly.
func (s *Service) Store() domain.PersistentStore {
	return s.store
}

// Package service runs the BPD read pipeline: resolve the citizen id, record
// the audit entry when the operation is audited, query the store and project
// the rows. Every operation returns exactly one outcome.Outcome.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"bpd/internal/bpd/metrics"
	"bpd/internal/bpd/models"
	"bpd/internal/supporttoken"
	"bpd/pkg/domain"
	audit "bpd/pkg/platform/audit"
)

// Resolver turns a citizen id into a trusted fiscal code.
type Resolver interface {
	Resolve(ctx context.Context, id domain.CitizenID) (domain.FiscalCode, error)
	VerifyDelegated(ctx context.Context, token domain.SupportToken) (*supporttoken.Verified, error)
}

// Store reads BPD rows.
type Store interface {
	FindCitizen(ctx context.Context, fc domain.FiscalCode) ([]models.CitizenRow, error)
	FindAwards(ctx context.Context, fc domain.FiscalCode) ([]models.AwardRow, error)
	FindTransactions(ctx context.Context, fc domain.FiscalCode) ([]models.TransactionRow, error)
}

// AuditRecorder persists an audit entry synchronously.
type AuditRecorder interface {
	RecordEntry(ctx context.Context, entry audit.Entry) error
}

// Revoker adds a support token fingerprint to the blacklist.
type Revoker interface {
	Revoke(ctx context.Context, fingerprint string, ttl time.Duration) error
}

// MembershipChecker reports whether an actor belongs to the admin group.
type MembershipChecker interface {
	IsAdmin(ctx context.Context, subject string) (bool, error)
}

const (
	defaultMaxQueryAttempts = 1
	defaultRevocationTTL    = 24 * time.Hour
	tracerName              = "bpd/internal/bpd/service"
)

// Service runs the BPD pipelines.
type Service struct {
	resolver Resolver
	store    Store
	auditor  AuditRecorder

	revoker       Revoker
	members       MembershipChecker
	revocationTTL time.Duration

	logger           *slog.Logger
	metrics          *metrics.Metrics
	tracer           trace.Tracer
	maxQueryAttempts int
	retryBackoff     time.Duration
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithMaxQueryAttempts bounds how many times a failed read is attempted.
// Values below 1 are ignored.
func WithMaxQueryAttempts(n int) Option {
	return func(s *Service) {
		if n >= 1 {
			s.maxQueryAttempts = n
		}
	}
}

// WithRetryBackoff sets the pause between query attempts.
func WithRetryBackoff(d time.Duration) Option {
	return func(s *Service) { s.retryBackoff = d }
}

// WithRevocation enables BlacklistSupportToken. fallbackTTL applies to tokens
// without an exp claim.
func WithRevocation(revoker Revoker, members MembershipChecker, fallbackTTL time.Duration) Option {
	return func(s *Service) {
		s.revoker = revoker
		s.members = members
		if fallbackTTL > 0 {
			s.revocationTTL = fallbackTTL
		}
	}
}

// New creates the service.
func New(resolver Resolver, store Store, auditor AuditRecorder, opts ...Option) (*Service, error) {
	if resolver == nil {
		return nil, errors.New("resolver is required")
	}
	if store == nil {
		return nil, errors.New("store is required")
	}
	if auditor == nil {
		return nil, errors.New("audit recorder is required")
	}
	s := &Service{
		resolver:         resolver,
		store:            store,
		auditor:          auditor,
		revocationTTL:    defaultRevocationTTL,
		logger:           slog.Default(),
		maxQueryAttempts: defaultMaxQueryAttempts,
		retryBackoff:     50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s, nil
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bpd/internal/bpd/outcome"
	"bpd/pkg/domain"
	dErrors "bpd/pkg/domain-errors"
	audit "bpd/pkg/platform/audit"
	"bpd/pkg/requestcontext"
)

// Redacted messages returned when the audit log or a read query fails. The
// cause is logged, never returned.
const (
	msgAuditError        = "Audit log write error"
	msgCitizenQuery      = "Citizen find query error"
	msgAwardsQuery       = "Awards find query error"
	msgTransactionsQuery = "Transactions find query error"
)

// run executes a pipeline and classifies its terminal state.
func (s *Service) run(ctx context.Context, operation string, pipeline func(ctx context.Context) (any, error)) outcome.Outcome {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "bpd."+operation)
	defer span.End()

	payload, err := pipeline(ctx)
	result := outcome.Classify(payload, err)

	span.SetAttributes(attribute.String("bpd.outcome", result.Kind()))
	if err != nil {
		span.SetStatus(codes.Error, result.Kind())
	}
	s.metrics.IncrementOutcome(operation, result.Kind())
	s.metrics.ObservePipelineLatency(operation, time.Since(start))
	return result
}

// stage wraps fn in a child span.
func (s *Service) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, name)
	defer span.End()
	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		return err
	}
	return nil
}

func (s *Service) resolve(ctx context.Context, id domain.CitizenID) (domain.FiscalCode, error) {
	var fc domain.FiscalCode
	err := s.stage(ctx, "bpd.resolve", func(ctx context.Context) error {
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("bpd.citizen_id.kind", id.Kind().String()))
		var err error
		fc, err = s.resolver.Resolve(ctx, id)
		return err
	})
	return fc, err
}

// recordAudit writes the audit entry for an audited operation. The query
// must not run when this returns an error.
func (s *Service) recordAudit(ctx context.Context, operation string, fc domain.FiscalCode) error {
	return s.stage(ctx, "bpd.audit", func(ctx context.Context) error {
		actor, ok := requestcontext.ActorFrom(ctx)
		if !ok {
			return dErrors.New(dErrors.CodeUnauthorized, "authenticated actor required")
		}
		requestID := requestcontext.RequestID(ctx)
		err := s.auditor.RecordEntry(ctx, audit.Entry{
			AuthLevel:     audit.AuthLevelAdmin,
			Citizen:       fc.String(),
			OperationName: operation,
			PartitionKey:  actor.Subject,
			RowKey:        uuid.NewString(),
			RequestID:     requestID,
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "audit entry rejected, aborting operation",
				"request_id", requestID,
				"operation", operation,
				"error", err,
			)
			return dErrors.Wrap(err, dErrors.CodeInternal, msgAuditError)
		}
		return nil
	})
}

// query runs find with bounded retries and returns a redacted internal error
// after the last failed attempt. The cause is logged once.
func query[T any](ctx context.Context, s *Service, view, redacted string, find func(ctx context.Context) ([]T, error)) ([]T, error) {
	var rows []T
	err := s.stage(ctx, "bpd.query", func(ctx context.Context) error {
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("bpd.view", view))
		var (
			lastErr error
			attempt int
		)
		for {
			attempt++
			var err error
			rows, err = find(ctx)
			if err == nil {
				return nil
			}
			lastErr = err
			s.metrics.IncrementQueryFailure(view)
			if attempt >= s.maxQueryAttempts || !s.backoff(ctx) {
				break
			}
		}
		s.logger.ErrorContext(ctx, "bpd query failed",
			"request_id", requestcontext.RequestID(ctx),
			"view", view,
			"attempts", attempt,
			"error", lastErr,
		)
		return dErrors.Wrap(lastErr, dErrors.CodeInternal, redacted)
	})
	return rows, err
}

// backoff waits before the next attempt and reports false when ctx ended.
func (s *Service) backoff(ctx context.Context) bool {
	timer := time.NewTimer(s.retryBackoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// project wraps a projection in its own span.
func project[R any, P any](ctx context.Context, s *Service, rows R, fn func(R) (P, error)) (P, error) {
	var out P
	err := s.stage(ctx, "bpd.project", func(context.Context) error {
		var err error
		out, err = fn(rows)
		return err
	})
	return out, err
}

// Package recorder provides the fail-closed audit recorder used before
// privileged operations.
//
// RecordEntry is synchronous: the caller blocks until the store accepted the
// entry. If the write fails an error is returned and the calling operation
// MUST NOT proceed.
package recorder

import (
	"context"
	"fmt"
	"time"

	audit "bpd/pkg/platform/audit"
	"bpd/pkg/requestcontext"
)

// Recorder writes audit entries with fail-closed semantics. It does not log:
// callers own the single error log line for a rejected entry.
type Recorder struct {
	store   audit.Store
	metrics *Metrics
	enrich  func(ctx context.Context, entry *audit.Entry)
}

// Option configures the Recorder.
type Option func(*Recorder)

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(r *Recorder) {
		r.metrics = m
	}
}

// New creates a recorder over store.
func New(store audit.Store, opts ...Option) *Recorder {
	r := &Recorder{
		store:  store,
		enrich: EnrichFromContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RecordEntry validates, enriches and synchronously persists entry.
func (r *Recorder) RecordEntry(ctx context.Context, entry audit.Entry) error {
	start := time.Now()

	if entry.OperationName == "" {
		return fmt.Errorf("audit entry requires OperationName")
	}
	if entry.PartitionKey == "" {
		return fmt.Errorf("audit entry requires PartitionKey")
	}
	if entry.RowKey == "" {
		return fmt.Errorf("audit entry requires RowKey")
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = requestcontext.Now(ctx)
	}
	r.enrich(ctx, &entry)

	if err := r.store.Append(ctx, entry); err != nil {
		r.metrics.IncPersistFailures(entry.OperationName)
		return fmt.Errorf("audit persistence failed: %w", err)
	}

	r.metrics.ObservePersistDuration(time.Since(start).Seconds())
	r.metrics.IncEntriesRecorded(entry.OperationName)
	return nil
}

// Package membership answers whether an authenticated actor belongs to the
// back-office admin group. Decisions are cached per subject and concurrent
// lookups for the same subject share one directory call.
package membership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"bpd/pkg/platform/circuit"
	"bpd/pkg/platform/sentinel"
	pstrings "bpd/pkg/platform/strings"
	"bpd/pkg/requestcontext"
)

// Directory lists the group names of a subject.
type Directory interface {
	GroupNames(ctx context.Context, subject string) ([]string, error)
}

// Cache stores membership decisions.
type Cache interface {
	Get(ctx context.Context, subject string) (isAdmin bool, found bool, err error)
	Set(ctx context.Context, subject string, isAdmin bool, ttl time.Duration) error
}

const (
	defaultCacheTTL      = 5 * time.Minute
	defaultLookupTimeout = 10 * time.Second
)

// Checker implements the admin group check.
type Checker struct {
	directory  Directory
	cache      Cache
	adminGroup string
	ttl        time.Duration
	timeout    time.Duration
	logger     *slog.Logger
	breaker    *circuit.Breaker
	group      singleflight.Group
}

// Option configures the Checker.
type Option func(*Checker)

// WithCache enables decision caching.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Checker) {
		c.cache = cache
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLookupTimeout bounds one shared directory lookup.
func WithLookupTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) { c.logger = logger }
}

// WithBreaker replaces the default directory circuit breaker.
func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Checker) {
		if b != nil {
			c.breaker = b
		}
	}
}

// NewChecker builds a Checker for adminGroup.
func NewChecker(directory Directory, adminGroup string, opts ...Option) (*Checker, error) {
	if directory == nil {
		return nil, errors.New("directory is required")
	}
	if adminGroup == "" {
		return nil, errors.New("admin group name is required")
	}
	c := &Checker{
		directory:  directory,
		adminGroup: adminGroup,
		ttl:        defaultCacheTTL,
		timeout:    defaultLookupTimeout,
		logger:     slog.Default(),
		breaker: circuit.New("directory",
			circuit.WithFailureThreshold(5),
			circuit.WithCooldown(30*time.Second),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// IsAdmin reports whether subject belongs to the admin group. A subject the
// directory does not know is not an admin. Cache failures degrade to a
// directory lookup.
func (c *Checker) IsAdmin(ctx context.Context, subject string) (bool, error) {
	if subject == "" {
		return false, nil
	}
	if c.cache != nil {
		isAdmin, found, err := c.cache.Get(ctx, subject)
		if err != nil {
			c.logger.WarnContext(ctx, "membership cache read failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		} else if found {
			return isAdmin, nil
		}
	}

	// The shared lookup outlives any single caller; each caller stops
	// waiting on its own context.
	ch := c.group.DoChan(subject, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.lookup(lookupCtx, subject)
	})
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return false, res.Err
		}
		return res.Val.(bool), nil
	}
}

func (c *Checker) lookup(ctx context.Context, subject string) (bool, error) {
	if !c.breaker.Allow() {
		return false, fmt.Errorf("directory circuit open: %w", sentinel.ErrUnavailable)
	}

	names, err := c.directory.GroupNames(ctx, subject)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		if _, change := c.breaker.RecordFailure(); change.Opened {
			c.logger.ErrorContext(ctx, "directory circuit opened",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
		return false, fmt.Errorf("list groups: %w", err)
	}
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "directory circuit closed",
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	if err != nil {
		return false, nil
	}

	isAdmin := slices.Contains(pstrings.DedupeAndTrimLower(names), strings.ToLower(strings.TrimSpace(c.adminGroup)))
	if c.cache != nil {
		if err := c.cache.Set(ctx, subject, isAdmin, c.ttl); err != nil {
			c.logger.WarnContext(ctx, "membership cache write failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
	}
	return isAdmin, nil
}

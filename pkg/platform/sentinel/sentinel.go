package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, caches and remote clients
// return these (optionally wrapped) so services can translate them into
// domain errors:
// - ErrNotFound: entity does not exist in the store or cache
// - ErrInvalidState: a store was asked to do something it cannot represent
// - ErrUnavailable: backing service temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)

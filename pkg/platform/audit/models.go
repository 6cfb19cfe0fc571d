package audit

import (
	"context"
	"errors"
	"time"
)

// AuthLevel is the privilege under which an audited operation ran.
type AuthLevel string

// AuthLevelAdmin is the only level recorded today.
const AuthLevelAdmin AuthLevel = "Admin"

// Operation names recorded in the audit log.
const (
	OperationGetBPDCitizen         = "GetBPDCitizen"
	OperationGetBPDAwards          = "GetBPDAwards"
	OperationGetBPDTransactions    = "GetBPDTransactions"
	OperationBlacklistSupportToken = "BlacklistSupportToken"
)

// ErrDuplicateEntry is returned by stores when an entry with the same
// PartitionKey and RowKey already exists. Entries are never replaced.
var ErrDuplicateEntry = errors.New("audit entry already recorded")

// Entry records that a privileged read or delete happened. PartitionKey is
// the actor's subject id and RowKey a server-generated invocation id.
// RequestID is the correlation id echoed to the caller; it may be client
// supplied and is never part of the key.
type Entry struct {
	AuthLevel     AuthLevel
	Citizen       string
	OperationName string
	PartitionKey  string
	RowKey        string
	RequestID     string

	// Enrichment; optional.
	Timestamp  time.Time
	ActorEmail string
	ActorName  string
	ClientIP   string
	UserAgent  string
}

// Store persists audit entries. Implementations must be synchronous: a nil
// error means the entry is durable.
type Store interface {
	Append(ctx context.Context, entry Entry) error
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	audit "bpd/pkg/platform/audit"
	txcontext "bpd/pkg/platform/tx"
)

// DefaultTableName is the audit table used when none is configured.
const DefaultTableName = "dashboard_logs"

// uniqueViolation is the SQLSTATE of a primary key conflict.
const uniqueViolation = "23505"

// Store implements audit.Store on a single append-only Postgres table keyed
// by (partition_key, row_key).
type Store struct {
	db          *sql.DB
	insertQuery string
	table       string
	index       string
}

// New creates a Postgres audit store writing to table.
func New(db *sql.DB, table string) *Store {
	if table == "" {
		table = DefaultTableName
	}
	quoted := pq.QuoteIdentifier(table)
	return &Store{
		db:    db,
		table: quoted,
		index: pq.QuoteIdentifier(table + "_citizen_idx"),
		insertQuery: fmt.Sprintf(`
		INSERT INTO %s (
			partition_key, row_key, request_id, auth_level, citizen, operation_name,
			actor_email, actor_name, client_ip, user_agent, recorded_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, quoted),
	}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// EnsureSchema creates the audit table and its citizen index if they do not
// exist, in one transaction.
func (s *Store) EnsureSchema(ctx context.Context) error {
	table := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			partition_key  TEXT NOT NULL,
			row_key        TEXT NOT NULL,
			request_id     TEXT NOT NULL DEFAULT '',
			auth_level     TEXT NOT NULL,
			citizen        TEXT NOT NULL,
			operation_name TEXT NOT NULL,
			actor_email    TEXT NOT NULL DEFAULT '',
			actor_name     TEXT NOT NULL DEFAULT '',
			client_ip      TEXT NOT NULL DEFAULT '',
			user_agent     TEXT NOT NULL DEFAULT '',
			recorded_at    TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (partition_key, row_key)
		)
	`, s.table)
	index := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (citizen, recorded_at)`, s.index, s.table)

	return txcontext.Run(ctx, s.db, func(ctx context.Context) error {
		if _, err := s.execer(ctx).ExecContext(ctx, table); err != nil {
			return fmt.Errorf("create audit table: %w", err)
		}
		if _, err := s.execer(ctx).ExecContext(ctx, index); err != nil {
			return fmt.Errorf("create audit citizen index: %w", err)
		}
		return nil
	})
}

// Append inserts entry. An existing entry with the same keys is left
// untouched and audit.ErrDuplicateEntry is returned.
func (s *Store) Append(ctx context.Context, entry audit.Entry) error {
	_, err := s.execer(ctx).ExecContext(ctx, s.insertQuery,
		entry.PartitionKey,
		entry.RowKey,
		entry.RequestID,
		string(entry.AuthLevel),
		entry.Citizen,
		entry.OperationName,
		entry.ActorEmail,
		entry.ActorName,
		entry.ClientIP,
		entry.UserAgent,
		entry.Timestamp,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("insert audit entry: %w", audit.ErrDuplicateEntry)
	}
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListByActor returns the entries recorded for one actor, newest first.
func (s *Store) ListByActor(ctx context.Context, partitionKey string) ([]audit.Entry, error) {
	query := fmt.Sprintf(`
		SELECT partition_key, row_key, request_id, auth_level, citizen, operation_name,
			   actor_email, actor_name, client_ip, user_agent, recorded_at
		FROM %s
		WHERE partition_key = $1
		ORDER BY recorded_at DESC
	`, s.table)

	rows, err := s.db.QueryContext(ctx, query, partitionKey)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var (
			e         audit.Entry
			authLevel string
		)
		if err := rows.Scan(
			&e.PartitionKey,
			&e.RowKey,
			&e.RequestID,
			&authLevel,
			&e.Citizen,
			&e.OperationName,
			&e.ActorEmail,
			&e.ActorName,
			&e.ClientIP,
			&e.UserAgent,
			&e.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.AuthLevel = audit.AuthLevel(authLevel)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}

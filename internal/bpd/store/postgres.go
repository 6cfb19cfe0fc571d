// Package store reads citizen, award and transaction rows from the BPD
// database. Each Find issues exactly one query.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bpd/internal/bpd/models"
	"bpd/pkg/domain"
)

// View names queried by the store.
const (
	ViewCitizen      = "v_bpd_citizen"
	ViewAwards       = "v_bpd_award_citizen"
	ViewTransactions = "v_bpd_winning_transaction"
)

// LatencyObserver receives the duration of every query.
type LatencyObserver interface {
	ObserveQueryLatency(view string, d time.Duration)
}

// PostgresStore reads BPD rows over a shared pgx pool.
type PostgresStore struct {
	pool     *pgxpool.Pool
	observer LatencyObserver
}

// NewPostgres creates a store over pool. observer may be nil.
func NewPostgres(pool *pgxpool.Pool, observer LatencyObserver) *PostgresStore {
	return &PostgresStore{pool: pool, observer: observer}
}

func (s *PostgresStore) observe(view string, start time.Time) {
	if s.observer != nil {
		s.observer.ObserveQueryLatency(view, time.Since(start))
	}
}

const findCitizenQuery = `
	SELECT fiscal_code, timestamp_tc, payoff_instr, payoff_instr_type, enabled,
		   onboarding_date, onboarding_issuer_id, update_date, update_user,
		   payment_instrument_hpan, payment_instrument_status,
		   payment_instrument_enabled, payment_instrument_insert_date,
		   payment_instrument_update_date, payment_instrument_channel
	FROM ` + ViewCitizen + `
	WHERE fiscal_code = $1
`

// FindCitizen returns one row per (citizen, payment instrument).
func (s *PostgresStore) FindCitizen(ctx context.Context, fc domain.FiscalCode) ([]models.CitizenRow, error) {
	defer s.observe(ViewCitizen, time.Now())

	rows, err := s.pool.Query(ctx, findCitizenQuery, fc.String())
	if err != nil {
		return nil, fmt.Errorf("query citizen: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CitizenRow, error) {
		var r models.CitizenRow
		err := row.Scan(
			&r.FiscalCode,
			&r.TimestampTC,
			&r.PayoffInstr,
			&r.PayoffInstrType,
			&r.Enabled,
			&r.OnboardingDate,
			&r.OnboardingIssuerID,
			&r.UpdateDate,
			&r.UpdateUser,
			&r.PaymentInstrumentHpan,
			&r.PaymentInstrumentStatus,
			&r.PaymentInstrumentEnabled,
			&r.PaymentInstrumentInsertDate,
			&r.PaymentInstrumentUpdateDate,
			&r.PaymentInstrumentChannel,
		)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan citizen rows: %w", err)
	}
	return out, nil
}

const findAwardsQuery = `
	SELECT fiscal_code, award_period_id, award_winner_id, award_winner_amount,
		   award_period_start, award_period_end, award_period_grace_period,
		   award_period_cashback_perc, award_period_cashback_max,
		   award_period_amount_max, award_period_ranking_min,
		   award_period_trx_cashback_max, award_period_trx_eval_max,
		   award_period_trx_volume_min
	FROM ` + ViewAwards + `
	WHERE fiscal_code = $1
	ORDER BY award_period_id
`

// FindAwards returns the award rows of a citizen, including the all-NULL
// row produced by the outer join when the citizen has no award.
func (s *PostgresStore) FindAwards(ctx context.Context, fc domain.FiscalCode) ([]models.AwardRow, error) {
	defer s.observe(ViewAwards, time.Now())

	rows, err := s.pool.Query(ctx, findAwardsQuery, fc.String())
	if err != nil {
		return nil, fmt.Errorf("query awards: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.AwardRow, error) {
		var r models.AwardRow
		err := row.Scan(
			&r.FiscalCode,
			&r.AwardPeriodID,
			&r.AwardWinnerID,
			&r.AwardWinnerAmount,
			&r.AwardPeriodStart,
			&r.AwardPeriodEnd,
			&r.AwardPeriodGracePeriod,
			&r.AwardPeriodCashbackPerc,
			&r.AwardPeriodCashbackMax,
			&r.AwardPeriodAmountMax,
			&r.AwardPeriodRankingMin,
			&r.AwardPeriodTrxCashbackMax,
			&r.AwardPeriodTrxEvalMax,
			&r.AwardPeriodTrxVolumeMin,
		)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan award rows: %w", err)
	}
	return out, nil
}

const findTransactionsQuery = `
	SELECT fiscal_code, acquirer_c, circuit_type_c, operation_type_c, hpan_s,
		   id_trx_acquirer_s, trx_timestamp_t, insert_date_t, update_date_t,
		   amount_i, amount_currency_c, mcc_c, award_period_id_n
	FROM ` + ViewTransactions + `
	WHERE fiscal_code = $1
	ORDER BY trx_timestamp_t
`

// FindTransactions returns the transactions attributed to a citizen.
func (s *PostgresStore) FindTransactions(ctx context.Context, fc domain.FiscalCode) ([]models.TransactionRow, error) {
	defer s.observe(ViewTransactions, time.Now())

	rows, err := s.pool.Query(ctx, findTransactionsQuery, fc.String())
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.TransactionRow, error) {
		var r models.TransactionRow
		err := row.Scan(
			&r.FiscalCode,
			&r.Acquirer,
			&r.CircuitType,
			&r.OperationType,
			&r.Hpan,
			&r.IDTrxAcquirer,
			&r.TrxTimestamp,
			&r.InsertDate,
			&r.UpdateDate,
			&r.Amount,
			&r.AmountCurrency,
			&r.Mcc,
			&r.AwardPeriodID,
		)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan transaction rows: %w", err)
	}
	return out, nil
}

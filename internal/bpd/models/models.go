// Package models holds the flat row shapes returned by the BPD read store.
// Nullable columns are pointers so projections can tell a missing value
// from a zero value.
package models

import "time"

// CitizenRow is one row of the citizen view: the citizen joined with at most
// one payment instrument. A citizen with no instruments yields a single row
// whose instrument columns are NULL.
type CitizenRow struct {
	FiscalCode         string
	TimestampTC        *time.Time
	PayoffInstr        *string
	PayoffInstrType    *string
	Enabled            *bool
	OnboardingDate     *time.Time
	OnboardingIssuerID *string
	UpdateDate         *time.Time
	UpdateUser         *string

	PaymentInstrumentHpan       *string
	PaymentInstrumentStatus     *string
	PaymentInstrumentEnabled    *bool
	PaymentInstrumentInsertDate *time.Time
	PaymentInstrumentUpdateDate *time.Time
	PaymentInstrumentChannel    *string
}

// AwardRow is one row of the citizen/award-period view. The join is outer
// on the award side, so a citizen without awards yields a row whose award
// columns are all NULL.
type AwardRow struct {
	FiscalCode string

	AwardPeriodID             *int64
	AwardWinnerID             *int64
	AwardWinnerAmount         *float64
	AwardPeriodStart          *time.Time
	AwardPeriodEnd            *time.Time
	AwardPeriodGracePeriod    *int64
	AwardPeriodCashbackPerc   *float64
	AwardPeriodCashbackMax    *float64
	AwardPeriodAmountMax      *float64
	AwardPeriodRankingMin     *float64
	AwardPeriodTrxCashbackMax *float64
	AwardPeriodTrxEvalMax     *float64
	AwardPeriodTrxVolumeMin   *float64
}

// HasAward reports whether any award column is populated.
func (r AwardRow) HasAward() bool {
	return r.AwardPeriodID != nil ||
		r.AwardWinnerID != nil ||
		r.AwardWinnerAmount != nil ||
		r.AwardPeriodStart != nil ||
		r.AwardPeriodEnd != nil ||
		r.AwardPeriodGracePeriod != nil ||
		r.AwardPeriodCashbackPerc != nil ||
		r.AwardPeriodCashbackMax != nil ||
		r.AwardPeriodAmountMax != nil ||
		r.AwardPeriodRankingMin != nil ||
		r.AwardPeriodTrxCashbackMax != nil ||
		r.AwardPeriodTrxEvalMax != nil ||
		r.AwardPeriodTrxVolumeMin != nil
}

// TransactionRow is one payment transaction attributed to a citizen.
type TransactionRow struct {
	FiscalCode     string
	Acquirer       *string
	CircuitType    *string
	OperationType  *string
	Hpan           *string
	IDTrxAcquirer  *string
	TrxTimestamp   *time.Time
	InsertDate     *time.Time
	UpdateDate     *time.Time
	Amount         *float64
	AmountCurrency *string
	Mcc            *string
	AwardPeriodID  *int64
}

// Package api defines the external response shapes of the BPD endpoints.
// Values are only built through the projection package, which validates
// them; required fields are therefore plain values and optional fields are
// pointers omitted from JSON when absent.
package api

// BPDCitizen is the citizen profile.
type BPDCitizen struct {
	CitizenEnabled     bool            `json:"citizen_enabled"`
	FiscalCode         string          `json:"fiscal_code"`
	OnboardingDate     *string         `json:"onboarding_date,omitempty"`
	OnboardingIssuerID *string         `json:"onboarding_issuer_id,omitempty"`
	PaymentMethods     []PaymentMethod `json:"payment_methods"`
	TimestampTC        string          `json:"timestamp_tc"`
	UpdateDate         *string         `json:"update_date,omitempty"`
	UpdateUser         *string         `json:"update_user,omitempty"`
	PayOffInstr        *PayOffInstr    `json:"pay_off_instr,omitempty"`
}

// PayOffInstr is the instrument the cashback is paid to.
type PayOffInstr struct {
	Iban string  `json:"iban"`
	Type *string `json:"type,omitempty"`
}

// PaymentMethod is an enrolled payment instrument.
type PaymentMethod struct {
	PaymentInstrumentHpan       string  `json:"payment_instrument_hpan"`
	PaymentInstrumentStatus     string  `json:"payment_instrument_status"`
	PaymentInstrumentEnabled    *bool   `json:"payment_instrument_enabled,omitempty"`
	PaymentInstrumentInsertDate *string `json:"payment_instrument_insert_date,omitempty"`
	PaymentInstrumentUpdateDate *string `json:"payment_instrument_update_date,omitempty"`
	Channel                     *string `json:"channel,omitempty"`
}

// Payment instrument statuses.
const (
	PaymentInstrumentActive   = "ACTIVE"
	PaymentInstrumentInactive = "INACTIVE"
)

// AwardsList groups the award periods of one citizen.
type AwardsList struct {
	FiscalCode string  `json:"fiscal_code"`
	Awards     []Award `json:"awards"`
}

// Award is the outcome of one award period for a citizen.
type Award struct {
	AwardWinnerID             int64   `json:"award_winner_id"`
	AwardWinnerAmount         float64 `json:"award_winner_amount"`
	AwardPeriodID             int64   `json:"award_period_id"`
	AwardPeriodStart          string  `json:"award_period_start"`
	AwardPeriodEnd            string  `json:"award_period_end"`
	AwardPeriodGracePeriod    int64   `json:"award_period_grace_period"`
	AwardPeriodCashbackPerc   float64 `json:"award_period_cashback_perc"`
	AwardPeriodCashbackMax    float64 `json:"award_period_cashback_max"`
	AwardPeriodAmountMax      float64 `json:"award_period_amount_max"`
	AwardPeriodRankingMin     float64 `json:"award_period_ranking_min"`
	AwardPeriodTrxCashbackMax float64 `json:"award_period_trx_cashback_max"`
	AwardPeriodTrxEvalMax     float64 `json:"award_period_trx_eval_max"`
	AwardPeriodTrxVolumeMin   float64 `json:"award_period_trx_volume_min"`
}

// BPDTransactionList is the transaction history of one citizen.
type BPDTransactionList struct {
	Transactions []BPDTransaction `json:"transactions"`
}

// BPDTransaction is one payment transaction.
type BPDTransaction struct {
	Acquirer       string   `json:"acquirer"`
	CircuitType    string   `json:"circuit_type"`
	OperationType  string   `json:"operation_type"`
	Hpan           string   `json:"hpan"`
	IDTrxAcquirer  string   `json:"id_trx_acquirer"`
	TrxTimestamp   string   `json:"trx_timestamp"`
	InsertDate     *string  `json:"insert_date,omitempty"`
	UpdateDate     *string  `json:"update_date,omitempty"`
	Amount         *float64 `json:"amount,omitempty"`
	AmountCurrency *string  `json:"amount_currency,omitempty"`
	Mcc            *string  `json:"mcc,omitempty"`
	AwardPeriodID  *int64   `json:"award_period_id,omitempty"`
}

// SupportTokenRevocation is returned after a support token is blacklisted.
type SupportTokenRevocation struct {
	Revoked   bool    `json:"revoked"`
	ExpiresAt *string `json:"expires_at,omitempty"`
}

// Problem is the error body, following RFC 7807.
type Problem struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

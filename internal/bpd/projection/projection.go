// Package projection folds flat store rows into the external API shapes and
// validates the result. Every function is pure: it depends only on the rows
// it is given, so it can be tested without a store.
package projection

import (
	"bpd/internal/bpd/api"
	"bpd/internal/bpd/models"
	"bpd/pkg/domain"
	"bpd/pkg/schema"
)

// Titles used for validation failures.
const (
	InvalidCitizenTitle      = "Invalid BPDCitizen object"
	InvalidAwardsTitle       = "Invalid AwardsList object"
	InvalidTransactionsTitle = "Invalid BPDTransactionList object"
)

// IsPaymentMethod reports whether a citizen row carries a payment instrument
// that satisfies the PaymentMethod shape.
func IsPaymentMethod(row models.CitizenRow) bool {
	if row.PaymentInstrumentHpan == nil || *row.PaymentInstrumentHpan == "" {
		return false
	}
	if row.PaymentInstrumentStatus == nil {
		return false
	}
	switch *row.PaymentInstrumentStatus {
	case api.PaymentInstrumentActive, api.PaymentInstrumentInactive:
		return true
	default:
		return false
	}
}

func toPaymentMethod(row models.CitizenRow) api.PaymentMethod {
	return api.PaymentMethod{
		PaymentInstrumentHpan:       *row.PaymentInstrumentHpan,
		PaymentInstrumentStatus:     *row.PaymentInstrumentStatus,
		PaymentInstrumentEnabled:    row.PaymentInstrumentEnabled,
		PaymentInstrumentInsertDate: schema.OptionalTimestamp(row.PaymentInstrumentInsertDate),
		PaymentInstrumentUpdateDate: schema.OptionalTimestamp(row.PaymentInstrumentUpdateDate),
		Channel:                     row.PaymentInstrumentChannel,
	}
}

// ToAPIBPDCitizen folds the rows of one citizen left to right. The first row
// seeds every scalar field; each row that is a payment method contributes
// one entry to payment_methods, in row order.
//
// The caller handles the empty case (not found); an empty slice here yields
// a validation error on fiscal_code.
func ToAPIBPDCitizen(rows []models.CitizenRow) (*api.BPDCitizen, error) {
	v := schema.New()
	var first models.CitizenRow
	if len(rows) > 0 {
		first = rows[0]
	}

	methods := make([]api.PaymentMethod, 0, len(rows))
	for _, row := range rows {
		if IsPaymentMethod(row) {
			methods = append(methods, toPaymentMethod(row))
		}
	}

	out := &api.BPDCitizen{
		CitizenEnabled:     v.RequiredBool("citizen_enabled", first.Enabled),
		FiscalCode:         v.Pattern("fiscal_code", first.FiscalCode, domain.FiscalCodePattern, "FiscalCode"),
		OnboardingDate:     schema.OptionalTimestamp(first.OnboardingDate),
		OnboardingIssuerID: first.OnboardingIssuerID,
		PaymentMethods:     methods,
		TimestampTC:        v.RequiredTimestamp("timestamp_tc", first.TimestampTC),
		UpdateDate:         schema.OptionalTimestamp(first.UpdateDate),
		UpdateUser:         first.UpdateUser,
		PayOffInstr:        toPayOffInstr(v.At("pay_off_instr"), first),
	}
	if err := v.Err(InvalidCitizenTitle); err != nil {
		return nil, err
	}
	return out, nil
}

func toPayOffInstr(v *schema.Validator, row models.CitizenRow) *api.PayOffInstr {
	if row.PayoffInstr == nil && row.PayoffInstrType == nil {
		return nil
	}
	return &api.PayOffInstr{
		Iban: v.RequiredString("iban", row.PayoffInstr),
		Type: row.PayoffInstrType,
	}
}

// ToAPIAwardsList maps award rows of one citizen. Rows without any award
// column are the outer-join filler for a citizen with no awards and are
// skipped. A single malformed award fails the whole list.
func ToAPIAwardsList(fiscalCode string, rows []models.AwardRow) (*api.AwardsList, error) {
	v := schema.New()
	out := &api.AwardsList{
		FiscalCode: v.Pattern("fiscal_code", fiscalCode, domain.FiscalCodePattern, "FiscalCode"),
		Awards:     make([]api.Award, 0, len(rows)),
	}
	awards := v.At("awards")
	for _, row := range rows {
		if !row.HasAward() {
			continue
		}
		out.Awards = append(out.Awards, toAward(awards.Index(len(out.Awards)), row))
	}
	if err := v.Err(InvalidAwardsTitle); err != nil {
		return nil, err
	}
	return out, nil
}

func toAward(v *schema.Validator, row models.AwardRow) api.Award {
	return api.Award{
		AwardWinnerID:             v.RequiredInt("award_winner_id", row.AwardWinnerID),
		AwardWinnerAmount:         v.RequiredNonNegativeNumber("award_winner_amount", row.AwardWinnerAmount),
		AwardPeriodID:             v.RequiredInt("award_period_id", row.AwardPeriodID),
		AwardPeriodStart:          v.RequiredTimestamp("award_period_start", row.AwardPeriodStart),
		AwardPeriodEnd:            v.RequiredTimestamp("award_period_end", row.AwardPeriodEnd),
		AwardPeriodGracePeriod:    v.RequiredNonNegativeInt("award_period_grace_period", row.AwardPeriodGracePeriod),
		AwardPeriodCashbackPerc:   v.RequiredNonNegativeNumber("award_period_cashback_perc", row.AwardPeriodCashbackPerc),
		AwardPeriodCashbackMax:    v.RequiredNonNegativeNumber("award_period_cashback_max", row.AwardPeriodCashbackMax),
		AwardPeriodAmountMax:      v.RequiredNonNegativeNumber("award_period_amount_max", row.AwardPeriodAmountMax),
		AwardPeriodRankingMin:     v.RequiredNonNegativeNumber("award_period_ranking_min", row.AwardPeriodRankingMin),
		AwardPeriodTrxCashbackMax: v.RequiredNonNegativeNumber("award_period_trx_cashback_max", row.AwardPeriodTrxCashbackMax),
		AwardPeriodTrxEvalMax:     v.RequiredNonNegativeNumber("award_period_trx_eval_max", row.AwardPeriodTrxEvalMax),
		AwardPeriodTrxVolumeMin:   v.RequiredNonNegativeNumber("award_period_trx_volume_min", row.AwardPeriodTrxVolumeMin),
	}
}

// ToAPITransactionList maps each transaction row; dates become canonical
// timestamps and the remaining fields pass through. An empty input is a
// valid, empty list.
func ToAPITransactionList(rows []models.TransactionRow) (*api.BPDTransactionList, error) {
	v := schema.New()
	out := &api.BPDTransactionList{Transactions: make([]api.BPDTransaction, 0, len(rows))}
	txs := v.At("transactions")
	for i, row := range rows {
		out.Transactions = append(out.Transactions, toTransaction(txs.Index(i), row))
	}
	if err := v.Err(InvalidTransactionsTitle); err != nil {
		return nil, err
	}
	return out, nil
}

func toTransaction(v *schema.Validator, row models.TransactionRow) api.BPDTransaction {
	return api.BPDTransaction{
		Acquirer:       v.RequiredString("acquirer", row.Acquirer),
		CircuitType:    v.RequiredString("circuit_type", row.CircuitType),
		OperationType:  v.RequiredString("operation_type", row.OperationType),
		Hpan:           v.RequiredString("hpan", row.Hpan),
		IDTrxAcquirer:  v.RequiredString("id_trx_acquirer", row.IDTrxAcquirer),
		TrxTimestamp:   v.RequiredTimestamp("trx_timestamp", row.TrxTimestamp),
		InsertDate:     schema.OptionalTimestamp(row.InsertDate),
		UpdateDate:     schema.OptionalTimestamp(row.UpdateDate),
		Amount:         row.Amount,
		AmountCurrency: row.AmountCurrency,
		Mcc:            row.Mcc,
		AwardPeriodID:  row.AwardPeriodID,
	}
}

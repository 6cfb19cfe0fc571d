// Package bpdtest builds well-formed BPD rows for tests.
package bpdtest

import (
	"time"

	"bpd/internal/bpd/models"
	"bpd/pkg/domain"
)

// FiscalCode is a syntactically valid fiscal code used across tests.
const FiscalCode domain.FiscalCode = "RSSMRA80A01H501U"

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// Time is the fixed instant fixtures are stamped with.
var Time = time.Date(2026, 2, 3, 4, 5, 6, 789_000_000, time.UTC)

// CitizenRow returns a citizen row without a payment instrument.
func CitizenRow() models.CitizenRow {
	return models.CitizenRow{
		FiscalCode:         FiscalCode.String(),
		TimestampTC:        Ptr(Time),
		PayoffInstr:        Ptr("IT60X0542811101000000123456"),
		PayoffInstrType:    Ptr("IBAN"),
		Enabled:            Ptr(true),
		OnboardingDate:     Ptr(Time.Add(-24 * time.Hour)),
		OnboardingIssuerID: Ptr("APP_IO"),
	}
}

// CitizenRowWithInstrument returns a citizen row joined with one instrument.
func CitizenRowWithInstrument(hpan, status string) models.CitizenRow {
	row := CitizenRow()
	row.PaymentInstrumentHpan = Ptr(hpan)
	row.PaymentInstrumentStatus = Ptr(status)
	row.PaymentInstrumentEnabled = Ptr(true)
	row.PaymentInstrumentInsertDate = Ptr(Time)
	row.PaymentInstrumentChannel = Ptr("APP_IO")
	return row
}

// AwardRow returns a fully populated award row for period.
func AwardRow(period int64) models.AwardRow {
	return models.AwardRow{
		FiscalCode:                FiscalCode.String(),
		AwardPeriodID:             Ptr(period),
		AwardWinnerID:             Ptr(100 + period),
		AwardWinnerAmount:         Ptr(150.0),
		AwardPeriodStart:          Ptr(Time),
		AwardPeriodEnd:            Ptr(Time.AddDate(0, 6, 0)),
		AwardPeriodGracePeriod:    Ptr(int64(60)),
		AwardPeriodCashbackPerc:   Ptr(10.0),
		AwardPeriodCashbackMax:    Ptr(150.0),
		AwardPeriodAmountMax:      Ptr(1500.0),
		AwardPeriodRankingMin:     Ptr(50.0),
		AwardPeriodTrxCashbackMax: Ptr(15.0),
		AwardPeriodTrxEvalMax:     Ptr(150.0),
		AwardPeriodTrxVolumeMin:   Ptr(10.0),
	}
}

// EmptyAwardRow is the outer-join filler of a citizen with no awards.
func EmptyAwardRow() models.AwardRow {
	return models.AwardRow{FiscalCode: FiscalCode.String()}
}

// TransactionRow returns a populated transaction row.
func TransactionRow(id string) models.TransactionRow {
	return models.TransactionRow{
		FiscalCode:     FiscalCode.String(),
		Acquirer:       Ptr("32875"),
		CircuitType:    Ptr("01"),
		OperationType:  Ptr("00"),
		Hpan:           Ptr("hpan-1"),
		IDTrxAcquirer:  Ptr(id),
		TrxTimestamp:   Ptr(Time),
		InsertDate:     Ptr(Time),
		Amount:         Ptr(42.5),
		AmountCurrency: Ptr("978"),
		Mcc:            Ptr("5411"),
		AwardPeriodID:  Ptr(int64(1)),
	}
}

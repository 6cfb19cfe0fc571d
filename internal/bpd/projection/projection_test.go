package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bpd/internal/bpd/api"
	"bpd/internal/bpd/bpdtest"
	"bpd/internal/bpd/models"
	"bpd/pkg/schema"
	"bpd/pkg/testutil"
)

func TestToAPIBPDCitizen(t *testing.T) {
	testutil.Given(t, "a citizen with two valid instruments and one filler row", func(t *testing.T) {
		first := bpdtest.CitizenRowWithInstrument("hpan-a", api.PaymentInstrumentActive)
		filler := bpdtest.CitizenRow()
		second := bpdtest.CitizenRowWithInstrument("hpan-b", api.PaymentInstrumentInactive)
		second.Enabled = bpdtest.Ptr(false)

		citizen, err := ToAPIBPDCitizen([]models.CitizenRow{first, filler, second})
		require.NoError(t, err)

		testutil.Then(t, "payment methods are the predicate-satisfying rows in order", func(t *testing.T) {
			require.Len(t, citizen.PaymentMethods, 2)
			assert.Equal(t, "hpan-a", citizen.PaymentMethods[0].PaymentInstrumentHpan)
			assert.Equal(t, "hpan-b", citizen.PaymentMethods[1].PaymentInstrumentHpan)
		})
		testutil.Then(t, "scalars come from the first row", func(t *testing.T) {
			assert.True(t, citizen.CitizenEnabled)
			assert.Equal(t, bpdtest.FiscalCode.String(), citizen.FiscalCode)
			assert.Equal(t, "2026-02-03T04:05:06.789Z", citizen.TimestampTC)
			require.NotNil(t, citizen.PayOffInstr)
			assert.Equal(t, "IT60X0542811101000000123456", citizen.PayOffInstr.Iban)
		})
	})

	testutil.Given(t, "instruments with an unknown status or no hpan", func(t *testing.T) {
		deleted := bpdtest.CitizenRowWithInstrument("hpan-x", "DELETED")
		blank := bpdtest.CitizenRowWithInstrument("", api.PaymentInstrumentActive)

		citizen, err := ToAPIBPDCitizen([]models.CitizenRow{deleted, blank})
		require.NoError(t, err)
		testutil.Then(t, "they are not payment methods", func(t *testing.T) {
			assert.Empty(t, citizen.PaymentMethods)
			assert.NotNil(t, citizen.PaymentMethods)
		})
	})

	testutil.Given(t, "a first row missing required fields", func(t *testing.T) {
		row := bpdtest.CitizenRow()
		row.Enabled = nil
		row.TimestampTC = nil

		_, err := ToAPIBPDCitizen([]models.CitizenRow{row})
		testutil.Then(t, "a validation error lists them in declaration order", func(t *testing.T) {
			var ve *schema.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, InvalidCitizenTitle, ve.Title)
			assert.Equal(t, "citizen_enabled: is required\ntimestamp_tc: is required", ve.Report())
		})
	})

	testutil.Given(t, "a payoff type without an iban", func(t *testing.T) {
		row := bpdtest.CitizenRow()
		row.PayoffInstr = nil

		_, err := ToAPIBPDCitizen([]models.CitizenRow{row})
		testutil.Then(t, "the nested path is reported", func(t *testing.T) {
			var ve *schema.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "pay_off_instr.iban: is required", ve.Report())
		})
	})

	t.Run("no payoff instrument is omitted", func(t *testing.T) {
		row := bpdtest.CitizenRow()
		row.PayoffInstr = nil
		row.PayoffInstrType = nil
		citizen, err := ToAPIBPDCitizen([]models.CitizenRow{row})
		require.NoError(t, err)
		assert.Nil(t, citizen.PayOffInstr)
	})
}

func TestIsPaymentMethod(t *testing.T) {
	assert.True(t, IsPaymentMethod(bpdtest.CitizenRowWithInstrument("h", api.PaymentInstrumentActive)))
	assert.True(t, IsPaymentMethod(bpdtest.CitizenRowWithInstrument("h", api.PaymentInstrumentInactive)))
	assert.False(t, IsPaymentMethod(bpdtest.CitizenRowWithInstrument("h", "active")))
	assert.False(t, IsPaymentMethod(bpdtest.CitizenRow()))
}

func TestToAPIAwardsList(t *testing.T) {
	t.Run("skips the outer join filler row", func(t *testing.T) {
		list, err := ToAPIAwardsList(bpdtest.FiscalCode.String(), []models.AwardRow{bpdtest.EmptyAwardRow()})
		require.NoError(t, err)
		assert.Equal(t, bpdtest.FiscalCode.String(), list.FiscalCode)
		assert.Empty(t, list.Awards)
		assert.NotNil(t, list.Awards)
	})

	t.Run("no rows is an empty list", func(t *testing.T) {
		list, err := ToAPIAwardsList(bpdtest.FiscalCode.String(), nil)
		require.NoError(t, err)
		assert.Empty(t, list.Awards)
	})

	t.Run("maps each award", func(t *testing.T) {
		list, err := ToAPIAwardsList(bpdtest.FiscalCode.String(), []models.AwardRow{bpdtest.AwardRow(1), bpdtest.AwardRow(2)})
		require.NoError(t, err)
		require.Len(t, list.Awards, 2)
		assert.Equal(t, int64(2), list.Awards[1].AwardPeriodID)
		assert.Equal(t, int64(102), list.Awards[1].AwardWinnerID)
		assert.Equal(t, "2026-02-03T04:05:06.789Z", list.Awards[0].AwardPeriodStart)
	})

	t.Run("one malformed award fails the batch", func(t *testing.T) {
		bad := bpdtest.AwardRow(2)
		bad.AwardWinnerAmount = nil
		_, err := ToAPIAwardsList(bpdtest.FiscalCode.String(), []models.AwardRow{bpdtest.AwardRow(1), bad})

		var ve *schema.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, InvalidAwardsTitle, ve.Title)
		assert.Equal(t, "awards.1.award_winner_amount: is required", ve.Report())
	})
}

func TestToAPITransactionList(t *testing.T) {
	t.Run("empty input is an empty list", func(t *testing.T) {
		list, err := ToAPITransactionList(nil)
		require.NoError(t, err)
		assert.NotNil(t, list.Transactions)
		assert.Empty(t, list.Transactions)
	})

	t.Run("dates are canonical and optional fields pass through", func(t *testing.T) {
		row := bpdtest.TransactionRow("trx-1")
		row.UpdateDate = nil
		list, err := ToAPITransactionList([]models.TransactionRow{row})
		require.NoError(t, err)
		require.Len(t, list.Transactions, 1)
		tx := list.Transactions[0]
		assert.Equal(t, "trx-1", tx.IDTrxAcquirer)
		assert.Equal(t, "2026-02-03T04:05:06.789Z", tx.TrxTimestamp)
		assert.Nil(t, tx.UpdateDate)
		require.NotNil(t, tx.Amount)
		assert.Equal(t, 42.5, *tx.Amount)
	})

	t.Run("missing trx_timestamp is a validation failure", func(t *testing.T) {
		good := bpdtest.TransactionRow("trx-1")
		bad := bpdtest.TransactionRow("trx-2")
		bad.TrxTimestamp = nil
		bad.Hpan = nil
		_, err := ToAPITransactionList([]models.TransactionRow{good, bad})

		var ve *schema.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, InvalidTransactionsTitle, ve.Title)
		assert.Equal(t, "transactions.1.hpan: is required\ntransactions.1.trx_timestamp: is required", ve.Report())
	})
}

func TestProjectionIsDeterministic(t *testing.T) {
	rows := []models.CitizenRow{
		bpdtest.CitizenRowWithInstrument("hpan-a", api.PaymentInstrumentActive),
		bpdtest.CitizenRowWithInstrument("hpan-b", api.PaymentInstrumentActive),
	}
	a, err := ToAPIBPDCitizen(rows)
	require.NoError(t, err)
	b, err := ToAPIBPDCitizen(rows)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

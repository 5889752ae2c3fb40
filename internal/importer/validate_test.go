package importer

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/checkbook/internal/model"
)

var (
	debitAccount  = model.Account{Type: model.AccountTypeDebit, CreditLimit: decimal.Zero}
	creditHundred = model.Account{Type: model.AccountTypeCredit, CreditLimit: decimal.NewFromInt(-100)}
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func rec(row int, date, desc, amount string) Record {
	return Record{Row: row, Date: date, Description: desc, Amount: amount}
}

func TestValidateRecord(t *testing.T) {
	txn, err := ValidateRecord(rec(2, "2023-05-02", "Test transaction 2", "-25.50"))
	require.NoError(t, err)
	assert.Equal(t, "2023-05-02", model.FormatDate(txn.Date))
	assert.Equal(t, "Test transaction 2", txn.Description)
	assert.True(t, txn.Amount.Equal(dec("-25.5")))
}

func TestValidateRecord_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		fields []string
	}{
		{"date", rec(2, "", "x", "1"), []string{"date"}},
		{"description", rec(2, "2023-05-01", "", "1"), []string{"description"}},
		{"amount", rec(2, "2023-05-01", "x", ""), []string{"amount"}},
		{"all", rec(7, "", "", ""), []string{"date", "description", "amount"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateRecord(tt.record)
			require.ErrorIs(t, err, ErrTransactionDataMissing)

			var mde *MissingDataError
			require.True(t, errors.As(err, &mde))
			assert.Equal(t, tt.record.Row, mde.Row)
			assert.Equal(t, tt.fields, mde.Fields)
			assert.Contains(t, err.Error(), "missing required data")
		})
	}
}

func TestValidateRecord_Malformed(t *testing.T) {
	_, err := ValidateRecord(rec(3, "05/01/2023", "x", "1"))
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), "row 3 has an invalid date")

	_, err = ValidateRecord(rec(4, "2023-05-01", "x", "ten"))
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), "row 4 has an invalid amount")
}

func TestBuildBatch_WithinLimit(t *testing.T) {
	records := []Record{
		rec(2, "2023-05-01", "t1", "70.00"),
		rec(3, "2023-05-02", "t2", "-25.50"),
		rec(4, "2023-05-03", "t3", "10.00"),
	}
	batch, running, err := BuildBatch(records, debitAccount, decimal.Zero)
	require.NoError(t, err)
	assert.Len(t, batch, 3)
	assert.Equal(t, "54.50", running.StringFixed(2))
}

func TestBuildBatch_ExactlyAtLimit(t *testing.T) {
	batch, running, err := BuildBatch([]Record{rec(2, "2023-05-04", "t4", "-154.50")}, creditHundred, dec("54.50"))
	require.NoError(t, err)
	assert.Len(t, batch, 1)
	assert.True(t, running.Equal(dec("-100")))
}

func TestBuildBatch_DebitLimit(t *testing.T) {
	_, running, err := BuildBatch([]Record{rec(2, "2023-05-04", "t4", "-100.00")}, debitAccount, dec("54.50"))
	require.ErrorIs(t, err, ErrCreditLimitExceeded)
	assert.Equal(t, "Your account balance cannot be less than 0.00", err.Error())
	assert.Equal(t, "54.50", running.StringFixed(2), "running balance must fall back to the opening balance")

	var cle *CreditLimitError
	require.True(t, errors.As(err, &cle))
	assert.Equal(t, "-45.50", cle.Projected.StringFixed(2))
}

func TestBuildBatch_CreditLimit(t *testing.T) {
	_, _, err := BuildBatch([]Record{rec(2, "2023-05-05", "t5", "-60.00")}, creditHundred, dec("-45.50"))
	require.ErrorIs(t, err, ErrCreditLimitExceeded)
	assert.Equal(t, "You've reached your credit limit. Your account balance cannot be less than -100.00", err.Error())
}

func TestBuildBatch_AbortDiscardsValidPrefix(t *testing.T) {
	records := []Record{
		rec(2, "2023-05-01", "salary", "50.00"),
		rec(3, "2023-05-02", "rent", "-100.00"),
		rec(4, "2023-05-03", "refund", "500.00"),
	}
	batch, _, err := BuildBatch(records, debitAccount, decimal.Zero)
	require.ErrorIs(t, err, ErrCreditLimitExceeded)
	assert.Nil(t, batch)

	var cle *CreditLimitError
	require.True(t, errors.As(err, &cle))
	assert.Equal(t, 3, cle.Row)
}

func TestBuildBatch_MissingDataAfterValidRows(t *testing.T) {
	records := []Record{
		rec(2, "2023-05-01", "salary", "50.00"),
		rec(3, "2023-05-02", "", "-10.00"),
	}
	batch, _, err := BuildBatch(records, debitAccount, decimal.Zero)
	require.ErrorIs(t, err, ErrTransactionDataMissing)
	assert.Nil(t, batch)
}

func TestBuildBatch_RunningBalanceUsesFileOrder(t *testing.T) {
	// The deposit comes after the withdrawal in the file, so the limit trips
	// even though the dates would allow it.
	records := []Record{
		rec(2, "2023-05-02", "withdrawal", "-30.00"),
		rec(3, "2023-05-01", "deposit", "100.00"),
	}
	_, _, err := BuildBatch(records, debitAccount, decimal.Zero)
	assert.ErrorIs(t, err, ErrCreditLimitExceeded)
}

func TestBuildBatch_Empty(t *testing.T) {
	batch, running, err := BuildBatch(nil, debitAccount, dec("12.34"))
	require.NoError(t, err)
	assert.Empty(t, batch)
	assert.Equal(t, "12.34", running.StringFixed(2))
}

func TestValidateRecord_AmountBeyondFloatRange(t *testing.T) {
	_, err := ValidateRecord(rec(2, "2023-05-01", "huge", "1"+strings.Repeat("0", 400)))
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.ErrorIs(t, err, model.ErrAmountOutOfRange)
	assert.Contains(t, err.Error(), "row 2 has an invalid amount")
}

func TestBuildBatch_RunningBalanceBeyondFloatRange(t *testing.T) {
	records := []Record{
		rec(2, "2023-05-01", "big", "1e308"),
		rec(3, "2023-05-02", "bigger", "1e308"),
	}
	batch, running, err := BuildBatch(records, debitAccount, decimal.Zero)
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.ErrorIs(t, err, model.ErrAmountOutOfRange)
	assert.Contains(t, err.Error(), "row 3")
	assert.Nil(t, batch)
	assert.True(t, running.IsZero())
}

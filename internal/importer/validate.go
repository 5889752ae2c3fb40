package importer

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/checkbook/internal/model"
)

// ValidateRecord checks that every field is present and parseable and
// converts the record into a Transaction.
func ValidateRecord(rec Record) (model.Transaction, error) {
	var missing []string
	if rec.Date == "" {
		missing = append(missing, ColumnDate)
	}
	if rec.Description == "" {
		missing = append(missing, ColumnDescription)
	}
	if rec.Amount == "" {
		missing = append(missing, ColumnAmount)
	}
	if len(missing) > 0 {
		return model.Transaction{}, &MissingDataError{Row: rec.Row, Fields: missing}
	}

	date, err := model.ParseDate(rec.Date)
	if err != nil {
		return model.Transaction{}, &MalformedRecordError{Row: rec.Row, Field: ColumnDate, Err: err}
	}
	amount, err := decimal.NewFromString(rec.Amount)
	if err == nil {
		err = model.CheckAmount(amount)
	}
	if err != nil {
		return model.Transaction{}, &MalformedRecordError{Row: rec.Row, Field: ColumnAmount, Err: err}
	}

	return model.Transaction{Date: date, Description: rec.Description, Amount: amount}, nil
}

// BuildBatch validates records in order while simulating the running
// balance from opening. The first invalid or limit-breaking record aborts
// the whole batch.
func BuildBatch(records []Record, acct model.Account, opening decimal.Decimal) ([]model.Transaction, decimal.Decimal, error) {
	running := opening
	batch := make([]model.Transaction, 0, len(records))
	for _, rec := range records {
		txn, err := ValidateRecord(rec)
		if err != nil {
			return nil, opening, err
		}

		projected := running.Add(txn.Amount)
		if err := model.CheckAmount(projected); err != nil {
			return nil, opening, &MalformedRecordError{Row: rec.Row, Field: ColumnAmount, Err: fmt.Errorf("running balance: %w", err)}
		}
		if projected.LessThan(acct.CreditLimit) {
			return nil, opening, &CreditLimitError{
				Row:         rec.Row,
				AccountType: acct.Type,
				Limit:       acct.CreditLimit,
				Projected:   projected,
			}
		}

		batch = append(batch, txn)
		running = projected
	}
	return batch, running, nil
}

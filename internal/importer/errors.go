package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/checkbook/internal/model"
)

// Conditions that abort an import. Every one of them leaves the ledger untouched.
var (
	ErrFileAccess             = errors.New("file access error")
	ErrTransactionDataMissing = errors.New("transaction data missing")
	ErrMalformedRecord        = errors.New("malformed transaction record")
	ErrCreditLimitExceeded    = errors.New("credit limit exceeded")
	ErrAccountNotConfigured   = errors.New("account not configured")
)

// FileError reports a file that could not be opened or read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return "Could not open/read file. Make sure file exists within path: " + e.Path
}

func (e *FileError) Unwrap() []error { return []error{ErrFileAccess, e.Err} }

// MissingDataError reports a record lacking one or more required fields.
type MissingDataError struct {
	Row    int
	Fields []string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("Transaction on row %d is missing required data (%s). Please check your file and try again.",
		e.Row, strings.Join(e.Fields, ", "))
}

func (e *MissingDataError) Unwrap() error { return ErrTransactionDataMissing }

// MalformedRecordError reports a field that is present but cannot be parsed.
type MalformedRecordError struct {
	Row   int
	Field string
	Err   error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("Transaction on row %d has an invalid %s: %v", e.Row, e.Field, e.Err)
}

func (e *MalformedRecordError) Unwrap() []error { return []error{ErrMalformedRecord, e.Err} }

// CreditLimitError reports a record that would take the running balance
// below the account's credit limit.
type CreditLimitError struct {
	Row         int
	AccountType model.AccountType
	Limit       decimal.Decimal
	Projected   decimal.Decimal
}

func (e *CreditLimitError) Error() string {
	if e.AccountType == model.AccountTypeDebit {
		return fmt.Sprintf("Your account balance cannot be less than %s", e.Limit.StringFixed(2))
	}
	return fmt.Sprintf("You've reached your credit limit. Your account balance cannot be less than %s", e.Limit.StringFixed(2))
}

func (e *CreditLimitError) Unwrap() error { return ErrCreditLimitExceeded }

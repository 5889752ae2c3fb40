package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType distinguishes debit accounts from credit accounts.
type AccountType string

const (
	AccountTypeDebit  AccountType = "debit"
	AccountTypeCredit AccountType = "credit"
)

// ErrInvalidAccount is returned when an account's type or limit is not acceptable.
var ErrInvalidAccount = errors.New("invalid account")

// ParseAccountType accepts "debit" or "credit" in any letter case.
func ParseAccountType(s string) (AccountType, error) {
	switch t := AccountType(strings.ToLower(strings.TrimSpace(s))); t {
	case AccountTypeDebit, AccountTypeCredit:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown account type %q (want debit or credit)", ErrInvalidAccount, s)
	}
}

// Account is the singleton account row. CreditLimit is the lowest balance
// the account may reach: 0 for debit accounts, negative for credit accounts.
type Account struct {
	Type        AccountType
	CreditLimit decimal.Decimal
}

// Validate checks the limit against the account type.
func (a Account) Validate() error {
	if err := CheckAmount(a.CreditLimit); err != nil {
		return fmt.Errorf("%w: credit limit: %v", ErrInvalidAccount, err)
	}
	switch a.Type {
	case AccountTypeDebit:
		if !a.CreditLimit.IsZero() {
			return fmt.Errorf("%w: debit account limit must be 0.00, got %s", ErrInvalidAccount, a.CreditLimit.StringFixed(2))
		}
	case AccountTypeCredit:
		if !a.CreditLimit.IsNegative() {
			return fmt.Errorf("%w: credit limit must be negative, got %s", ErrInvalidAccount, a.CreditLimit.StringFixed(2))
		}
	default:
		return fmt.Errorf("%w: unknown account type %q", ErrInvalidAccount, a.Type)
	}
	return nil
}

// String renders the account for display, e.g. "credit (limit -1500.00)".
func (a Account) String() string {
	return fmt.Sprintf("%s (limit %s)", a.Type, a.CreditLimit.StringFixed(2))
}

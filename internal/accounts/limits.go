package accounts

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/checkbook/internal/model"
)

// NewAccount builds an account from a type name and an optional limit.
// Debit accounts always get a 0.00 limit; credit accounts need a negative one.
func NewAccount(accountType, limit string) (model.Account, error) {
	typ, err := model.ParseAccountType(accountType)
	if err != nil {
		return model.Account{}, err
	}

	limit = strings.TrimSpace(limit)
	acct := model.Account{Type: typ, CreditLimit: decimal.Zero}

	switch typ {
	case model.AccountTypeDebit:
		if limit != "" {
			l, err := decimal.NewFromString(limit)
			if err != nil || !l.IsZero() {
				return model.Account{}, fmt.Errorf("%w: debit accounts cannot have a credit limit", model.ErrInvalidAccount)
			}
		}
	case model.AccountTypeCredit:
		if limit == "" {
			return model.Account{}, fmt.Errorf("%w: credit accounts need a credit limit (e.g. -1500.00)", model.ErrInvalidAccount)
		}
		l, err := decimal.NewFromString(limit)
		if err != nil {
			return model.Account{}, fmt.Errorf("%w: parsing credit limit %q: %v", model.ErrInvalidAccount, limit, err)
		}
		acct.CreditLimit = l
	}

	if err := acct.Validate(); err != nil {
		return model.Account{}, err
	}
	return acct, nil
}

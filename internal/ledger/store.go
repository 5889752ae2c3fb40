// Package ledger owns the persisted account row and the append-only
// transaction relation, and answers balance and range queries over them.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/checkbook/internal/model"
	"github.com/cleared-dev/checkbook/internal/sqlstore"
)

const (
	createAccountTable     = "CREATE TABLE IF NOT EXISTS account(type TEXT, credit_limit REAL)"
	createTransactionTable = "CREATE TABLE IF NOT EXISTS account_transaction(date TEXT NOT NULL, description TEXT, amount REAL NOT NULL)"

	selectAccount        = "SELECT type, credit_limit FROM account LIMIT 1"
	deleteAccount        = "DELETE FROM account"
	insertAccount        = "INSERT INTO account(type, credit_limit) VALUES (?, ?)"
	selectBalance        = "SELECT SUM(amount) FROM account_transaction WHERE date <= ?"
	selectRange          = "SELECT date, description, amount FROM account_transaction WHERE date BETWEEN ? AND ?"
	insertTransaction    = "INSERT INTO account_transaction(date, description, amount) VALUES (?, ?, ?)"
	balanceDecimalPlaces = 2
)

// ErrAccountNotFound is returned when the account row has not been created yet.
var ErrAccountNotFound = errors.New("account not found")

// Store reads and appends ledger rows through a statement gateway.
type Store struct {
	gw *sqlstore.Gateway
}

// NewStore creates a Store on top of gw.
func NewStore(gw *sqlstore.Gateway) *Store {
	return &Store{gw: gw}
}

// EnsureSchema creates the account and transaction tables if they are missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range []string{createAccountTable, createTransactionTable} {
		if err := s.gw.Execute(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// Account returns the singleton account row.
func (s *Store) Account(ctx context.Context) (model.Account, error) {
	var typ sql.NullString
	var limit sql.NullFloat64
	err := s.gw.FetchOne(ctx, selectAccount).Scan(&typ, &limit)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("reading account: %w", err)
	}

	creditLimit, err := model.AmountFromFloat(limit.Float64)
	if err != nil {
		return model.Account{}, fmt.Errorf("reading account: %w", err)
	}
	acct := model.Account{
		Type:        model.AccountType(typ.String),
		CreditLimit: creditLimit,
	}
	// Rows written by older setups may lack a type; the limit decides it.
	if acct.Type == "" {
		acct.Type = model.AccountTypeDebit
		if acct.CreditLimit.IsNegative() {
			acct.Type = model.AccountTypeCredit
		}
	}
	return acct, nil
}

// SetAccount replaces the singleton account row.
func (s *Store) SetAccount(ctx context.Context, acct model.Account) error {
	if err := acct.Validate(); err != nil {
		return err
	}
	err := s.gw.Transaction(ctx, func(tx *sqlstore.Gateway) error {
		if err := tx.Execute(ctx, deleteAccount); err != nil {
			return err
		}
		return tx.Execute(ctx, insertAccount, string(acct.Type), acct.CreditLimit.InexactFloat64())
	})
	if err != nil {
		return fmt.Errorf("writing account: %w", err)
	}
	return nil
}

// Balance sums every amount dated on or before asOf, rounded to cents.
// It is zero when no rows match.
func (s *Store) Balance(ctx context.Context, asOf time.Time) (decimal.Decimal, error) {
	var sum sql.NullFloat64
	if err := s.gw.FetchOne(ctx, selectBalance, model.FormatDate(asOf)).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("computing balance as of %s: %w", model.FormatDate(asOf), err)
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	bal, err := model.AmountFromFloat(sum.Float64)
	if err != nil {
		return decimal.Zero, fmt.Errorf("computing balance as of %s: %w", model.FormatDate(asOf), err)
	}
	return bal.Round(balanceDecimalPlaces), nil
}

// TransactionsInRange returns the rows dated within [start, end], in the
// order the store yields them (insertion order for SQLite).
func (s *Store) TransactionsInRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	rows, err := s.gw.FetchAll(ctx, selectRange, model.FormatDate(start), model.FormatDate(end))
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		var date string
		var desc sql.NullString
		var amount float64
		if err := rows.Scan(&date, &desc, &amount); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		d, err := model.ParseDate(date)
		if err != nil {
			return nil, err
		}
		amt, err := model.AmountFromFloat(amount)
		if err != nil {
			return nil, fmt.Errorf("listing transactions: %w", err)
		}
		txns = append(txns, model.Transaction{
			Date:        d,
			Description: desc.String,
			Amount:      amt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	return txns, nil
}

// AppendBatch persists txns as one unit: all rows are written or none are.
func (s *Store) AppendBatch(ctx context.Context, txns []model.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	rows := make([][]any, len(txns))
	for i, txn := range txns {
		if err := model.CheckAmount(txn.Amount); err != nil {
			return fmt.Errorf("appending transaction %d: %w", i+1, err)
		}
		rows[i] = []any{model.FormatDate(txn.Date), txn.Description, txn.Amount.InexactFloat64()}
	}
	if err := s.gw.Insert(ctx, insertTransaction, rows...); err != nil {
		return fmt.Errorf("appending %d transactions: %w", len(txns), err)
	}
	return nil
}

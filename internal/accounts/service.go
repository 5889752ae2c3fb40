package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cleared-dev/checkbook/internal/ledger"
	"github.com/cleared-dev/checkbook/internal/model"
)

// Store is the part of the ledger store that holds the account row.
type Store interface {
	EnsureSchema(ctx context.Context) error
	Account(ctx context.Context) (model.Account, error)
	SetAccount(ctx context.Context, acct model.Account) error
}

// Service sets up and reconfigures the single account.
type Service struct {
	store Store
	log   *slog.Logger
}

// NewService creates a Service. A nil logger means slog.Default().
func NewService(store Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, log: log}
}

// Setup creates the schema and, if no account exists yet, the account row.
// It returns the account in effect and whether it was created by this call.
func (s *Service) Setup(ctx context.Context, acct model.Account) (model.Account, bool, error) {
	if err := s.store.EnsureSchema(ctx); err != nil {
		return model.Account{}, false, err
	}

	existing, err := s.store.Account(ctx)
	if err == nil {
		s.log.Info("account already configured", "type", existing.Type, "credit_limit", existing.CreditLimit.StringFixed(2))
		return existing, false, nil
	}
	if !errors.Is(err, ledger.ErrAccountNotFound) {
		return model.Account{}, false, err
	}

	if err := s.store.SetAccount(ctx, acct); err != nil {
		return model.Account{}, false, fmt.Errorf("creating account: %w", err)
	}
	s.log.Info("account created", "type", acct.Type, "credit_limit", acct.CreditLimit.StringFixed(2))
	return acct, true, nil
}

// Reconfigure replaces the account's type and limit. The account must exist.
func (s *Service) Reconfigure(ctx context.Context, acct model.Account) error {
	prev, err := s.Current(ctx)
	if err != nil {
		return err
	}
	if err := s.store.SetAccount(ctx, acct); err != nil {
		return fmt.Errorf("reconfiguring account: %w", err)
	}
	s.log.Info("account reconfigured",
		"from_type", prev.Type, "from_limit", prev.CreditLimit.StringFixed(2),
		"type", acct.Type, "credit_limit", acct.CreditLimit.StringFixed(2))
	return nil
}

// Current returns the configured account.
func (s *Service) Current(ctx context.Context) (model.Account, error) {
	acct, err := s.store.Account(ctx)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return model.Account{}, fmt.Errorf("%w: run `checkbook init` first", err)
	}
	return acct, err
}

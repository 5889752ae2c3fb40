package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/checkbook/internal/ledger"
	"github.com/cleared-dev/checkbook/internal/model"
)

// Ledger is what the pipeline needs from the ledger store.
type Ledger interface {
	Account(ctx context.Context) (model.Account, error)
	Balance(ctx context.Context, asOf time.Time) (decimal.Decimal, error)
	AppendBatch(ctx context.Context, txns []model.Transaction) error
}

// Status is the outcome of one import call.
type Status string

const (
	StatusImported Status = "imported"
	StatusEmpty    Status = "empty"
	StatusAborted  Status = "aborted"
)

// Result describes one import call. Err is set only when Status is StatusAborted.
type Result struct {
	BatchID  string
	File     string
	Status   Status
	Imported []model.Transaction
	Balance  decimal.Decimal // balance as of today after the call; zero when aborted
	Err      error

	// BalanceErr is set when the batch was handled but the balance could not
	// be read afterwards. Balance is meaningless then.
	BalanceErr error
}

// Message is the human-readable outcome reported to the caller.
func (r Result) Message() string {
	switch r.Status {
	case StatusImported:
		if r.BalanceErr != nil {
			return fmt.Sprintf("Transactions imported successfully! The current balance could not be read: %v", r.BalanceErr)
		}
		return fmt.Sprintf("Transactions imported successfully! Current balance is %s.", r.Balance.StringFixed(2))
	case StatusEmpty:
		return "No transactions were imported."
	default:
		if r.Err == nil {
			return "Import aborted."
		}
		return r.Err.Error()
	}
}

// ImportOptions tunes a single import call.
type ImportOptions struct {
	// AsOf is the date whose balance seeds the running balance. Zero means today.
	AsOf time.Time
}

// Pipeline turns delimited files into validated, atomically persisted batches.
type Pipeline struct {
	ledger Ledger
	parser Parser
	now    func() time.Time
	log    *slog.Logger

	// mu serializes read balance -> validate -> persist across callers.
	mu sync.Mutex
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock sets the source of "today". Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithLogger sets the pipeline logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// NewPipeline creates a Pipeline reading files with parser and writing to l.
func NewPipeline(l Ledger, parser Parser, opts ...Option) *Pipeline {
	p := &Pipeline{
		ledger: l,
		parser: parser,
		now:    time.Now,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Today returns the current calendar date according to the pipeline clock.
func (p *Pipeline) Today() time.Time {
	return model.Day(p.now())
}

// Import reads path and persists its records as one batch, or nothing at all.
// Failures are reported in the Result, never returned or panicked.
func (p *Pipeline) Import(ctx context.Context, path string, opts ImportOptions) Result {
	res := Result{BatchID: uuid.NewString(), File: path}
	log := p.log.With("batch", res.BatchID, "file", path)

	p.mu.Lock()
	defer p.mu.Unlock()

	log.Info("import started", "format", p.parser.Format())
	batch, err := p.prepare(ctx, path, opts)
	if err != nil {
		return p.abort(log, res, err)
	}

	today := p.Today()
	if len(batch) > 0 {
		if err := p.ledger.AppendBatch(ctx, batch); err != nil {
			return p.abort(log, res, fmt.Errorf("could not save transactions: %w", err))
		}
	}

	res.Imported = batch
	balance, err := p.ledger.Balance(ctx, today)
	if err != nil {
		// The batch is already committed; report it but keep the outcome.
		log.Error("reading balance after import", "error", err)
		res.BalanceErr = err
	} else {
		res.Balance = balance
	}

	if len(batch) == 0 {
		res.Status = StatusEmpty
		log.Info("import finished with no transactions")
		return res
	}
	res.Status = StatusImported
	log.Info("import committed", "rows", len(batch), "balance", res.Balance.StringFixed(2))
	return res
}

// prepare reads, validates and limit-checks the file without writing anything.
func (p *Pipeline) prepare(ctx context.Context, path string, opts ImportOptions) ([]model.Transaction, error) {
	records, err := p.readFile(path)
	if err != nil {
		return nil, err
	}

	acct, err := p.ledger.Account(ctx)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return nil, fmt.Errorf("%w: run `checkbook init` first", ErrAccountNotConfigured)
	}
	if err != nil {
		return nil, fmt.Errorf("reading account: %w", err)
	}

	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = p.Today()
	}
	opening, err := p.ledger.Balance(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("reading opening balance: %w", err)
	}

	batch, _, err := BuildBatch(records, acct, opening)
	return batch, err
}

func (p *Pipeline) readFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	defer f.Close()

	records, err := p.parser.Parse(f)
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, &MalformedRecordError{Row: perr.Line, Field: "line", Err: err}
		}
		return nil, &FileError{Path: path, Err: err}
	}
	return records, nil
}

func (p *Pipeline) abort(log *slog.Logger, res Result, err error) Result {
	res.Status = StatusAborted
	res.Err = err
	log.Warn("import aborted", "error", err)
	return res
}

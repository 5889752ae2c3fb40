package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/checkbook/internal/buildinfo"
	"github.com/cleared-dev/checkbook/internal/config"
	"github.com/cleared-dev/checkbook/internal/ledger"
	"github.com/cleared-dev/checkbook/internal/logging"
	"github.com/cleared-dev/checkbook/internal/sqlstore"
)

// errReported marks a failure whose message was already printed.
var errReported = errors.New("reported")

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	cfg        *config.Config
	baseDir    string
	log        *slog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "checkbook",
		Short:   "Single-account bank ledger with validated file imports",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(a.configPath)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath, "config file")

	rootCmd.AddCommand(newInitCommand(a))
	rootCmd.AddCommand(newAccountCommand(a))
	rootCmd.AddCommand(newBalanceCommand(a))
	rootCmd.AddCommand(newTransactionsCommand(a))
	rootCmd.AddCommand(newImportCommand(a))

	return rootCmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			printFailure(os.Stderr, "Error: "+err.Error())
		}
		return 1
	}
	return 0
}

// load resolves the config at path and sets up logging. Relative paths in
// the config are taken relative to the config file's directory.
func (a *app) load(path string) error {
	cfg, err := config.Resolve(path)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	a.configPath = abs
	a.cfg = cfg
	a.baseDir = filepath.Dir(abs)
	a.log = logging.Setup(os.Stderr, cfg.Log)
	return nil
}

func (a *app) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.baseDir, p)
}

func (a *app) dsn() string {
	dsn := a.cfg.Database.DSN
	if a.cfg.Database.Driver != sqlstore.DriverSQLite || dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return dsn
	}
	return a.path(dsn)
}

// openStore connects to the configured database and makes sure the schema
// exists. The returned func closes the connection.
func (a *app) openStore(cmd *cobra.Command) (*ledger.Store, func(), error) {
	gw, err := sqlstore.Open(sqlstore.Options{
		Driver: a.cfg.Database.Driver,
		DSN:    a.dsn(),
		Debug:  a.cfg.Log.Level == "debug",
		Logger: a.log,
	})
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := gw.Close(); err != nil {
			a.log.Warn("closing database", "error", err)
		}
	}

	store := ledger.NewStore(gw)
	if err := store.EnsureSchema(cmd.Context()); err != nil {
		closeFn()
		return nil, nil, err
	}
	return store, closeFn, nil
}

var (
	successColor = color.New(color.FgGreen)
	infoColor    = color.New(color.FgYellow)
	failureColor = color.New(color.FgRed)
)

func printSuccess(w io.Writer, msg string) { _, _ = successColor.Fprintln(w, msg) }
func printInfo(w io.Writer, msg string)    { _, _ = infoColor.Fprintln(w, msg) }
func printFailure(w io.Writer, msg string) { _, _ = failureColor.Fprintln(w, msg) }

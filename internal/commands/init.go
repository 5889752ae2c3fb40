package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/checkbook/internal/accounts"
	"github.com/cleared-dev/checkbook/internal/config"
)

func newInitCommand(a *app) *cobra.Command {
	var accountType string
	var creditLimit string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a ledger and its account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && !cmd.Flags().Changed("config") {
				absDir, err := filepath.Abs(args[0])
				if err != nil {
					return fmt.Errorf("resolving path: %w", err)
				}
				if err := os.MkdirAll(absDir, 0o755); err != nil {
					return fmt.Errorf("creating directory: %w", err)
				}
				if err := a.load(filepath.Join(absDir, config.DefaultPath)); err != nil {
					return err
				}
			}
			return runInit(cmd, a, accountType, creditLimit)
		},
	}

	cmd.Flags().StringVar(&accountType, "type", "debit", "account type (debit or credit)")
	cmd.Flags().StringVar(&creditLimit, "credit-limit", "", "lowest allowed balance for credit accounts, e.g. -1500.00")

	return cmd
}

func runInit(cmd *cobra.Command, a *app, accountType, creditLimit string) error {
	acct, err := accounts.NewAccount(accountType, creditLimit)
	if err != nil {
		return err
	}

	// Create directory structure.
	dirs := []string{
		a.path(a.cfg.Import.Inbox),
		a.path(a.cfg.Import.Processed),
		filepath.Dir(a.path(a.cfg.Import.Log)),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write checkbook.yaml unless one is already there.
	if _, err := os.Stat(a.configPath); errors.Is(err, fs.ErrNotExist) {
		if err := config.Save(a.configPath, a.cfg); err != nil {
			return err
		}
	}

	store, closeStore, err := a.openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	current, created, err := accounts.NewService(store, a.log).Setup(cmd.Context(), acct)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !created {
		printInfo(out, fmt.Sprintf("Ledger already initialized at %s. Account: %s", a.baseDir, current))
		return nil
	}
	printSuccess(out, fmt.Sprintf("Initialized ledger at %s. Account: %s", a.baseDir, current))
	return nil
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/checkbook/internal/accounts"
)

func newAccountCommand(a *app) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Show the account type and credit limit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			acct, err := accounts.NewService(store, a.log).Current(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account: %s\n", acct)
			return nil
		},
	}
	accountCmd.AddCommand(newAccountSetCommand(a))
	return accountCmd
}

func newAccountSetCommand(a *app) *cobra.Command {
	var accountType string
	var creditLimit string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the account type and credit limit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := accounts.NewAccount(accountType, creditLimit)
			if err != nil {
				return err
			}

			store, closeStore, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := accounts.NewService(store, a.log).Reconfigure(cmd.Context(), acct); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Account updated: %s", acct))
			return nil
		},
	}

	cmd.Flags().StringVar(&accountType, "type", "", "account type (debit or credit)")
	_ = cmd.MarkFlagRequired("type")
	cmd.Flags().StringVar(&creditLimit, "credit-limit", "", "lowest allowed balance for credit accounts, e.g. -1500.00")

	return cmd
}

package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/checkbook/internal/model"
)

func newBalanceCommand(a *app) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the balance as of a date (default today)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asOf, err := dateFlag(date)
			if err != nil {
				return err
			}

			store, closeStore, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			bal, err := store.Balance(cmd.Context(), asOf)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Balance as of %s: %s\n", model.FormatDate(asOf), bal.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "balance date, YYYY-MM-DD")

	return cmd
}

func newTransactionsCommand(a *app) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List transactions dated within a range (default today)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := dateFlag(from)
			if err != nil {
				return err
			}
			end, err := dateFlag(to)
			if err != nil {
				return err
			}

			store, closeStore, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			txns, err := store.TransactionsInRange(cmd.Context(), start, end)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(txns) == 0 {
				printInfo(out, fmt.Sprintf("No transactions between %s and %s.", model.FormatDate(start), model.FormatDate(end)))
				return nil
			}
			fmt.Fprintln(out, "date;description;amount")
			for _, txn := range txns {
				fmt.Fprintf(out, "%s;%s;%s\n", model.FormatDate(txn.Date), txn.Description, txn.Amount.StringFixed(2))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last date, YYYY-MM-DD")

	return cmd
}

// dateFlag parses a YYYY-MM-DD flag value; empty means today.
func dateFlag(v string) (time.Time, error) {
	if v == "" {
		return model.Day(time.Now()), nil
	}
	return model.ParseDate(v)
}

package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/checkbook/internal/importer"
	"github.com/cleared-dev/checkbook/internal/importlog"
	"github.com/cleared-dev/checkbook/internal/model"
)

func newImportCommand(a *app) *cobra.Command {
	var asOf string
	var inbox bool

	importCmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Import semicolon-delimited transaction files",
		Long: "Import transaction files with the header date;description;amount.\n" +
			"Each file is validated and persisted as one batch: either every row\n" +
			"is saved or none is.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if inbox == (len(args) > 0) {
				return errors.New("pass either one or more files or --inbox")
			}

			var opts importer.ImportOptions
			if asOf != "" {
				d, err := model.ParseDate(asOf)
				if err != nil {
					return err
				}
				opts.AsOf = d
			}
			return runImport(cmd, a, args, inbox, opts)
		},
	}

	importCmd.Flags().StringVar(&asOf, "as-of", "", "date whose balance seeds the limit check, YYYY-MM-DD (default today)")
	importCmd.Flags().BoolVar(&inbox, "inbox", false, "import every .csv file in the configured inbox")
	importCmd.AddCommand(newImportLogCommand(a))

	return importCmd
}

func runImport(cmd *cobra.Command, a *app, files []string, inbox bool, opts importer.ImportOptions) error {
	parser, err := importer.BuiltinRegistry().Lookup(a.cfg.Import.Format)
	if err != nil {
		return fmt.Errorf("config import.format: %w", err)
	}

	store, closeStore, err := a.openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	pipeline := importer.NewPipeline(store, parser, importer.WithLogger(a.log))

	var results []importer.Result
	if inbox {
		results, err = pipeline.ImportInbox(cmd.Context(), a.path(a.cfg.Import.Inbox), a.path(a.cfg.Import.Processed), opts)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			printInfo(cmd.OutOrStdout(), "No files waiting in the inbox.")
			return nil
		}
	} else {
		for _, f := range files {
			results = append(results, pipeline.Import(cmd.Context(), f, opts))
		}
	}

	if err := importlog.Append(a.path(a.cfg.Import.Log), logEntries(results)); err != nil {
		a.log.Warn("could not write import log", "error", err)
	}

	aborted := reportResults(cmd.OutOrStdout(), results, inbox || len(files) > 1)
	if aborted > 0 {
		return errReported
	}
	return nil
}

func reportResults(w io.Writer, results []importer.Result, withFile bool) int {
	aborted := 0
	for _, res := range results {
		msg := res.Message()
		if withFile {
			msg = filepath.Base(res.File) + ": " + msg
		}
		switch res.Status {
		case importer.StatusImported:
			printSuccess(w, msg)
		case importer.StatusEmpty:
			printInfo(w, msg)
		default:
			aborted++
			printFailure(w, msg)
		}
	}
	return aborted
}

func logEntries(results []importer.Result) []importlog.Entry {
	now := time.Now().UTC().Truncate(time.Second)
	entries := make([]importlog.Entry, 0, len(results))
	for _, res := range results {
		e := importlog.Entry{
			Timestamp: now,
			BatchID:   res.BatchID,
			File:      res.File,
			Outcome:   string(res.Status),
			Rows:      len(res.Imported),
			Message:   res.Message(),
		}
		if res.Status != importer.StatusAborted && res.BalanceErr == nil {
			e.Balance = res.Balance.StringFixed(2)
		}
		entries = append(entries, e)
	}
	return entries
}

func newImportLogCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "List past import calls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := importlog.Read(a.path(a.cfg.Import.Log))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				printInfo(out, "No imports recorded yet.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tOUTCOME\tROWS\tBALANCE\tFILE\tMESSAGE")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
					e.Timestamp.Format(time.RFC3339), e.Outcome, e.Rows, e.Balance, e.File, e.Message)
			}
			return tw.Flush()
		},
	}
}

package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/statementlens/statementlens/internal/importer"
	"github.com/statementlens/statementlens/internal/ledger"
	"github.com/statementlens/statementlens/internal/model"
)

func newParseCommand(opts *globalOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "parse <file>...",
		Short: "Parse statement files and print their transactions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.setup(".")
			if err != nil {
				return err
			}
			reg, err := newRegistry(cfg)
			if err != nil {
				return err
			}

			results, err := importer.ParseFiles(cmd.Context(), reg, args, cfg.Import.Concurrency)
			if err != nil {
				return err
			}

			var txns []model.Transaction
			failed := 0
			for _, fr := range results {
				if fr.Err != nil {
					failed++
					fmt.Fprintf(os.Stderr, "%s: %v\n", fr.Path, fr.Err)
					continue
				}
				txns = append(txns, fr.Transactions...)
			}
			if failed == len(results) {
				return errors.New("no file could be parsed")
			}

			return printTransactions(cmd.OutOrStdout(), format, txns)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json or csv")
	return cmd
}

func printTransactions(w io.Writer, format string, txns []model.Transaction) error {
	switch format {
	case "json":
		if txns == nil {
			txns = []model.Transaction{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(txns)
	case "csv":
		return ledger.WriteTransactions(w, txns)
	case "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "DATE\tAMOUNT\tBANK\tDESCRIPTION")
		for _, tx := range txns {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				tx.Date.Format("2006-01-02"), tx.Amount.StringFixed(2), tx.Bank, tx.Description)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

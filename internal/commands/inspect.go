package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/statementlens/statementlens/internal/importer"
)

func newInspectCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show how a statement file's header and bank were recognised",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.setup(".")
			if err != nil {
				return err
			}
			reg, err := newRegistry(cfg)
			if err != nil {
				return err
			}

			path := args[0]
			p, err := reg.ForFile(path)
			if err != nil {
				return err
			}
			in, ok := p.(importer.Inspector)
			if !ok {
				return fmt.Errorf("%s files have no header to inspect", p.Format())
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			res, err := in.Inspect(data, 0)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Meta.Row >= 0 && len(res.Meta.Headers) > 0 && res.Meta.Headers[0].RawText != "" {
				fmt.Fprintf(out, "Header row:   %d\n", res.Meta.Row)
			} else {
				fmt.Fprintln(out, "Header row:   none")
			}
			fmt.Fprintf(out, "Bank:         %s (%s)\n", res.Ident.Bank, res.Ident.Source)
			if res.Meta.AccountID != "" {
				fmt.Fprintf(out, "Account:      %s (issued by %s)\n", res.Meta.AccountID, res.Ident.AccountBank)
			}
			fmt.Fprintf(out, "Rows:         %d read, %d skipped, %d filtered, %d kept\n",
				res.BodyRows, res.Skipped, res.Filtered, len(res.Transactions))
			fmt.Fprintln(out)

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "COL\tHEADER\tROLE\tCONFIDENCE")
			for i, h := range res.Meta.Headers {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\n", i, h.RawText, h.Role, h.Confidence)
			}
			return tw.Flush()
		},
	}
}

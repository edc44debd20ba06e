// =============================================================================
// Requisition Filler - Preview Command
// =============================================================================
//
// The 'preview' command parses a quote exactly as 'fill' would and prints the
// lines that would be entered, without opening a browser.
//
// COMMAND USAGE:
//   reqfill preview <quote-file>
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/requisition-filler/internal/quote"
	"github.com/ginjaninja78/requisition-filler/internal/types"
)

var previewCmd = &cobra.Command{
	Use:   "preview <quote-file>",
	Short: "Show the quote lines that would be entered",
	Long: `Parse a quote export with the configured layout and print the lines that
'fill' would enter, in order. Exits with status 3 if the quote is malformed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		items, err := quote.NewParser(cfg.Quote).Parse(args[0])
		if err != nil {
			return err
		}

		return printItems(cmd.OutOrStdout(), items)
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

// printItems writes items as an aligned table followed by the quote total.
func printItems(out io.Writer, items []types.QuoteItem) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "#\tROW\tPART NUMBER\tQTY\tUNIT PRICE\tDESCRIPTION")

	total := decimal.Zero
	for i, item := range items {
		fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%s\t%s\n",
			i+1,
			item.SourceRow,
			item.PartNumber,
			item.Quantity,
			item.Value(types.AttrUnitPrice),
			item.Description,
		)
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "\n%d line(s), total %s\n", len(items), total.StringFixed(2))
	return err
}

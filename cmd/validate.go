// =============================================================================
// Requisition Filler - Validate Command
// =============================================================================
//
// The 'validate' command loads the configuration, applies defaults and checks
// it, then prints the effective settings. It never opens a browser.
//
// COMMAND USAGE:
//   reqfill validate [--config path]
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/requisition-filler/internal/config"
	"github.com/ginjaninja78/requisition-filler/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load the configuration, fill in defaults and report any problem, such as a
field mapping without a prefix for one of quantity, partNumber, description,
unitPrice or category.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		printConfig(cmd.OutOrStdout(), cfg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// printConfig summarises the effective configuration.
func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintf(out, "Configuration OK (%s)\n\n", cfgFile)

	fmt.Fprintln(out, "Quote:")
	fmt.Fprintf(out, "  Skip rows:    %d\n", cfg.Quote.SkipRowCount())
	fmt.Fprintf(out, "  Header row:   %d\n", cfg.Quote.HeaderRow)
	if cfg.Quote.Delimiter != "" {
		fmt.Fprintf(out, "  Delimiter:    %q\n", cfg.Quote.Delimiter)
	}
	fmt.Fprintf(out, "  Part number:  %q\n", cfg.Quote.Columns.PartNumber)
	fmt.Fprintf(out, "  Quantity:     %q\n", cfg.Quote.Columns.Quantity)
	fmt.Fprintf(out, "  Description:  %q\n", cfg.Quote.Columns.Description)
	fmt.Fprintf(out, "  Unit price:   %q\n", cfg.Quote.Columns.UnitPrice)

	fmt.Fprintln(out, "Form:")
	fmt.Fprintf(out, "  URL:          %s\n", cfg.Form.URL)
	fmt.Fprintf(out, "  Anchor:       %s\n", cfg.Form.Anchor)
	fmt.Fprintf(out, "  Add row:      %s\n", cfg.Form.AddRowSelector)
	if code := cfg.Form.CategoryCode(); code != "" {
		fmt.Fprintf(out, "  Category:     %s\n", code)
	} else {
		fmt.Fprintln(out, "  Category:     (not set, category inputs left untouched)")
	}

	mapping := cfg.FieldMapping()
	fmt.Fprintln(out, "  Fields:")
	for _, attr := range types.AllAttributes {
		fmt.Fprintf(out, "    %-12s -> %s-<row>\n", attr, mapping[attr])
	}
	fmt.Fprintf(out, "  Grow:         poll %s, settle %s, max %d stagnant\n",
		cfg.Form.Grow.PollInterval, cfg.Form.Grow.SettleTimeout, cfg.Form.Grow.MaxStagnant)
}

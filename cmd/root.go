// =============================================================================
// Requisition Filler - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands (like 'fill', 'preview') are
// attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (reqfill)
//   ├── fillCmd     (reqfill fill)
//   ├── previewCmd  (reqfill preview)
//   ├── validateCmd (reqfill validate)
//   └── versionCmd  (reqfill version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration file shared by all subcommands
//   3. Setting up logging
//   4. Turning errors into process exit codes
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/requisition-filler/internal/config"
	"github.com/ginjaninja78/requisition-filler/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "reqfill",
	Short: "Requisition Filler - Copy a supplier quote into a web requisition form",
	Long: `Requisition Filler reads a shopping cart exported from a supplier (a Mouser
cart spreadsheet by default) and types every line into the Items page of a web
requisition form, adding form rows as needed and setting the category code on
every row.

Key Features:
  - Works with .xlsx, .xlsm and .csv quote exports
  - Copes with forms whose row ids are not sequential
  - Refuses to touch the form if any quote line is malformed
  - Optional YAML report of every run

Example Usage:
  reqfill fill                          # Choose a quote and fill the form
  reqfill fill --file cart.xlsx --yes   # Non-interactive
  reqfill preview cart.xlsx             # Show what would be entered
  reqfill validate --config ./my.yaml   # Check a configuration file`,

	// The fill command handles its own output; errors are printed by Execute.
	SilenceErrors: true,
	SilenceUsage:  true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command and exits with a status that tells apart an
// operator abort, a malformed quote and a form problem.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(exitCode(err))
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// --config flag: Allows the user to specify a custom configuration file.
	// When left at the default a missing file means "use built-in defaults".
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)

	// --verbose flag: Enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadConfig loads and validates the configuration. An explicitly passed
// --config file must exist.
func loadConfig() (*config.Config, error) {
	required := rootCmd.PersistentFlags().Changed("config")

	cfg, err := config.Load(cfgFile, required)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger creates the console logger for cfg, honouring --verbose.
func newLogger(cfg *config.Config) logging.Logger {
	level := logging.ParseLevel(cfg.LogLevel)
	if verbose {
		level = logging.LevelDebug
	}
	return logging.NewStderr(level)
}

// =============================================================================
// Requisition Filler - Fill Command
// =============================================================================
//
// This file defines the 'fill' command, the main command of the tool. It
// wires the terminal prompts and the browser session to the orchestrator.
//
// COMMAND USAGE:
//   reqfill fill [flags]
//
// FLAGS:
//   --file      : Quote file to use instead of prompting for one
//   --category  : Category code for every row (overrides form.category);
//                 --category "" leaves the category inputs untouched
//   --url       : Page opened in the browser (overrides form.url)
//   --yes       : Do not wait for confirmation; the browser must already be
//                 on the Items page (e.g. a logged-in user_data_dir profile)
//
// FILL PIPELINE:
//   1. Load configuration
//   2. Ask for the quote file
//   3. Open the browser on the requisition system
//   4. Run the orchestrator (confirm, parse, grow, fill, categorise)
//   5. Write the run report
//   6. Keep the browser open until the operator has reviewed the form
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/requisition-filler/internal/browser"
	"github.com/ginjaninja78/requisition-filler/internal/config"
	"github.com/ginjaninja78/requisition-filler/internal/form"
	"github.com/ginjaninja78/requisition-filler/internal/logging"
	"github.com/ginjaninja78/requisition-filler/internal/prompt"
	"github.com/ginjaninja78/requisition-filler/internal/requisition"
	"github.com/ginjaninja78/requisition-filler/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// fillFile is the quote file; empty means prompt for it.
var fillFile string

// fillCategory overrides the configured category code.
var fillCategory string

// fillURL overrides the configured form URL.
var fillURL string

// assumeYes skips the confirmation prompts.
var assumeYes bool

// quoteExtensions are the file types the quote parser can read.
var quoteExtensions = []string{".xlsx", ".xlsm", ".csv"}

// reviewMessage is asked before the browser is closed.
const reviewMessage = "Review and submit the requisition in the browser. Close the browser now?"

// =============================================================================
// FILL COMMAND DEFINITION
// =============================================================================

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill the requisition Items page from a quote export",
	Long: `The fill command asks for a quote export, opens the requisition system in
a browser and waits while you log in and open the Items page of a new
requisition. It then adds enough rows for every quote line, enters part
number, quantity, description and unit price on each row and sets the
category code on all rows.

Nothing is submitted. Review the requisition in the browser and submit it
yourself; the browser stays open until you confirm.

If the quote has a malformed line nothing is entered. If the form misbehaves
part way through, the rows entered so far are left in place.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runFill(cmd.Context(), cmd.Flags().Changed("category"))
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(fillCmd)

	fillCmd.Flags().StringVarP(&fillFile, "file", "f", "", "Quote file (prompted for when omitted)")
	fillCmd.Flags().StringVar(&fillCategory, "category", "", "Category code for every row (overrides config)")
	fillCmd.Flags().StringVar(&fillURL, "url", "", "Requisition system URL (overrides config)")
	fillCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not wait for confirmation")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runFill(parent context.Context, categorySet bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFillOverrides(cfg, categorySet, fillCategory, fillURL)
	logger := newLogger(cfg)

	// =========================================================================
	// STEP 2: CHOOSE QUOTE FILE
	// =========================================================================
	// Asked before the browser starts so cancelling here costs nothing.

	var files requisition.FileSource = requisition.StaticFile(fillFile)
	if fillFile == "" {
		files = prompt.NewFilePrompt(quoteExtensions...)
	}
	path, err := files.ChooseFile(ctx)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 3: OPEN BROWSER
	// =========================================================================

	var (
		session *browser.Session
		surface form.Surface
	)
	if path != "" {
		session, err = browser.Open(ctx, cfg.Browser, cfg.Form.URL, logger)
		if err != nil {
			return err
		}
		defer session.Close()
		surface = session.Surface()
	}

	// =========================================================================
	// STEP 4: RUN
	// =========================================================================

	var gate requisition.Gate = requisition.AutoConfirm{}
	if !assumeYes {
		gate = prompt.NewConfirmer(true)
	}

	orchestrator := requisition.New(cfg, requisition.StaticFile(path), gate, surface, logger)
	result := orchestrator.Run(ctx)

	// =========================================================================
	// STEP 5: REPORT
	// =========================================================================

	writeReport(cfg, result, logger)
	printSummary(result)

	// =========================================================================
	// STEP 6: REVIEW
	// =========================================================================
	// Closing the session closes the browser, so wait for the operator unless
	// the run never reached the form.

	if session != nil && !assumeYes && result.State != requisition.StateAborted {
		if _, err := prompt.NewConfirmer(true).Confirm(context.Background(), reviewMessage); err != nil {
			logger.Warn("Review prompt failed: %v", err)
		}
	}

	return result.Err
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// applyFillOverrides applies the --category and --url flags to cfg. A
// category passed explicitly, even an empty one, replaces the configured code.
func applyFillOverrides(cfg *config.Config, categorySet bool, category, url string) {
	if categorySet {
		cfg.Form.SetCategory(category)
	}
	if url != "" {
		cfg.Form.URL = url
	}
}

// writeReport writes the run report when report_dir is configured. A failure
// to write it is logged and does not change the outcome of the run.
func writeReport(cfg *config.Config, result requisition.Result, logger logging.Logger) {
	if cfg.ReportDir == "" {
		return
	}
	path, err := utils.WriteRunReport(result.Report(), cfg.ReportDir, cfg.ReportNameFormat)
	if err != nil {
		logger.Warn("Failed to write run report: %v", err)
		return
	}
	logger.Info("Run report: %s", path)
}

// printSummary prints the outcome of a run to stdout.
func printSummary(result requisition.Result) {
	if result.State != requisition.StateDone {
		return
	}
	color.New(color.FgGreen, color.Bold).Println("Done.")
	fmt.Printf("Items:          %d\n", result.Stats.Items)
	fmt.Printf("Rows added:     %d\n", result.Stats.RowsAdded)
	fmt.Printf("Fields written: %d\n", result.Stats.FieldsWritten)
	fmt.Printf("Time elapsed:   %s\n", result.Stats.Duration)
}

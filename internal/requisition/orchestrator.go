// =============================================================================
// Requisition Filler - Orchestrator
// =============================================================================
//
// This module sequences one run against one live form: it gets a quote file
// from the operator, waits until the operator has the requisition open, parses
// the quote, grows the form and fills it.
//
// RUN PIPELINE:
//   1. AWAITING_FILE        ask the file source for a quote
//   2. AWAITING_USER_READY  ask the operator to open the Items page
//   3. PARSING              parse the quote (all rows or nothing)
//   4. GROWING              add rows until there is one per item
//   5. FILLING              write every item into its row
//   6. CATEGORIZING         write the category code into every row
//   7. DONE
//
// Declining at step 1 or 2 ends the run ABORTED. Any error ends it FAILED.
// Nothing is retried, and a failure after step 4 leaves the form exactly as
// far as it got.
//
// =============================================================================

package requisition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/requisition-filler/internal/config"
	"github.com/ginjaninja78/requisition-filler/internal/form"
	"github.com/ginjaninja78/requisition-filler/internal/logging"
	"github.com/ginjaninja78/requisition-filler/internal/quote"
	"github.com/ginjaninja78/requisition-filler/internal/types"
)

// DefaultReadyMessage is shown at the confirmation gate.
const DefaultReadyMessage = "Log into EDRS, create a new requisition and navigate to the Items page. Continue when ready?"

// ErrUserAborted is returned when the operator chooses no file or declines to
// continue.
var ErrUserAborted = errors.New("aborted by user")

// =============================================================================
// COLLABORATORS
// =============================================================================

// FileSource supplies the quote file. An empty path means no file was chosen.
type FileSource interface {
	ChooseFile(ctx context.Context) (string, error)
}

// Gate asks the operator to confirm before the form is touched.
type Gate interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// ItemParser turns a quote file into items.
type ItemParser interface {
	Parse(path string) ([]types.QuoteItem, error)
}

// StaticFile is a FileSource that always returns the same path.
type StaticFile string

func (f StaticFile) ChooseFile(context.Context) (string, error) { return string(f), nil }

// AutoConfirm is a Gate that always proceeds.
type AutoConfirm struct{}

func (AutoConfirm) Confirm(context.Context, string) (bool, error) { return true, nil }

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result is the outcome of one run.
type Result struct {
	RunID string
	File  string

	// State is the terminal state the run ended in.
	State State

	Items  []types.QuoteItem
	Tokens []types.RowToken

	// Err is nil when State is DONE.
	Err error

	Stats   Stats
	History []StateChange
}

// Stats summarises what a run did to the form.
type Stats struct {
	Items         int
	RowsAdded     int
	FieldsWritten int
	Duration      time.Duration
}

// StateChange records when the run entered a state.
type StateChange struct {
	State State
	At    time.Time
}

// =============================================================================
// ORCHESTRATOR STRUCTURE
// =============================================================================

// Orchestrator runs the fill pipeline against a single surface.
type Orchestrator struct {
	Files   FileSource
	Gate    Gate
	Parser  ItemParser
	Surface form.Surface

	Grower   *form.Grower
	Mapper   *form.Mapper
	Category *form.Applier

	// CategoryCode is written into every row.
	CategoryCode string

	// ReadyMessage is shown at the confirmation gate.
	ReadyMessage string

	Logger logging.Logger

	now func() time.Time
}

// New builds an Orchestrator from configuration.
//
// PARAMETERS:
//   - cfg: Validated application configuration
//   - files: Where the quote file comes from
//   - gate: Operator confirmation
//   - surface: The live form
//   - logger: Shared logger
//
// RETURNS:
//   - A ready-to-run Orchestrator.
func New(cfg *config.Config, files FileSource, gate Gate, surface form.Surface, logger logging.Logger) *Orchestrator {
	logger = logging.OrNop(logger)
	fields := cfg.FieldMapping()

	return &Orchestrator{
		Files:   files,
		Gate:    gate,
		Parser:  quote.NewParser(cfg.Quote),
		Surface: surface,
		Grower: &form.Grower{
			Locator:       form.Locator{Anchor: cfg.Form.Anchor},
			AddRow:        form.ElementRef(cfg.Form.AddRowSelector),
			PollInterval:  cfg.Form.Grow.PollInterval,
			SettleTimeout: cfg.Form.Grow.SettleTimeout,
			MaxStagnant:   cfg.Form.Grow.MaxStagnant,
			Logger:        logger,
		},
		Mapper:       &form.Mapper{Fields: fields, Logger: logger},
		Category:     &form.Applier{Prefix: fields[types.AttrCategory], Logger: logger},
		CategoryCode: cfg.Form.CategoryCode(),
		ReadyMessage: DefaultReadyMessage,
		Logger:       logger,
		now:          time.Now,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline once and returns its outcome. The returned
// Result always carries a terminal State.
func (o *Orchestrator) Run(ctx context.Context) Result {
	if o.now == nil {
		o.now = time.Now
	}

	start := o.now()
	r := &run{
		o:   o,
		log: logging.OrNop(o.Logger),
		result: Result{
			RunID: uuid.New().String(),
			State: StateAwaitingFile,
		},
	}
	r.record(StateAwaitingFile)

	r.execute(ctx)

	r.result.Stats.Duration = o.now().Sub(start)
	return r.result
}

// execute walks the pipeline, stopping at the first terminal state.
func (r *run) execute(ctx context.Context) {
	o, log := r.o, r.log

	// =========================================================================
	// STEP 1: CHOOSE QUOTE FILE
	// =========================================================================

	file, err := o.Files.ChooseFile(ctx)
	if err != nil {
		r.fail(fmt.Errorf("failed to choose quote file: %w", err))
		return
	}
	if file == "" {
		log.Warn("No quote file chosen")
		r.abort()
		return
	}
	r.result.File = file
	log.Info("Quote file: %s", file)

	// =========================================================================
	// STEP 2: WAIT FOR OPERATOR
	// =========================================================================
	// The operator logs in and opens the requisition in the browser; nothing
	// below runs until they confirm.

	if err := r.enter(StateAwaitingUserReady); err != nil {
		r.fail(err)
		return
	}

	ready, err := o.Gate.Confirm(ctx, o.readyMessage())
	if err != nil {
		r.fail(fmt.Errorf("failed to confirm: %w", err))
		return
	}
	if !ready {
		log.Warn("Operator declined to continue")
		r.abort()
		return
	}

	// =========================================================================
	// STEP 3: PARSE QUOTE
	// =========================================================================

	if err := r.enter(StateParsing); err != nil {
		r.fail(err)
		return
	}

	items, err := o.Parser.Parse(file)
	if err != nil {
		r.fail(fmt.Errorf("failed to parse quote: %w", err))
		return
	}
	r.result.Items = items
	r.result.Stats.Items = len(items)
	log.Info("Parsed %d item(s)", len(items))

	// =========================================================================
	// STEP 4: GROW FORM
	// =========================================================================

	if err := r.enter(StateGrowing); err != nil {
		r.fail(err)
		return
	}

	initial, err := o.Grower.Locator.Discover(ctx, o.Surface)
	if err != nil {
		r.fail(fmt.Errorf("failed to read form rows: %w", err))
		return
	}

	tokens, err := o.Grower.GrowTo(ctx, o.Surface, len(items))
	if err != nil {
		r.fail(fmt.Errorf("failed to grow form: %w", err))
		return
	}
	r.result.Tokens = tokens
	if added := len(tokens) - len(initial); added > 0 {
		r.result.Stats.RowsAdded = added
	}
	log.Info("Form has %d row(s) (%d added)", len(tokens), r.result.Stats.RowsAdded)

	// =========================================================================
	// STEP 5: FILL ROWS
	// =========================================================================

	if err := r.enter(StateFilling); err != nil {
		r.fail(err)
		return
	}

	written, err := o.Mapper.Fill(ctx, o.Surface, items, tokens)
	r.result.Stats.FieldsWritten += written
	if err != nil {
		r.fail(fmt.Errorf("failed to fill form: %w", err))
		return
	}

	// =========================================================================
	// STEP 6: SET CATEGORY
	// =========================================================================

	if err := r.enter(StateCategorizing); err != nil {
		r.fail(err)
		return
	}

	written, err = o.Category.Apply(ctx, o.Surface, tokens, o.CategoryCode)
	r.result.Stats.FieldsWritten += written
	if err != nil {
		r.fail(fmt.Errorf("failed to set category: %w", err))
		return
	}

	// =========================================================================
	// COMPLETE
	// =========================================================================

	if err := r.enter(StateDone); err != nil {
		r.fail(err)
	}
}

func (o *Orchestrator) readyMessage() string {
	if o.ReadyMessage == "" {
		return DefaultReadyMessage
	}
	return o.ReadyMessage
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// run carries the mutable state of a single Run call.
type run struct {
	o      *Orchestrator
	log    logging.Logger
	result Result
}

func (r *run) enter(to State) error {
	if err := Transition(r.result.State, to); err != nil {
		return err
	}
	r.result.State = to
	r.record(to)
	r.log.Debug("Run %s: %s", r.result.RunID, to)
	return nil
}

func (r *run) record(s State) {
	r.result.History = append(r.result.History, StateChange{State: s, At: r.o.now()})
}

func (r *run) abort() {
	r.result.Err = ErrUserAborted
	if err := r.enter(StateAborted); err != nil {
		r.fail(err)
	}
}

func (r *run) fail(err error) {
	r.log.Error("%v", err)
	r.result.Err = err
	if !IsTerminal(r.result.State) {
		r.result.State = StateFailed
		r.record(StateFailed)
	}
}

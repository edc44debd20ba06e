// =============================================================================
// Requisition Filler - Form Grower
// =============================================================================
//
// The requisition form starts with a small number of rows and offers an
// "add more lines" control. The grower clicks it until the form has at least
// as many rows as the quote has items.
//
// GROW LOOP:
//   1. Discover the current row tokens; stop when there are enough
//   2. Click the add-row control once
//   3. Poll the surface until a new row shows up or the settle timeout passes
//   4. A click that produced no new row is "stagnant"; too many consecutive
//      stagnant clicks fail the run with FormDidNotGrowError
//
// The grower only ever adds rows. A transient drop in the observed count is
// ignored; progress is measured against the largest set seen so far.
//
// =============================================================================

package form

import (
	"context"
	"time"

	"github.com/ginjaninja78/requisition-filler/internal/logging"
	"github.com/ginjaninja78/requisition-filler/internal/types"
)

// Default bounds for the grow loop.
const (
	DefaultPollInterval  = 100 * time.Millisecond
	DefaultSettleTimeout = 5 * time.Second
	DefaultMaxStagnant   = 3
)

// Grower grows a form to a target row count.
type Grower struct {
	Locator Locator
	AddRow  ElementRef

	PollInterval  time.Duration
	SettleTimeout time.Duration
	MaxStagnant   int

	Logger logging.Logger
}

// GrowTo clicks the add-row control until at least target rows exist.
//
// PARAMETERS:
//   - ctx: Cancels the wait between polls
//   - s: The live form surface
//   - target: Required number of rows
//
// RETURNS:
//   - The row tokens in discovery order (len >= target)
//   - *FormDidNotGrowError when MaxStagnant consecutive clicks add nothing
func (g *Grower) GrowTo(ctx context.Context, s Surface, target int) ([]types.RowToken, error) {
	log := logging.OrNop(g.Logger)
	poll, settle, maxStagnant := g.bounds()

	tokens, err := g.Locator.Discover(ctx, s)
	if err != nil {
		return nil, err
	}
	log.Debug("Form has %d row(s), need %d", len(tokens), target)

	attempts, stagnant := 0, 0
	for len(tokens) < target {
		if stagnant >= maxStagnant {
			return nil, &FormDidNotGrowError{Target: target, Have: len(tokens), Attempts: attempts}
		}

		if err := s.Click(ctx, g.AddRow); err != nil {
			return nil, err
		}
		attempts++

		grown, ok, err := g.awaitGrowth(ctx, s, len(tokens), poll, settle)
		if err != nil {
			return nil, err
		}
		if !ok {
			stagnant++
			log.Warn("Add-row attempt %d produced no new row (%d/%d)", attempts, stagnant, maxStagnant)
			continue
		}

		stagnant = 0
		tokens = grown
		log.Debug("Form grew to %d row(s)", len(tokens))
	}

	return tokens, nil
}

// awaitGrowth polls until more than have rows are visible or settle elapses.
func (g *Grower) awaitGrowth(ctx context.Context, s Surface, have int, poll, settle time.Duration) ([]types.RowToken, bool, error) {
	deadline := time.Now().Add(settle)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-ticker.C:
		}

		tokens, err := g.Locator.Discover(ctx, s)
		if err != nil {
			return nil, false, err
		}
		if len(tokens) > have {
			return tokens, true, nil
		}
		if !time.Now().Before(deadline) {
			return nil, false, nil
		}
	}
}

func (g *Grower) bounds() (time.Duration, time.Duration, int) {
	poll, settle, maxStagnant := g.PollInterval, g.SettleTimeout, g.MaxStagnant
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	if settle <= 0 {
		settle = DefaultSettleTimeout
	}
	if maxStagnant <= 0 {
		maxStagnant = DefaultMaxStagnant
	}
	return poll, settle, maxStagnant
}

// =============================================================================
// Requisition Filler - Form Surface
// =============================================================================
//
// The form package never talks to a browser directly. Everything it needs
// from the live page is expressed by the Surface interface below, so the
// locator, grower, mapper and category applier can run against chromedp in
// production and an in-memory fake in tests.
//
// FIELD NAMING:
//   Every input that belongs to a form row is named "<prefix>-<token>", for
//   example "qty-3" or "description-n2". The prefix identifies the attribute
//   and the token identifies the row. Tokens are opaque: they may be numeric,
//   prefixed, or allocated out of order.
//
// =============================================================================

package form

import (
	"context"
	"strings"

	"github.com/ginjaninja78/requisition-filler/internal/types"
)

// ElementRef addresses a single element on the surface. Its format is owned
// by the Surface implementation (a CSS selector for the browser surface).
type ElementRef string

// Input is one editable input discovered on the surface.
type Input struct {
	Token types.RowToken
	Ref   ElementRef
}

// Surface is the capability set the form engine needs from a live form.
type Surface interface {
	// QueryInputs returns every input whose field name starts with
	// "<prefix>-", in document order.
	QueryInputs(ctx context.Context, prefix string) ([]Input, error)

	// Click activates the element at ref.
	Click(ctx context.Context, ref ElementRef) error

	// SetText replaces the value of the input at ref.
	SetText(ctx context.Context, ref ElementRef, value string) error
}

// TokenFromFieldName extracts the row token from a field name of the form
// "<prefix>-<token>". It reports false when name does not carry the prefix or
// the token part is empty.
func TokenFromFieldName(name, prefix string) (types.RowToken, bool) {
	rest, ok := strings.CutPrefix(name, prefix+"-")
	if !ok || rest == "" {
		return "", false
	}
	return types.RowToken(rest), true
}

// indexInputs queries prefix once and returns a token -> ref index.
// The first input seen for a token wins.
func indexInputs(ctx context.Context, s Surface, prefix string) (map[types.RowToken]ElementRef, error) {
	inputs, err := s.QueryInputs(ctx, prefix)
	if err != nil {
		return nil, err
	}

	index := make(map[types.RowToken]ElementRef, len(inputs))
	for _, in := range inputs {
		if _, exists := index[in.Token]; !exists {
			index[in.Token] = in.Ref
		}
	}
	return index, nil
}

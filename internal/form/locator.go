package form

import (
	"context"
	"fmt"

	"github.com/ginjaninja78/requisition-filler/internal/types"
)

// Locator discovers the row tokens currently present on a surface by looking
// at the inputs of one anchor attribute.
type Locator struct {
	// Anchor is the field-name prefix every row is guaranteed to have.
	Anchor string
}

// Discover returns the current row tokens in discovery (document) order with
// duplicates removed. The same order is observed by the grower and the mapper
// within a run, which is what makes positional pairing of items and rows safe.
func (l Locator) Discover(ctx context.Context, s Surface) ([]types.RowToken, error) {
	if l.Anchor == "" {
		return nil, fmt.Errorf("locator anchor prefix is empty")
	}

	inputs, err := s.QueryInputs(ctx, l.Anchor)
	if err != nil {
		return nil, fmt.Errorf("failed to query %q inputs: %w", l.Anchor, err)
	}

	seen := make(map[types.RowToken]struct{}, len(inputs))
	tokens := make([]types.RowToken, 0, len(inputs))
	for _, in := range inputs {
		if _, dup := seen[in.Token]; dup {
			continue
		}
		seen[in.Token] = struct{}{}
		tokens = append(tokens, in.Token)
	}
	return tokens, nil
}

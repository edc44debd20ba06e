package form

import (
	"context"
	"fmt"

	"github.com/ginjaninja78/requisition-filler/internal/logging"
	"github.com/ginjaninja78/requisition-filler/internal/types"
)

// Applier writes one category code into every row.
type Applier struct {
	// Prefix is the field-name prefix of the category input.
	Prefix string
	Logger logging.Logger
}

// Apply writes category into the category input of each token and returns the
// number of inputs written. An empty category writes nothing.
func (a *Applier) Apply(ctx context.Context, s Surface, tokens []types.RowToken, category string) (int, error) {
	log := logging.OrNop(a.Logger)

	if category == "" {
		log.Warn("No category configured, leaving category inputs untouched")
		return 0, nil
	}
	if a.Prefix == "" {
		return 0, fmt.Errorf("field mapping has no prefix for %s", types.AttrCategory)
	}

	index, err := indexInputs(ctx, s, a.Prefix)
	if err != nil {
		return 0, fmt.Errorf("failed to query category inputs: %w", err)
	}

	refs := make([]ElementRef, 0, len(tokens))
	for i, token := range tokens {
		ref, ok := index[token]
		if !ok {
			return 0, &FieldNotFoundError{Attribute: types.AttrCategory, Prefix: a.Prefix, Token: token, Item: i + 1}
		}
		refs = append(refs, ref)
	}

	for n, ref := range refs {
		if err := s.SetText(ctx, ref, category); err != nil {
			return n, fmt.Errorf("failed to write %q: %w", ref, err)
		}
	}

	log.Info("Set category %q on %d row(s)", category, len(refs))
	return len(refs), nil
}

// =============================================================================
// Requisition Filler - Field Mapper
// =============================================================================
//
// The mapper pairs the n-th quote item with the n-th row token and writes the
// item's attributes into that row.
//
// WRITE ORDER:
//   Rows in token order, and within a row the attributes in
//   types.ItemAttributes order (part number, quantity, description, unit
//   price). Given the same items and tokens, the sequence of writes is always
//   identical.
//
// Every input is resolved before the first write, so a page that is missing a
// field fails without touching the form. Once writing starts there is no
// undo: a surface error leaves the rows written so far in place.
//
// =============================================================================

package form

import (
	"context"
	"fmt"

	"github.com/ginjaninja78/requisition-filler/internal/logging"
	"github.com/ginjaninja78/requisition-filler/internal/types"
)

// Mapper writes quote items into form rows.
type Mapper struct {
	Fields types.FieldMapping
	Logger logging.Logger
}

// write is one resolved (input, value) pair.
type write struct {
	ref   ElementRef
	value string
}

// Fill writes items into the rows named by tokens.
//
// When there are more tokens than items only the first len(items) tokens are
// written; the remaining rows are left untouched.
//
// RETURNS:
//   - The number of inputs written
//   - *FieldNotFoundError when a row or one of its inputs is missing
func (m *Mapper) Fill(ctx context.Context, s Surface, items []types.QuoteItem, tokens []types.RowToken) (int, error) {
	log := logging.OrNop(m.Logger)

	if missing := m.Fields.Missing(types.ItemAttributes...); len(missing) > 0 {
		return 0, fmt.Errorf("field mapping has no prefix for %v", missing)
	}
	if len(tokens) < len(items) {
		return 0, &FieldNotFoundError{Attribute: types.AttrPartNumber, Prefix: m.Fields[types.AttrPartNumber], Item: len(tokens) + 1}
	}

	indexes := make(map[types.Attribute]map[types.RowToken]ElementRef, len(types.ItemAttributes))
	for _, attr := range types.ItemAttributes {
		index, err := indexInputs(ctx, s, m.Fields[attr])
		if err != nil {
			return 0, fmt.Errorf("failed to query %s inputs: %w", attr, err)
		}
		indexes[attr] = index
	}

	plan := make([]write, 0, len(items)*len(types.ItemAttributes))
	for i, item := range items {
		token := tokens[i]
		for _, attr := range types.ItemAttributes {
			ref, ok := indexes[attr][token]
			if !ok {
				return 0, &FieldNotFoundError{Attribute: attr, Prefix: m.Fields[attr], Token: token, Item: i + 1}
			}
			plan = append(plan, write{ref: ref, value: item.Value(attr)})
		}
	}

	for n, w := range plan {
		if err := s.SetText(ctx, w.ref, w.value); err != nil {
			return n, fmt.Errorf("failed to write %q: %w", w.ref, err)
		}
	}

	log.Info("Filled %d row(s) (%d field(s))", len(items), len(plan))
	return len(plan), nil
}

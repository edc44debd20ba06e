// =============================================================================
// Requisition Filler - Cell Validation
// =============================================================================
//
// This module holds the rules that turn raw quote cells into typed values.
// Spreadsheet exports render numbers as display text ("£1,234.50", "2",
// "2.0"), so every numeric cell passes through one of these functions before
// it becomes part of a QuoteItem.
//
// VALIDATION STRATEGY:
//   - Each function either returns a typed value or a *ValidationError that
//     names the offending value and the violated rule.
//   - No function guesses: a cell that cannot be reduced unambiguously is an
//     error, never a zero.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single cell that failed validation.
type ValidationError struct {
	// Field is the column the value came from. Filled in by callers that know it.
	Field string

	// Value is the raw cell text.
	Value string

	// Rule is the validation rule that was violated.
	Rule string

	// Message is a human-readable error message.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s (value: '%s')", e.Message, e.Value)
	}
	return fmt.Sprintf("field '%s': %s (value: '%s')", e.Field, e.Message, e.Value)
}

// Validation rules reported in ValidationError.Rule.
const (
	RuleRequired    = "required"
	RuleInteger     = "integer"
	RuleNonNegative = "non_negative"
	RuleDecimal     = "decimal"
)

// =============================================================================
// QUANTITY
// =============================================================================

// ParseQuantity parses an order quantity cell.
//
// ACCEPTED:
//   - Surrounding whitespace and thousands separators ("1,000")
//   - An integral decimal rendering ("2.0"), which spreadsheets produce for
//     numeric cells formatted with decimals
//
// REJECTED:
//   - Empty cells, text, fractional values ("2.5") and negatives
func ParseQuantity(raw string) (int, error) {
	value := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if value == "" {
		return 0, &ValidationError{Value: raw, Rule: RuleRequired, Message: "quantity is empty"}
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, &ValidationError{Value: raw, Rule: RuleInteger, Message: "quantity is not a number"}
	}
	if !d.IsInteger() {
		return 0, &ValidationError{Value: raw, Rule: RuleInteger, Message: "quantity is not a whole number"}
	}
	if d.IsNegative() {
		return 0, &ValidationError{Value: raw, Rule: RuleNonNegative, Message: "quantity is negative"}
	}
	if !d.LessThanOrEqual(decimal.NewFromInt(maxQuantity)) {
		return 0, &ValidationError{Value: raw, Rule: RuleInteger, Message: "quantity is too large"}
	}

	return int(d.IntPart()), nil
}

// maxQuantity keeps quantities within int range on every platform.
const maxQuantity = 1<<31 - 1

// =============================================================================
// PRICE
// =============================================================================

// NormalizePrice reduces a price cell to a plain decimal string.
//
// RULE:
//   Remove every character that is not a digit or '.', then require at most
//   one '.' and at least one digit. Currency glyphs, grouping separators,
//   spaces and signs are all discarded.
//
// EXAMPLES:
//   "£12.50"       -> "12.50"
//   "£100,000.00"  -> "100000.00"
//   "12.50"        -> "12.50"   (idempotent)
//   "1.2.3"        -> error
func NormalizePrice(raw string) (string, error) {
	var b strings.Builder
	digits := 0
	points := 0

	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			digits++
			b.WriteRune(r)
		case r == '.':
			points++
			b.WriteRune(r)
		}
	}

	if digits == 0 {
		return "", &ValidationError{Value: raw, Rule: RuleDecimal, Message: "price has no digits"}
	}
	if points > 1 {
		return "", &ValidationError{Value: raw, Rule: RuleDecimal, Message: "price has more than one decimal point"}
	}

	return b.String(), nil
}

// ParsePrice normalizes a price cell and converts it to a decimal.
func ParsePrice(raw string) (decimal.Decimal, error) {
	normalized, err := NormalizePrice(raw)
	if err != nil {
		return decimal.Zero, err
	}

	price, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, &ValidationError{Value: raw, Rule: RuleDecimal, Message: "price is not a decimal number"}
	}

	return price, nil
}

// =============================================================================
// Requisition Filler - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - quote        (produces QuoteItems from a decoded Table)
//   - form         (consumes QuoteItems, RowTokens and FieldMappings)
//   - requisition  (sequences the run)
//   - config       (builds the FieldMapping from YAML)
//
// =============================================================================

package types

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CANONICAL ATTRIBUTES
// =============================================================================

// Attribute is one of the canonical item attributes the filler knows how to
// transcribe into a form row.
type Attribute string

const (
	AttrQuantity    Attribute = "quantity"
	AttrPartNumber  Attribute = "partNumber"
	AttrDescription Attribute = "description"
	AttrUnitPrice   Attribute = "unitPrice"
	AttrCategory    Attribute = "category"
)

// ItemAttributes lists the attributes taken from a QuoteItem, in the order
// they are written into each form row.
var ItemAttributes = []Attribute{
	AttrPartNumber,
	AttrQuantity,
	AttrDescription,
	AttrUnitPrice,
}

// AllAttributes lists every attribute a FieldMapping must cover.
var AllAttributes = []Attribute{
	AttrQuantity,
	AttrPartNumber,
	AttrDescription,
	AttrUnitPrice,
	AttrCategory,
}

// IsValid reports whether a is one of the recognised canonical attributes.
func (a Attribute) IsValid() bool {
	for _, known := range AllAttributes {
		if a == known {
			return true
		}
	}
	return false
}

// FieldMapping maps a canonical attribute to the form's field-name prefix for
// that attribute (for example AttrQuantity -> "qty").
type FieldMapping map[Attribute]string

// Missing returns the attributes in attrs that have no (non-empty) prefix.
func (m FieldMapping) Missing(attrs ...Attribute) []Attribute {
	var missing []Attribute
	for _, attr := range attrs {
		if m[attr] == "" {
			missing = append(missing, attr)
		}
	}
	return missing
}

// =============================================================================
// QUOTE ITEMS
// =============================================================================

// QuoteItem is one normalized purchase line extracted from the spreadsheet.
// The ordered slice of items produced by the quote parser preserves the
// spreadsheet's row order; that order is later zipped against row tokens.
type QuoteItem struct {
	// PartNumber is the supplier part number. Never empty.
	PartNumber string `yaml:"part_number"`

	// Quantity is the ordered quantity. Always >= 0.
	Quantity int `yaml:"quantity"`

	// Description is the free-text item description.
	Description string `yaml:"description"`

	// UnitPrice is the normalized unit price. Always >= 0.
	UnitPrice decimal.Decimal `yaml:"unit_price"`

	// SourceRow is the 1-based row number in the source spreadsheet.
	SourceRow int `yaml:"source_row"`
}

// Value renders the item's attribute as the text written into a form input.
// Prices keep every quoted digit and are padded to at least two decimal
// places; sub-penny prices such as 0.087 are never rounded. AttrCategory is
// not an item attribute and yields "".
func (q QuoteItem) Value(attr Attribute) string {
	switch attr {
	case AttrPartNumber:
		return q.PartNumber
	case AttrQuantity:
		return strconv.Itoa(q.Quantity)
	case AttrDescription:
		return q.Description
	case AttrUnitPrice:
		return q.UnitPrice.StringFixed(max(2, -q.UnitPrice.Exponent()))
	default:
		return ""
	}
}

// =============================================================================
// FORM ROWS
// =============================================================================

// RowToken is an opaque identifier naming one row's cluster of input fields
// on the live form. Tokens may be numeric ("12") or prefixed ("n3"); only
// set membership is meaningful.
type RowToken string

// =============================================================================
// DECODED SPREADSHEETS
// =============================================================================

// Table is a decoded spreadsheet: one header row and the data rows below it.
type Table struct {
	// SourceFile is the path the table was decoded from.
	SourceFile string

	// Headers contains the cleaned column headers, in column order.
	Headers []string

	// Rows contains the data rows, in spreadsheet order.
	Rows []Row
}

// Row is a single data row keyed by header.
type Row struct {
	// Number is the 1-based row number in the source file.
	Number int

	// Cells maps a header to its trimmed cell value.
	Cells map[string]string
}

// =============================================================================
// Requisition Filler - Quote Parser
// =============================================================================
//
// This module turns a supplier quote export into the ordered list of
// QuoteItems that will be transcribed into the requisition form.
//
// PARSING PROCESS:
//   1. Pick a decoder from the file extension (.xlsx/.xlsm or .csv)
//   2. Decode the table below the configured preamble
//   3. Resolve the part number, quantity, description and price columns
//   4. Drop rows without a part number (trailing blank/total rows)
//   5. Parse every remaining row fully; the first bad cell fails the whole
//      quote, nothing is partially applied
//
// =============================================================================

package quote

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/requisition-filler/internal/config"
	"github.com/ginjaninja78/requisition-filler/internal/csvparser"
	"github.com/ginjaninja78/requisition-filler/internal/types"
	"github.com/ginjaninja78/requisition-filler/internal/validation"
	"github.com/ginjaninja78/requisition-filler/internal/xlsxparser"
)

// =============================================================================
// DECODERS
// =============================================================================

// Decoder decodes a raw export into a header-keyed table.
type Decoder interface {
	Decode(path string, skipRows, headerRow int) (*types.Table, error)
}

// =============================================================================
// PARSER
// =============================================================================

// Parser parses quote exports according to QuoteSettings.
type Parser struct {
	settings config.QuoteSettings

	// decoders maps a lower-case file extension to its decoder.
	decoders map[string]Decoder
}

// NewParser creates a Parser with the spreadsheet and CSV decoders registered.
func NewParser(settings config.QuoteSettings) *Parser {
	xlsx := xlsxparser.Decoder{Sheet: settings.Sheet}
	return &Parser{
		settings: settings,
		decoders: map[string]Decoder{
			".xlsx": xlsx,
			".xlsm": xlsx,
			".csv":  csvparser.Decoder{Delimiter: settings.Delimiter},
		},
	}
}

// WithDecoder registers (or replaces) the decoder used for ext.
func (p *Parser) WithDecoder(ext string, d Decoder) *Parser {
	p.decoders[strings.ToLower(ext)] = d
	return p
}

// Parse decodes the file at path and returns its items in spreadsheet order.
//
// RETURNS:
//   - The ordered QuoteItems (never empty on success).
//   - A *MalformedQuoteError when the file layout or any cell is invalid.
func (p *Parser) Parse(path string) ([]types.QuoteItem, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decoder, ok := p.decoders[ext]
	if !ok {
		return nil, &MalformedQuoteError{
			File:   path,
			Reason: fmt.Sprintf("unsupported file type %q (expected .xlsx, .xlsm or .csv)", ext),
		}
	}

	table, err := decoder.Decode(path, p.settings.SkipRowCount(), p.settings.HeaderRow)
	if err != nil {
		return nil, &MalformedQuoteError{File: path, Reason: "cannot decode file", Err: err}
	}

	return p.ParseTable(table)
}

// ParseTable converts an already decoded table into QuoteItems.
func (p *Parser) ParseTable(table *types.Table) ([]types.QuoteItem, error) {
	cols, err := resolveColumns(table, p.settings.Columns)
	if err != nil {
		return nil, err
	}

	items := make([]types.QuoteItem, 0, len(table.Rows))

	for _, row := range table.Rows {
		partNumber := strings.TrimSpace(row.Cells[cols.PartNumber])

		// Rows without a part number are padding, not items.
		if partNumber == "" {
			continue
		}

		quantity, err := validation.ParseQuantity(row.Cells[cols.Quantity])
		if err != nil {
			return nil, cellError(table.SourceFile, row, cols.Quantity, err)
		}

		price, err := validation.ParsePrice(row.Cells[cols.UnitPrice])
		if err != nil {
			return nil, cellError(table.SourceFile, row, cols.UnitPrice, err)
		}

		items = append(items, types.QuoteItem{
			PartNumber:  partNumber,
			Quantity:    quantity,
			Description: strings.TrimSpace(row.Cells[cols.Description]),
			UnitPrice:   price,
			SourceRow:   row.Number,
		})
	}

	if len(items) == 0 {
		return nil, &MalformedQuoteError{
			File:   table.SourceFile,
			Column: cols.PartNumber,
			Reason: "no rows with a part number",
		}
	}

	return items, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// resolveColumns maps each configured column name onto the table's actual
// header text. Matching ignores case and surrounding whitespace, since export
// headers often carry trailing spaces ("Description ").
func resolveColumns(table *types.Table, want config.QuoteColumns) (config.QuoteColumns, error) {
	index := make(map[string]string, len(table.Headers))
	for _, header := range table.Headers {
		key := normalizeHeader(header)
		if _, exists := index[key]; !exists {
			index[key] = header
		}
	}

	var missing []string
	lookup := func(name string) string {
		header, ok := index[normalizeHeader(name)]
		if !ok {
			missing = append(missing, name)
		}
		return header
	}

	resolved := config.QuoteColumns{
		PartNumber:  lookup(want.PartNumber),
		Quantity:    lookup(want.Quantity),
		Description: lookup(want.Description),
		UnitPrice:   lookup(want.UnitPrice),
	}

	if len(missing) > 0 {
		return resolved, &MalformedQuoteError{
			File:   table.SourceFile,
			Column: strings.Join(missing, ", "),
			Reason: fmt.Sprintf("required column(s) missing; found %s", strings.Join(table.Headers, ", ")),
		}
	}
	return resolved, nil
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// cellError wraps a cell validation failure with its location.
func cellError(file string, row types.Row, column string, err error) error {
	return &MalformedQuoteError{
		File:   file,
		Row:    row.Number,
		Column: column,
		Value:  row.Cells[column],
		Reason: "invalid cell",
		Err:    err,
	}
}

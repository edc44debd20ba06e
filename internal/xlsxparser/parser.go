// =============================================================================
// Requisition Filler - XLSX Quote Decoder
// =============================================================================
//
// This module decodes spreadsheet exports (.xlsx / .xlsm) into a header-keyed
// Table. Supplier exports usually carry a block of metadata above the item
// table, so decoding is driven by two numbers:
//
//   | Row 1..SkipRows      | cart metadata (ignored)                       |
//   | Row SkipRows+1+...   | HeaderRow rows of preamble, then the header   |
//   | following rows       | item rows                                     |
//
// Example (Mouser cart export, SkipRows=8, HeaderRow=0):
//
//   | Row 9  | (blank) | Mouser No | Mfr. No | Description | Order Qty. | Price (GBP) |
//   | Row 10 | 1       | 595-X     | X       | Resistor    | 2          | £12.50      |
//
// Cells are read raw, without their number format. A price cell holding
// 0.087 with a "0.00" format decodes as "0.087", not the displayed "0.09".
// Text cells (such as Mouser's "£12.50" prices) are unaffected.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/requisition-filler/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// DECODER
// =============================================================================

// Decoder decodes spreadsheet exports.
type Decoder struct {
	// Sheet is the worksheet to read. Empty selects the first sheet.
	Sheet string
}

// Decode implements the quote decoder capability for spreadsheet files.
//
// PARAMETERS:
//   - path: The path to the spreadsheet file.
//   - skipRows: Leading rows to ignore entirely.
//   - headerRow: Header row index counted from the first row after skipRows.
//
// RETURNS:
//   - A Table with cleaned headers and non-empty data rows.
//   - An error if the file cannot be opened or has no header row.
func (d Decoder) Decode(path string, skipRows, headerRow int) (*types.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	return d.decodeFile(f, path, skipRows, headerRow)
}

// decodeFile reads the configured sheet from an open workbook.
func (d Decoder) decodeFile(f *excelize.File, path string, skipRows, headerRow int) (*types.Table, error) {
	sheetName := d.Sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}
	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found (available: %s)", sheetName, strings.Join(f.GetSheetList(), ", "))
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %q: %w", sheetName, err)
	}

	return BuildTable(path, rows, skipRows, headerRow)
}

// =============================================================================
// TABLE BUILDING
// =============================================================================

// BuildTable turns raw rows into a Table. It is shared with the CSV decoder so
// both formats apply identical header and blank-row rules.
//
// RULES:
//   - The header is rows[skipRows+headerRow].
//   - Headers are trimmed; blank headers become "Column_<n>".
//   - Rows that are entirely blank are skipped.
//   - Short rows are padded with empty cells.
func BuildTable(path string, rows [][]string, skipRows, headerRow int) (*types.Table, error) {
	if skipRows < 0 || headerRow < 0 {
		return nil, fmt.Errorf("skip rows and header row must not be negative")
	}

	headerIndex := skipRows + headerRow
	if headerIndex >= len(rows) {
		return nil, fmt.Errorf("file has %d rows, header expected on row %d", len(rows), headerIndex+1)
	}

	headers := cleanHeaders(rows[headerIndex])
	if isRowEmpty(rows[headerIndex]) {
		return nil, fmt.Errorf("header row %d is empty", headerIndex+1)
	}

	table := &types.Table{
		SourceFile: path,
		Headers:    headers,
	}

	for i := headerIndex + 1; i < len(rows); i++ {
		row := rows[i]

		// Skip empty rows.
		if len(row) == 0 || isRowEmpty(row) {
			continue
		}

		cells := make(map[string]string, len(headers))
		for col, header := range headers {
			value := ""
			if col < len(row) {
				value = strings.TrimSpace(row[col])
			}
			// First occurrence wins on duplicate headers.
			if _, exists := cells[header]; !exists {
				cells[header] = value
			}
		}

		table.Rows = append(table.Rows, types.Row{
			Number: i + 1,
			Cells:  cells,
		})
	}

	return table, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// cleanHeaders trims header values and names blank headers by position.
func cleanHeaders(row []string) []string {
	headers := make([]string, len(row))
	for i, header := range row {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		headers[i] = header
	}
	return headers
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// Requisition Filler - CSV Quote Decoder
// =============================================================================
//
// This module decodes comma-separated quote exports into the same header-keyed
// Table the spreadsheet decoder produces. Header location and blank-row rules
// are shared with xlsxparser.BuildTable so both formats behave identically.
//
// FEATURES:
//   - Configurable delimiter (comma by default; tab, pipe and semicolon
//     accepted by name)
//   - UTF-8 byte order mark stripped from the first cell
//   - Variable number of fields per row (exports often pad metadata rows)
//   - Lazy quotes
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ginjaninja78/requisition-filler/internal/types"
	"github.com/ginjaninja78/requisition-filler/internal/xlsxparser"
)

// utf8BOM is written by spreadsheet tools at the start of "CSV UTF-8" exports.
const utf8BOM = "\uFEFF"

// =============================================================================
// DECODER
// =============================================================================

// Decoder decodes CSV exports.
type Decoder struct {
	// Delimiter is the field separator. Empty means ",".
	Delimiter string
}

// Decode implements the quote decoder capability for CSV files.
//
// PARAMETERS:
//   - path: The path to the CSV file.
//   - skipRows: Leading records to ignore entirely.
//   - headerRow: Header record index counted from the first record after skipRows.
//
// RETURNS:
//   - A Table with cleaned headers and non-empty data rows.
//   - An error if the file cannot be read or has no header row.
func (d Decoder) Decode(path string, skipRows, headerRow int) (*types.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return d.DecodeReader(path, file, skipRows, headerRow)
}

// DecodeReader decodes CSV content from r. name is recorded as the table's
// source file.
func (d Decoder) DecodeReader(name string, r io.Reader, skipRows, headerRow int) (*types.Table, error) {
	csvReader := csv.NewReader(bufio.NewReader(r))
	configureReader(csvReader, d.Delimiter)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	if len(allRows[0]) > 0 {
		allRows[0][0] = strings.TrimPrefix(allRows[0][0], utf8BOM)
	}

	return xlsxparser.BuildTable(name, allRows, skipRows, headerRow)
}

// configureReader configures the CSV reader for the given delimiter.
func configureReader(reader *csv.Reader, delimiter string) {
	switch strings.ToLower(delimiter) {
	case "\\t", "\t", "tab":
		reader.Comma = '\t'
	case "|", "pipe":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if r, _ := utf8.DecodeRuneInString(delimiter); r != utf8.RuneError {
			reader.Comma = r
		} else {
			reader.Comma = ','
		}
	}

	// Allow variable number of fields per row.
	reader.FieldsPerRecord = -1

	// Allow lazy quotes (quotes that don't follow strict CSV rules).
	reader.LazyQuotes = true

	reader.TrimLeadingSpace = true
}

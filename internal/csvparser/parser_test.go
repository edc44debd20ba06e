package csvparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ginjaninja78/requisition-filler/internal/types"
)

func TestDecodeReader_Valid(t *testing.T) {
	input := "\uFEFFCart,2024\n" +
		"Mouser No,Order Qty.,Price (GBP)\n" +
		"A1,2,\"£1,200.00\"\n" +
		",,\n" +
		"B2,1,£3.00\n"

	table, err := Decoder{}.DecodeReader("quote.csv", strings.NewReader(input), 1, 0)
	if err != nil {
		t.Fatalf("DecodeReader() error = %v", err)
	}

	want := &types.Table{
		SourceFile: "quote.csv",
		Headers:    []string{"Mouser No", "Order Qty.", "Price (GBP)"},
		Rows: []types.Row{
			{Number: 3, Cells: map[string]string{"Mouser No": "A1", "Order Qty.": "2", "Price (GBP)": "£1,200.00"}},
			{Number: 5, Cells: map[string]string{"Mouser No": "B2", "Order Qty.": "1", "Price (GBP)": "£3.00"}},
		},
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeReader_Empty(t *testing.T) {
	if _, err := (Decoder{}).DecodeReader("empty.csv", strings.NewReader(""), 0, 0); err == nil {
		t.Error("expected error for empty file")
	}
}

func TestDecodeReader_Delimiters(t *testing.T) {
	tests := []struct {
		name      string
		delimiter string
		input     string
	}{
		{"tab", "tab", "Part\tQty\nX\t3\n"},
		{"pipe", "|", "Part|Qty\nX|3\n"},
		{"semicolon", "semicolon", "Part;Qty\nX;3\n"},
		{"upper case alias", "TAB", "Part\tQty\nX\t3\n"},
		{"single character", "#", "Part#Qty\nX#3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Decoder{Delimiter: tt.delimiter}.DecodeReader("x", strings.NewReader(tt.input), 0, 0)
			if err != nil {
				t.Fatalf("DecodeReader() error = %v", err)
			}
			if len(table.Rows) != 1 || table.Rows[0].Cells["Qty"] != "3" {
				t.Errorf("unexpected rows: %+v", table.Rows)
			}
		})
	}
}

func TestDecode_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote.csv")
	if err := os.WriteFile(path, []byte("Part,Qty\nX,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := Decoder{}.Decode(path, 0, 0)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if table.SourceFile != path {
		t.Errorf("SourceFile = %q, want %q", table.SourceFile, path)
	}
}

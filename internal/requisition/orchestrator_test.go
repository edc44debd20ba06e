package requisition

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/requisition-filler/internal/config"
	"github.com/ginjaninja78/requisition-filler/internal/form"
	"github.com/ginjaninja78/requisition-filler/internal/form/formtest"
	"github.com/ginjaninja78/requisition-filler/internal/quote"
	"github.com/ginjaninja78/requisition-filler/internal/types"
)

// =============================================================================
// FIXTURES
// =============================================================================

// writeCart writes a Mouser-style cart export: 8 preamble rows, a header and
// the given item rows (part, quantity, price).
func writeCart(t *testing.T, items [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	set := func(row int, values []interface{}) {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			t.Fatal(err)
		}
	}

	set(1, []interface{}{"Mouser Electronics shopping cart"})
	set(9, []interface{}{"", "Mouser No", "Description ", "Order Qty.", "Price (GBP)"})
	for i, item := range items {
		set(10+i, append([]interface{}{i + 1}, item...))
	}

	path := filepath.Join(t.TempDir(), "cart.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() error = %v", err)
	}
	return path
}

func roundTripCart(t *testing.T) string {
	return writeCart(t, [][]interface{}{
		{"A1", "Widget", 2, "£12.50"},
		{"B2", "Gadget", 1, "£3.00"},
		{"C3", "Gizmo", 5, "£100,000.00"},
	})
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Form.Grow.PollInterval = time.Millisecond
	cfg.Form.Grow.SettleTimeout = 100 * time.Millisecond
	return cfg
}

type declineGate struct{ asked int }

func (g *declineGate) Confirm(context.Context, string) (bool, error) {
	g.asked++
	return false, nil
}

func states(r Result) []State {
	var out []State
	for _, change := range r.History {
		out = append(out, change.State)
	}
	return out
}

// =============================================================================
// TESTS
// =============================================================================

func TestRun_RoundTrip(t *testing.T) {
	surface := formtest.New(1, formtest.WithTokens(formtest.MixedTokens(1)), formtest.WithLag(2))
	o := New(testConfig(), StaticFile(roundTripCart(t)), AutoConfirm{}, surface, nil)

	result := o.Run(context.Background())
	if result.Err != nil {
		t.Fatalf("Run() error = %v", result.Err)
	}
	if result.State != StateDone {
		t.Fatalf("State = %s, want DONE", result.State)
	}

	wantStates := []State{
		StateAwaitingFile, StateAwaitingUserReady, StateParsing,
		StateGrowing, StateFilling, StateCategorizing, StateDone,
	}
	if diff := cmp.Diff(wantStates, states(result)); diff != "" {
		t.Errorf("state history mismatch (-want +got):\n%s", diff)
	}

	rows := surface.Rows()
	if diff := cmp.Diff([]types.RowToken{"1", "n1", "n2"}, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}

	want := map[string][]string{
		"partno":       {"A1", "B2", "C3"},
		"qty":          {"2", "1", "5"},
		"description":  {"Widget", "Gadget", "Gizmo"},
		"unitprice":    {"12.50", "3.00", "100000.00"},
		"categorycode": {"LZ", "LZ", "LZ"},
	}
	for prefix, values := range want {
		for i, token := range rows {
			if got := surface.Value(prefix, token); got != values[i] {
				t.Errorf("%s-%s = %q, want %q", prefix, token, got, values[i])
			}
		}
	}

	wantStats := Stats{Items: 3, RowsAdded: 2, FieldsWritten: 15}
	gotStats := result.Stats
	gotStats.Duration = 0
	if diff := cmp.Diff(wantStats, gotStats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
	if result.RunID == "" {
		t.Error("RunID is empty")
	}
}

func TestRun_KeepsQuotedPrecision(t *testing.T) {
	cart := writeCart(t, [][]interface{}{
		{"71-CRCW0603-10K", "Resistor", "1,000", "£0.087"},
		{"81-GRM188R71H104KA", "Capacitor", 2500, 0.0125},
	})
	surface := formtest.New(1, formtest.WithTokens(formtest.MixedTokens(1)))
	o := New(testConfig(), StaticFile(cart), AutoConfirm{}, surface, nil)

	result := o.Run(context.Background())
	if result.Err != nil {
		t.Fatalf("Run() error = %v", result.Err)
	}

	want := []formtest.Write{
		{Ref: "partno-1", Value: "71-CRCW0603-10K"},
		{Ref: "qty-1", Value: "1000"},
		{Ref: "description-1", Value: "Resistor"},
		{Ref: "unitprice-1", Value: "0.087"},
		{Ref: "partno-n1", Value: "81-GRM188R71H104KA"},
		{Ref: "qty-n1", Value: "2500"},
		{Ref: "description-n1", Value: "Capacitor"},
		{Ref: "unitprice-n1", Value: "0.0125"},
		{Ref: "categorycode-1", Value: "LZ"},
		{Ref: "categorycode-n1", Value: "LZ"},
	}
	if diff := cmp.Diff(want, surface.Writes()); diff != "" {
		t.Errorf("writes mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_EmptyCategoryLeavesCategoryUntouched(t *testing.T) {
	cfg := testConfig()
	cfg.Form.SetCategory("")
	surface := formtest.New(3)
	o := New(cfg, StaticFile(roundTripCart(t)), AutoConfirm{}, surface, nil)

	result := o.Run(context.Background())
	if result.State != StateDone || result.Err != nil {
		t.Fatalf("got %s / %v, want DONE", result.State, result.Err)
	}
	if result.Stats.FieldsWritten != 12 {
		t.Errorf("FieldsWritten = %d, want 12", result.Stats.FieldsWritten)
	}
	for _, token := range surface.Rows() {
		if v := surface.Value("categorycode", token); v != "" {
			t.Errorf("category on row %s = %q, want untouched", token, v)
		}
	}
}

func TestRun_NoFileChosen(t *testing.T) {
	surface := formtest.New(1)
	gate := &declineGate{}
	o := New(testConfig(), StaticFile(""), gate, surface, nil)

	result := o.Run(context.Background())

	if result.State != StateAborted || !errors.Is(result.Err, ErrUserAborted) {
		t.Fatalf("got %s / %v, want ABORTED / ErrUserAborted", result.State, result.Err)
	}
	if gate.asked != 0 {
		t.Error("gate should not be asked without a file")
	}
	if len(surface.QuerySizes("description")) != 0 {
		t.Error("surface should not be touched")
	}
}

func TestRun_OperatorDeclines(t *testing.T) {
	surface := formtest.New(1)
	o := New(testConfig(), StaticFile(roundTripCart(t)), &declineGate{}, surface, nil)

	result := o.Run(context.Background())

	if result.State != StateAborted || !errors.Is(result.Err, ErrUserAborted) {
		t.Fatalf("got %s / %v, want ABORTED / ErrUserAborted", result.State, result.Err)
	}
	if diff := cmp.Diff([]State{StateAwaitingFile, StateAwaitingUserReady, StateAborted}, states(result)); diff != "" {
		t.Errorf("state history mismatch (-want +got):\n%s", diff)
	}
	if surface.Clicks() != 0 || len(surface.Writes()) != 0 {
		t.Error("surface should not be touched")
	}
}

func TestRun_BadQuantityWritesNothing(t *testing.T) {
	cart := writeCart(t, [][]interface{}{
		{"A1", "Widget", 2, "£12.50"},
		{"B2", "Gadget", "two", "£3.00"},
	})
	surface := formtest.New(1)
	o := New(testConfig(), StaticFile(cart), AutoConfirm{}, surface, nil)

	result := o.Run(context.Background())

	if result.State != StateFailed {
		t.Fatalf("State = %s, want FAILED", result.State)
	}
	if !quote.IsMalformed(result.Err) {
		t.Errorf("Err = %v, want malformed quote", result.Err)
	}
	if surface.Clicks() != 0 || len(surface.Writes()) != 0 {
		t.Errorf("surface touched: %d clicks, %d writes", surface.Clicks(), len(surface.Writes()))
	}
}

func TestRun_SurplusRows(t *testing.T) {
	surface := formtest.New(5)
	o := New(testConfig(), StaticFile(roundTripCart(t)), AutoConfirm{}, surface, nil)

	result := o.Run(context.Background())
	if result.Err != nil {
		t.Fatalf("Run() error = %v", result.Err)
	}

	if surface.Clicks() != 0 || result.Stats.RowsAdded != 0 {
		t.Errorf("form grew: %d clicks, %d rows added", surface.Clicks(), result.Stats.RowsAdded)
	}
	for _, token := range []types.RowToken{"4", "5"} {
		if v := surface.Value("partno", token); v != "" {
			t.Errorf("surplus row %s part number = %q", token, v)
		}
		if v := surface.Value("categorycode", token); v != "LZ" {
			t.Errorf("surplus row %s category = %q, want LZ", token, v)
		}
	}
}

func TestRun_FormDoesNotGrow(t *testing.T) {
	surface := formtest.New(1, formtest.WithMaxRows(1))
	o := New(testConfig(), StaticFile(roundTripCart(t)), AutoConfirm{}, surface, nil)

	result := o.Run(context.Background())

	var grow *form.FormDidNotGrowError
	if result.State != StateFailed || !errors.As(result.Err, &grow) {
		t.Fatalf("got %s / %v, want FAILED / FormDidNotGrowError", result.State, result.Err)
	}
	if len(surface.Writes()) != 0 {
		t.Error("no fields should be written when growth fails")
	}
}

func TestRun_MissingFieldStopsRun(t *testing.T) {
	surface := formtest.New(3)
	surface.Remove("qty", "2")
	o := New(testConfig(), StaticFile(roundTripCart(t)), AutoConfirm{}, surface, nil)

	result := o.Run(context.Background())

	var missing *form.FieldNotFoundError
	if result.State != StateFailed || !errors.As(result.Err, &missing) {
		t.Fatalf("got %s / %v, want FAILED / FieldNotFoundError", result.State, result.Err)
	}
	if got := states(result); got[len(got)-2] != StateFilling {
		t.Errorf("failed from %s, want FILLING", got[len(got)-2])
	}
}

// =============================================================================
// STATE MACHINE
// =============================================================================

func TestTransition(t *testing.T) {
	tests := []struct {
		from, to State
		ok       bool
	}{
		{StateAwaitingFile, StateAwaitingUserReady, true},
		{StateAwaitingFile, StateAborted, true},
		{StateAwaitingUserReady, StateAborted, true},
		{StateAwaitingUserReady, StateParsing, true},
		{StateParsing, StateGrowing, true},
		{StateGrowing, StateFilling, true},
		{StateFilling, StateCategorizing, true},
		{StateCategorizing, StateDone, true},
		{StateGrowing, StateFailed, true},
		{StateParsing, StateAborted, false},
		{StateAwaitingFile, StateParsing, false},
		{StateFilling, StateDone, false},
		{StateDone, StateFailed, false},
		{StateAborted, StateAwaitingFile, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := Transition(tt.from, tt.to)
			if (err == nil) != tt.ok {
				t.Errorf("Transition(%s, %s) error = %v, want ok=%v", tt.from, tt.to, err, tt.ok)
			}
		})
	}
}

func TestResult_Report(t *testing.T) {
	surface := formtest.New(3)
	o := New(testConfig(), StaticFile(roundTripCart(t)), AutoConfirm{}, surface, nil)

	report := o.Run(context.Background()).Report()

	if report.State != "DONE" || report.Error != "" {
		t.Fatalf("report state %s error %q", report.State, report.Error)
	}
	if len(report.Items) != 3 || report.Items[2].Row != "3" || report.Items[2].UnitPrice != "100000.00" {
		t.Errorf("unexpected items: %+v", report.Items)
	}
	if len(report.History) != 7 || report.Started.IsZero() {
		t.Errorf("unexpected history: %+v", report.History)
	}
}

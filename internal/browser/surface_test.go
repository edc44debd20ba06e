package browser

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ginjaninja78/requisition-filler/internal/form"
)

func TestInputsFromFields(t *testing.T) {
	fields := []field{
		{ID: "description-1", Name: "description-1"},
		{ID: "description-n1", Name: "description-n1"},
		{ID: "description-total", Name: ""},
		{ID: "description-x", Name: "notes-x"},
	}

	got := inputsFromFields("description", fields)

	want := []form.Input{
		{Token: "1", Ref: `input[id="description-1"]`},
		{Token: "n1", Ref: `input[id="description-n1"]`},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("inputs mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryScript(t *testing.T) {
	script, err := queryScript("qty")
	if err != nil {
		t.Fatalf("queryScript() error = %v", err)
	}

	if !strings.Contains(script, `document.querySelectorAll("input[id^=\"qty-\"]")`) {
		t.Errorf("unexpected script: %s", script)
	}
}

func TestClosedSessionRejectsActions(t *testing.T) {
	s := &Session{}
	surface := s.Surface()

	if _, err := surface.QueryInputs(context.Background(), "qty"); err == nil {
		t.Error("QueryInputs() on a closed session should fail")
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on a closed session = %v", err)
	}
}

func TestCSSString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "description-n1", `"description-n1"`},
		{"quote", `qty-"1"`, `"qty-\"1\""`},
		{"backslash", `a\b`, `"a\\b"`},
		{"newline", "a\nb", `"a\a b"`},
		{"non-ascii kept", "prix-é", `"prix-é"`},
		{"nul", "a\x00b", "\"a�b\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cssString(tt.in); got != tt.want {
				t.Errorf("cssString(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestSelectorForID_EscapesQuotes(t *testing.T) {
	if got := selectorForID(`qty-"x"`); got != `input[id="qty-\"x\""]` {
		t.Errorf("selectorForID() = %s", got)
	}
}

package validation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		raw      string
		want     int
		wantRule string
	}{
		{raw: "2", want: 2},
		{raw: " 5 ", want: 5},
		{raw: "1,000", want: 1000},
		{raw: "3.0", want: 3},
		{raw: "0", want: 0},
		{raw: "", wantRule: RuleRequired},
		{raw: "two", wantRule: RuleInteger},
		{raw: "2.5", wantRule: RuleInteger},
		{raw: "-1", wantRule: RuleNonNegative},
		{raw: "99999999999", wantRule: RuleInteger},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseQuantity(tt.raw)
			if tt.wantRule != "" {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("ParseQuantity(%q) error = %v, want *ValidationError", tt.raw, err)
				}
				if ve.Rule != tt.wantRule {
					t.Errorf("rule = %q, want %q", ve.Rule, tt.wantRule)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseQuantity(%q) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseQuantity(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "£12.50", want: "12.50"},
		{raw: "£3.00", want: "3.00"},
		{raw: "£100,000.00", want: "100000.00"},
		{raw: " $ 1 234.5 ", want: "1234.5"},
		{raw: "€0.042", want: "0.042"},
		{raw: "7", want: "7"},
		{raw: "1.2.3", wantErr: true},
		{raw: "£", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizePrice(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizePrice(%q) = %q, want error", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizePrice(%q) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizePrice(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizePrice_Idempotent(t *testing.T) {
	inputs := []string{"£12.50", "£100,000.00", "0.5", "42", ".75", "GBP 9.99"}

	for _, raw := range inputs {
		once, err := NormalizePrice(raw)
		if err != nil {
			t.Fatalf("NormalizePrice(%q) error = %v", raw, err)
		}
		twice, err := NormalizePrice(once)
		if err != nil {
			t.Fatalf("NormalizePrice(%q) error = %v", once, err)
		}
		if once != twice {
			t.Errorf("not idempotent: %q -> %q -> %q", raw, once, twice)
		}
	}
}

func TestParsePrice(t *testing.T) {
	got, err := ParsePrice("£100,000.00")
	if err != nil {
		t.Fatalf("ParsePrice() error = %v", err)
	}
	if !got.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("ParsePrice() = %s, want 100000", got)
	}

	if _, err := ParsePrice("n/a"); err == nil {
		t.Error("expected error for price without digits")
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Field: "Order Qty.", Value: "x", Message: "quantity is not a number"}
	want := "field 'Order Qty.': quantity is not a number (value: 'x')"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

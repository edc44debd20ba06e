package cmd

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ginjaninja78/requisition-filler/internal/form"
	"github.com/ginjaninja78/requisition-filler/internal/quote"
	"github.com/ginjaninja78/requisition-filler/internal/requisition"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, ExitOK},
		{"aborted", requisition.ErrUserAborted, ExitAborted},
		{"malformed", fmt.Errorf("failed to parse quote: %w", &quote.MalformedQuoteError{Reason: "bad"}), ExitMalformedQuote},
		{"did not grow", fmt.Errorf("failed to grow form: %w", &form.FormDidNotGrowError{Target: 3, Have: 1}), ExitFormError},
		{"field missing", &form.FieldNotFoundError{Prefix: "qty", Token: "2"}, ExitFormError},
		{"other", errors.New("chrome not found"), ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDescribeError(t *testing.T) {
	if got := describeError(requisition.ErrUserAborted); got != "Aborted." {
		t.Errorf("describeError(aborted) = %q", got)
	}
	got := describeError(&quote.MalformedQuoteError{Row: 11, Column: "Order Qty.", Reason: "invalid cell"})
	if !strings.Contains(got, "nothing was entered") || !strings.Contains(got, "row 11") {
		t.Errorf("describeError(malformed) = %q", got)
	}
}

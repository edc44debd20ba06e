package cmd

import (
	"errors"
	"fmt"

	"github.com/ginjaninja78/requisition-filler/internal/form"
	"github.com/ginjaninja78/requisition-filler/internal/quote"
	"github.com/ginjaninja78/requisition-filler/internal/requisition"
)

// Process exit codes.
const (
	ExitOK             = 0
	ExitError          = 1
	ExitAborted        = 2
	ExitMalformedQuote = 3
	ExitFormError      = 4
)

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, requisition.ErrUserAborted):
		return ExitAborted
	case quote.IsMalformed(err):
		return ExitMalformedQuote
	case form.IsFormError(err):
		return ExitFormError
	default:
		return ExitError
	}
}

// describeError renders the one-line message printed before exiting.
func describeError(err error) string {
	var (
		grow  *form.FormDidNotGrowError
		field *form.FieldNotFoundError
	)

	switch {
	case errors.Is(err, requisition.ErrUserAborted):
		return "Aborted."
	case quote.IsMalformed(err):
		return fmt.Sprintf("Quote rejected, nothing was entered: %v", err)
	case errors.As(err, &grow):
		return fmt.Sprintf("The form stopped adding rows (%d of %d). Check the page and start again: %v", grow.Have, grow.Target, err)
	case errors.As(err, &field):
		return fmt.Sprintf("The form is missing an expected input; it may be partly filled, check it before retrying: %v", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

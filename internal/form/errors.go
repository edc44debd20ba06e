package form

import (
	"errors"
	"fmt"

	"github.com/ginjaninja78/requisition-filler/internal/types"
)

// FormDidNotGrowError is returned when the add-row control stops producing new
// rows before the target row count is reached.
type FormDidNotGrowError struct {
	Target   int
	Have     int
	Attempts int
}

func (e *FormDidNotGrowError) Error() string {
	return fmt.Sprintf("form did not grow: have %d row(s), need %d, after %d add-row attempt(s)",
		e.Have, e.Target, e.Attempts)
}

// FieldNotFoundError is returned when an expected input is missing for a row.
// Token is empty when there is no row at all for the item at position Item.
type FieldNotFoundError struct {
	Attribute types.Attribute
	Prefix    string
	Token     types.RowToken
	Item      int
}

func (e *FieldNotFoundError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("field not found: no form row available for item %d", e.Item)
	}
	return fmt.Sprintf("field not found: no %s input %q for row %q", e.Attribute, e.Prefix+"-"+string(e.Token), e.Token)
}

// IsFormError reports whether err is one of the form interaction errors.
func IsFormError(err error) bool {
	var grow *FormDidNotGrowError
	var field *FieldNotFoundError
	return errors.As(err, &grow) || errors.As(err, &field)
}

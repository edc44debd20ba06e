package quote

import (
	"errors"
	"fmt"
	"strings"
)

// MalformedQuoteError reports a quote export that does not match the expected
// layout: a missing column, an undecodable file, or a cell that cannot be
// reduced to its typed value.
type MalformedQuoteError struct {
	File   string
	Row    int
	Column string
	Value  string
	Reason string
	Err    error
}

func (e *MalformedQuoteError) Error() string {
	if e == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("malformed quote")
	if e.File != "" {
		fmt.Fprintf(&b, " %s", e.File)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column %q", e.Column)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *MalformedQuoteError) Unwrap() error { return e.Err }

// IsMalformed reports whether err is (or wraps) a MalformedQuoteError.
func IsMalformed(err error) bool {
	var mq *MalformedQuoteError
	return errors.As(err, &mq)
}

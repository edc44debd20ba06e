// Package formtest provides an in-memory form.Surface for tests.
//
// The fake models a requisition "Items" page: a list of rows, each carrying
// one input per field prefix named "<prefix>-<token>", plus an add-row
// control. New rows can be made to appear only after a number of queries to
// mimic the page's render delay, and every write is recorded in order.
package formtest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/ginjaninja78/requisition-filler/internal/form"
	"github.com/ginjaninja78/requisition-filler/internal/types"
)

// EDRSPrefixes are the field prefixes of the EDRS requisition Items page.
var EDRSPrefixes = []string{"partno", "qty", "description", "unitprice", "categorycode"}

// DefaultAddRow is the ref of the add-row control unless overridden.
const DefaultAddRow form.ElementRef = "[name='addmorelines']"

// TokenScheme names the i-th row ever created (0-based).
type TokenScheme func(i int) types.RowToken

// NumericTokens names rows "1", "2", "3", ...
func NumericTokens(i int) types.RowToken {
	return types.RowToken(strconv.Itoa(i + 1))
}

// MixedTokens names the first initial rows numerically and every later row
// "n1", "n2", ..., the way EDRS does for lines added client side.
func MixedTokens(initial int) TokenScheme {
	return func(i int) types.RowToken {
		if i < initial {
			return types.RowToken(strconv.Itoa(i + 1))
		}
		return types.RowToken("n" + strconv.Itoa(i-initial+1))
	}
}

// SparseTokens names rows with non-contiguous numbers (3, 10, 17, ...).
func SparseTokens(i int) types.RowToken {
	return types.RowToken(strconv.Itoa(i*7 + 3))
}

// Write is one recorded SetText call.
type Write struct {
	Ref   form.ElementRef
	Value string
}

// Option configures a Surface.
type Option func(*Surface)

// WithTokens sets the token scheme.
func WithTokens(scheme TokenScheme) Option {
	return func(s *Surface) { s.scheme = scheme }
}

// WithPrefixes sets the field prefixes every row carries.
func WithPrefixes(prefixes ...string) Option {
	return func(s *Surface) { s.prefixes = prefixes }
}

// WithLag makes rows added by a click visible only after n further queries.
func WithLag(n int) Option {
	return func(s *Surface) { s.lag = n }
}

// WithMaxRows caps the number of rows; clicks beyond it do nothing.
func WithMaxRows(n int) Option {
	return func(s *Surface) { s.maxRows = n }
}

// WithAddRow sets the ref of the add-row control.
func WithAddRow(ref form.ElementRef) Option {
	return func(s *Surface) { s.addRow = ref }
}

type pendingRow struct {
	token     types.RowToken
	remaining int
}

// Surface is an in-memory form.Surface. It is safe for concurrent use.
type Surface struct {
	mu sync.Mutex

	prefixes []string
	scheme   TokenScheme
	addRow   form.ElementRef
	lag      int
	maxRows  int

	created int
	rows    []types.RowToken
	pending []pendingRow
	removed map[form.ElementRef]bool
	values  map[form.ElementRef]string

	writes  []Write
	clicks  int
	queries map[string][]int

	// QueryErr, when set, is returned by every QueryInputs call.
	QueryErr error
}

var _ form.Surface = (*Surface)(nil)

// New creates a surface with rows visible rows.
func New(rows int, opts ...Option) *Surface {
	s := &Surface{
		prefixes: EDRSPrefixes,
		scheme:   NumericTokens,
		addRow:   DefaultAddRow,
		removed:  make(map[form.ElementRef]bool),
		values:   make(map[form.ElementRef]string),
		queries:  make(map[string][]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	for i := 0; i < rows; i++ {
		s.rows = append(s.rows, s.nextToken())
	}
	return s
}

// Ref returns the element ref of the input for prefix on row token.
func Ref(prefix string, token types.RowToken) form.ElementRef {
	return form.ElementRef(prefix + "-" + string(token))
}

// QueryInputs implements form.Surface.
func (s *Surface) QueryInputs(ctx context.Context, prefix string) ([]form.Input, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.QueryErr != nil {
		return nil, s.QueryErr
	}
	s.settle()

	var inputs []form.Input
	if s.hasPrefix(prefix) {
		for _, token := range s.rows {
			ref := Ref(prefix, token)
			if s.removed[ref] {
				continue
			}
			inputs = append(inputs, form.Input{Token: token, Ref: ref})
		}
	}
	s.queries[prefix] = append(s.queries[prefix], len(inputs))
	return inputs, nil
}

// Click implements form.Surface. Only the add-row control is clickable.
func (s *Surface) Click(ctx context.Context, ref form.ElementRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ref != s.addRow {
		return fmt.Errorf("formtest: no clickable element %q", ref)
	}
	s.clicks++

	if s.maxRows > 0 && len(s.rows)+len(s.pending) >= s.maxRows {
		return nil
	}

	token := s.nextToken()
	if s.lag <= 0 {
		s.rows = append(s.rows, token)
		return nil
	}
	s.pending = append(s.pending, pendingRow{token: token, remaining: s.lag})
	return nil
}

// SetText implements form.Surface.
func (s *Surface) SetText(ctx context.Context, ref form.ElementRef, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.exists(ref) {
		return fmt.Errorf("formtest: no input %q", ref)
	}
	s.values[ref] = value
	s.writes = append(s.writes, Write{Ref: ref, Value: value})
	return nil
}

// Remove deletes the input for prefix on row token, simulating a broken page.
func (s *Surface) Remove(prefix string, token types.RowToken) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed[Ref(prefix, token)] = true
}

// Rows returns the visible row tokens in document order.
func (s *Surface) Rows() []types.RowToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.RowToken(nil), s.rows...)
}

// Value returns the current value of the input for prefix on row token.
func (s *Surface) Value(prefix string, token types.RowToken) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[Ref(prefix, token)]
}

// Writes returns every SetText call in order.
func (s *Surface) Writes() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Write(nil), s.writes...)
}

// Clicks returns how many times the add-row control was clicked.
func (s *Surface) Clicks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clicks
}

// QuerySizes returns the number of inputs each QueryInputs(prefix) call saw.
func (s *Surface) QuerySizes(prefix string) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.queries[prefix]...)
}

func (s *Surface) nextToken() types.RowToken {
	token := s.scheme(s.created)
	s.created++
	return token
}

// settle advances the render lag by one query.
func (s *Surface) settle() {
	kept := s.pending[:0]
	for _, p := range s.pending {
		p.remaining--
		if p.remaining <= 0 {
			s.rows = append(s.rows, p.token)
			continue
		}
		kept = append(kept, p)
	}
	s.pending = kept
}

func (s *Surface) hasPrefix(prefix string) bool {
	for _, p := range s.prefixes {
		if p == prefix {
			return true
		}
	}
	return false
}

func (s *Surface) exists(ref form.ElementRef) bool {
	if s.removed[ref] {
		return false
	}
	for _, prefix := range s.prefixes {
		token, ok := strings.CutPrefix(string(ref), prefix+"-")
		if !ok {
			continue
		}
		for _, row := range s.rows {
			if string(row) == token {
				return true
			}
		}
	}
	return false
}

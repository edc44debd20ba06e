package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/ginjaninja78/requisition-filler/internal/form"
)

// Surface drives the form on the session's current page. Element refs are CSS
// selectors.
type Surface struct {
	session *Session
}

var _ form.Surface = (*Surface)(nil)

// field is one input as reported by the page.
type field struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// QueryInputs lists the inputs whose id starts with "<prefix>-" in document
// order. The row token is taken from the input's name.
func (s *Surface) QueryInputs(ctx context.Context, prefix string) ([]form.Input, error) {
	script, err := queryScript(prefix)
	if err != nil {
		return nil, err
	}

	var fields []field
	if err := s.session.run(ctx, chromedp.Evaluate(script, &fields)); err != nil {
		return nil, fmt.Errorf("failed to query inputs %q: %w", prefix, err)
	}
	return inputsFromFields(prefix, fields), nil
}

// Click clicks the element matching the selector ref.
func (s *Surface) Click(ctx context.Context, ref form.ElementRef) error {
	if err := s.session.run(ctx, chromedp.Click(string(ref), chromedp.ByQuery)); err != nil {
		return fmt.Errorf("failed to click %s: %w", ref, err)
	}
	return nil
}

// SetText clears the input matching ref and types value into it, so the
// page's own input handlers see the change.
func (s *Surface) SetText(ctx context.Context, ref form.ElementRef, value string) error {
	sel := string(ref)
	err := s.session.run(ctx, chromedp.Tasks{
		chromedp.Clear(sel, chromedp.ByQuery),
		chromedp.SendKeys(sel, value, chromedp.ByQuery),
	})
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", ref, err)
	}
	return nil
}

// queryScript builds the JavaScript that lists matching inputs.
func queryScript(prefix string) (string, error) {
	sel, err := json.Marshal("input[id^=" + cssString(prefix+"-") + "]")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		`Array.from(document.querySelectorAll(%s)).map(e => ({id: e.id, name: e.name}))`,
		sel,
	), nil
}

// inputsFromFields converts raw page fields to inputs, skipping fields whose
// name does not carry a row token.
func inputsFromFields(prefix string, fields []field) []form.Input {
	inputs := make([]form.Input, 0, len(fields))
	for _, f := range fields {
		token, ok := form.TokenFromFieldName(f.Name, prefix)
		if !ok {
			continue
		}
		inputs = append(inputs, form.Input{Token: token, Ref: selectorForID(f.ID)})
	}
	return inputs
}

// selectorForID returns a CSS selector matching exactly one element id.
func selectorForID(id string) form.ElementRef {
	return form.ElementRef("input[id=" + cssString(id) + "]")
}

// cssString quotes s as a CSS string token. Quotes and backslashes are
// backslash-escaped, control characters use CSS hex escapes and NUL becomes
// U+FFFD, which is what CSS parsers substitute for it.
func cssString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == 0:
			b.WriteRune('\uFFFD')
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, "\\%x ", r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

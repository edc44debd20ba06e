// =============================================================================
// Requisition Filler - Terminal Prompts
// =============================================================================
//
// Interactive adapters for the two operator touch points of a run: choosing
// the quote file and confirming that the browser is on the Items page.
//
// Ctrl-C at either prompt is treated the same as declining: the file prompt
// returns no file and the confirmation returns false, which the run reports
// as aborted.
//
// =============================================================================

package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// errInterrupted marks an interrupted prompt.
var errInterrupted = errors.New("prompt interrupted")

// askFunc matches survey.AskOne so tests can replace the terminal.
type askFunc func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error

// =============================================================================
// FILE PROMPT
// =============================================================================

// FilePrompt asks the operator for the path of the quote export.
type FilePrompt struct {
	Message string

	// Extensions restricts accepted files (lower case, with dot). Empty
	// accepts any existing file.
	Extensions []string

	ask askFunc
}

// NewFilePrompt creates a FilePrompt accepting the given extensions.
func NewFilePrompt(extensions ...string) *FilePrompt {
	return &FilePrompt{
		Message:    "Quote file (leave empty to cancel):",
		Extensions: extensions,
		ask:        survey.AskOne,
	}
}

// ChooseFile returns the chosen path, or "" when the operator chose nothing.
func (p *FilePrompt) ChooseFile(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var answer string
	prompt := &survey.Input{
		Message: p.Message,
		Help:    "Path to the spreadsheet exported from the supplier's shopping cart.",
	}
	if err := p.ask(prompt, &answer, survey.WithValidator(p.validate)); err != nil {
		if errors.Is(translateSurveyErr(err), errInterrupted) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read file path: %w", err)
	}
	return cleanPath(answer), nil
}

// validate accepts an empty answer (cancel) or an existing regular file with
// a supported extension.
func (p *FilePrompt) validate(ans interface{}) error {
	raw, _ := ans.(string)
	path := cleanPath(raw)
	if path == "" {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}

	if len(p.Extensions) == 0 {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range p.Extensions {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("unsupported file type %q (expected %s)", ext, strings.Join(p.Extensions, ", "))
}

// cleanPath trims whitespace and the quotes terminals add to dropped files.
func cleanPath(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

// =============================================================================
// CONFIRMATION
// =============================================================================

// Confirmer asks a yes/no question.
type Confirmer struct {
	Default bool

	ask askFunc
}

// NewConfirmer creates a Confirmer that defaults to def.
func NewConfirmer(def bool) *Confirmer {
	return &Confirmer{Default: def, ask: survey.AskOne}
}

// Confirm shows message and reports whether the operator agreed.
func (c *Confirmer) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var out bool
	prompt := &survey.Confirm{
		Message: message,
		Default: c.Default,
	}
	if err := c.ask(prompt, &out); err != nil {
		if errors.Is(translateSurveyErr(err), errInterrupted) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errInterrupted
	}
	return err
}

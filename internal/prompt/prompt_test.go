package prompt

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// answer returns an askFunc that runs the prompt's validators against value
// and stores it, the way survey.AskOne would after the operator typed it.
func answer(value interface{}) askFunc {
	return func(_ survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
		var options survey.AskOptions
		for _, opt := range opts {
			if err := opt(&options); err != nil {
				return err
			}
		}
		for _, v := range options.Validators {
			if err := v(value); err != nil {
				return err
			}
		}

		switch out := response.(type) {
		case *string:
			*out = value.(string)
		case *bool:
			*out = value.(bool)
		}
		return nil
	}
}

func interrupted(survey.Prompt, interface{}, ...survey.AskOpt) error {
	return terminal.InterruptErr
}

func TestChooseFile(t *testing.T) {
	dir := t.TempDir()
	quote := filepath.Join(dir, "cart.xlsx")
	if err := os.WriteFile(quote, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		ask     askFunc
		want    string
		wantErr bool
	}{
		{"existing file", answer(quote), quote, false},
		{"quoted path", answer(`"` + quote + `"`), quote, false},
		{"empty cancels", answer(""), "", false},
		{"interrupt cancels", interrupted, "", false},
		{"missing file", answer(filepath.Join(dir, "nope.xlsx")), "", true},
		{"directory", answer(dir), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewFilePrompt(".xlsx", ".csv")
			p.ask = tt.ask

			got, err := p.ChooseFile(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("ChooseFile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ChooseFile() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChooseFile_RejectsExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.pdf")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewFilePrompt(".xlsx")
	if err := p.validate(path); err == nil {
		t.Error("validate() accepted a .pdf file")
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name    string
		ask     askFunc
		want    bool
		wantErr bool
	}{
		{"yes", answer(true), true, false},
		{"no", answer(false), false, false},
		{"interrupt declines", interrupted, false, false},
		{"terminal failure", func(survey.Prompt, interface{}, ...survey.AskOpt) error {
			return errors.New("not a terminal")
		}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConfirmer(true)
			c.ask = tt.ask

			got, err := c.Confirm(context.Background(), "Ready?")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Confirm() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfirm_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewConfirmer(true)
	c.ask = answer(true)
	if _, err := c.Confirm(ctx, "Ready?"); !errors.Is(err, context.Canceled) {
		t.Errorf("Confirm() error = %v, want context.Canceled", err)
	}
}

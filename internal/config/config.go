// =============================================================================
// Requisition Filler - Configuration Module
// =============================================================================
//
// This module is responsible for loading and validating the application
// configuration. A single YAML file describes:
//   1. How the supplier quote spreadsheet is laid out (quote section)
//   2. How the target requisition form names its inputs (form section)
//   3. How the browser session is launched (browser section)
//   4. Logging and run-report settings
//
// Every setting has a default reproducing the Mouser cart export -> EDRS
// requisition workflow, so the file is optional.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ginjaninja78/requisition-filler/internal/types"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// Quote describes the layout of the supplier spreadsheet export.
	Quote QuoteSettings `yaml:"quote"`

	// Form describes the target requisition form.
	Form FormSettings `yaml:"form"`

	// Browser controls the browser session used to drive the form.
	Browser BrowserSettings `yaml:"browser"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// ReportDir is where a YAML report is written after every run.
	// Default: "" (run reports disabled)
	ReportDir string `yaml:"report_dir"`

	// ReportNameFormat is the file name format for run reports.
	// Placeholders: {uuid}, {timestamp}, {date}, {time}, {state}
	// Default: "run_{timestamp}_{uuid}.yaml"
	ReportNameFormat string `yaml:"report_name_format"`
}

// =============================================================================
// QUOTE SETTINGS
// =============================================================================

// QuoteSettings describes where the item table sits inside the export.
type QuoteSettings struct {
	// SkipRows is the number of leading rows to skip before the header.
	// Mouser cart exports carry 8 rows of cart metadata above the table.
	// Default: 8
	SkipRows *int `yaml:"skip_rows"`

	// HeaderRow is the header row index relative to the first row after
	// SkipRows (0-based).
	// Default: 0
	HeaderRow int `yaml:"header_row"`

	// Sheet is the worksheet name for spreadsheet exports.
	// Default: "" (the first sheet)
	Sheet string `yaml:"sheet"`

	// Delimiter is the field separator for CSV exports. Accepts a single
	// character or one of "tab", "pipe", "semicolon".
	// Default: "" (comma)
	Delimiter string `yaml:"delimiter"`

	// Columns maps each item attribute to its column header.
	Columns QuoteColumns `yaml:"columns"`
}

// QuoteColumns names the spreadsheet column that feeds each item attribute.
// Header matching ignores case and surrounding whitespace.
type QuoteColumns struct {
	PartNumber  string `yaml:"part_number"`
	Quantity    string `yaml:"quantity"`
	Description string `yaml:"description"`
	UnitPrice   string `yaml:"unit_price"`
}

// =============================================================================
// FORM SETTINGS
// =============================================================================

// FormSettings describes the requisition form being filled.
type FormSettings struct {
	// URL is opened when the browser session starts.
	// Default: "https://edrs.eng.cam.ac.uk/req/"
	URL string `yaml:"url"`

	// Anchor is the field-name prefix used to discover row tokens. Every row
	// must carry exactly one input with this prefix.
	// Default: "description"
	Anchor string `yaml:"anchor"`

	// AddRowSelector identifies the control that appends a row.
	// Default: "[name='addmorelines']"
	AddRowSelector string `yaml:"add_row_selector"`

	// Category is written into the category input of every row. An explicit
	// empty string leaves the category inputs untouched.
	// Default: "LZ"
	Category *string `yaml:"category"`

	// Fields maps canonical attributes to form field-name prefixes. Recognised
	// keys: quantity, partNumber, description, unitPrice, category.
	Fields map[string]string `yaml:"fields"`

	// Grow bounds the wait for new rows to render.
	Grow GrowSettings `yaml:"grow"`
}

// GrowSettings bounds the row-growing loop.
type GrowSettings struct {
	// PollInterval is the delay between row-count checks after an add.
	// Default: 100ms
	PollInterval time.Duration `yaml:"poll_interval"`

	// SettleTimeout is how long one add may take to show a new row.
	// Default: 5s
	SettleTimeout time.Duration `yaml:"settle_timeout"`

	// MaxStagnant is the number of consecutive adds that may fail to grow
	// the form before giving up.
	// Default: 3
	MaxStagnant int `yaml:"max_stagnant"`
}

// =============================================================================
// BROWSER SETTINGS
// =============================================================================

// BrowserSettings controls the Chrome instance driven by the filler.
type BrowserSettings struct {
	// ExecPath is the Chrome/Chromium binary. Empty lets chromedp search.
	ExecPath string `yaml:"exec_path"`

	// Headless runs without a window. The operator has to log in, so this is
	// only useful against pre-authenticated profiles.
	// Default: false
	Headless bool `yaml:"headless"`

	// UserDataDir reuses a browser profile (cookies, saved logins).
	UserDataDir string `yaml:"user_data_dir"`

	// WindowWidth and WindowHeight size the browser window.
	// Default: 1280 x 900
	WindowWidth  int `yaml:"window_width"`
	WindowHeight int `yaml:"window_height"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load reads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//   - required: Whether a missing file is an error. When false, a missing
//     file yields the default configuration.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read, parsed, or validated.
func Load(configPath string, required bool) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes, defaults and validates a YAML configuration document.
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var config Config
	applyDefaults(&config)
	return &config
}

// DefaultFields is the EDRS field-name prefix for each canonical attribute.
func DefaultFields() map[string]string {
	return map[string]string{
		string(types.AttrQuantity):    "qty",
		string(types.AttrPartNumber):  "partno",
		string(types.AttrDescription): "description",
		string(types.AttrUnitPrice):   "unitprice",
		string(types.AttrCategory):    "categorycode",
	}
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *Config) {
	// Quote defaults.
	if config.Quote.SkipRows == nil {
		skip := 8
		config.Quote.SkipRows = &skip
	}
	if config.Quote.Columns.PartNumber == "" {
		config.Quote.Columns.PartNumber = "Mouser No"
	}
	if config.Quote.Columns.Quantity == "" {
		config.Quote.Columns.Quantity = "Order Qty."
	}
	if config.Quote.Columns.Description == "" {
		config.Quote.Columns.Description = "Description"
	}
	if config.Quote.Columns.UnitPrice == "" {
		config.Quote.Columns.UnitPrice = "Price (GBP)"
	}

	// Form defaults.
	if config.Form.URL == "" {
		config.Form.URL = "https://edrs.eng.cam.ac.uk/req/"
	}
	if config.Form.Anchor == "" {
		config.Form.Anchor = "description"
	}
	if config.Form.AddRowSelector == "" {
		config.Form.AddRowSelector = "[name='addmorelines']"
	}
	if config.Form.Category == nil {
		category := "LZ"
		config.Form.Category = &category
	}
	if config.Form.Fields == nil {
		config.Form.Fields = DefaultFields()
	}
	if config.Form.Grow.PollInterval == 0 {
		config.Form.Grow.PollInterval = 100 * time.Millisecond
	}
	if config.Form.Grow.SettleTimeout == 0 {
		config.Form.Grow.SettleTimeout = 5 * time.Second
	}
	if config.Form.Grow.MaxStagnant == 0 {
		config.Form.Grow.MaxStagnant = 3
	}

	// Browser defaults.
	if config.Browser.WindowWidth == 0 {
		config.Browser.WindowWidth = 1280
	}
	if config.Browser.WindowHeight == 0 {
		config.Browser.WindowHeight = 900
	}

	// Logging and reports.
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.ReportNameFormat == "" {
		config.ReportNameFormat = "run_{timestamp}_{uuid}.yaml"
	}
}

// Validate checks a (defaulted) configuration for errors. Unmapped or unknown
// field-mapping keys are reported here, before any browser work starts.
func Validate(config *Config) error {
	var problems []string

	if config.Quote.SkipRows != nil && *config.Quote.SkipRows < 0 {
		problems = append(problems, "quote.skip_rows must not be negative")
	}
	if config.Quote.HeaderRow < 0 {
		problems = append(problems, "quote.header_row must not be negative")
	}
	if !validDelimiter(config.Quote.Delimiter) {
		problems = append(problems, fmt.Sprintf("quote.delimiter %q must be one character or one of tab, pipe, semicolon", config.Quote.Delimiter))
	}

	for key := range config.Form.Fields {
		if !types.Attribute(key).IsValid() {
			problems = append(problems, fmt.Sprintf("form.fields: unknown attribute %q", key))
		}
	}
	for _, attr := range config.FieldMapping().Missing(types.AllAttributes...) {
		problems = append(problems, fmt.Sprintf("form.fields: no prefix mapped for %q", attr))
	}

	if strings.TrimSpace(config.Form.Anchor) == "" {
		problems = append(problems, "form.anchor must not be blank")
	}
	if config.Form.Grow.PollInterval < 0 || config.Form.Grow.SettleTimeout < 0 {
		problems = append(problems, "form.grow durations must not be negative")
	}
	if config.Form.Grow.PollInterval > config.Form.Grow.SettleTimeout {
		problems = append(problems, "form.grow.poll_interval must not exceed settle_timeout")
	}
	if config.Form.Grow.MaxStagnant < 0 {
		problems = append(problems, "form.grow.max_stagnant must not be negative")
	}

	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log_level %q is not one of debug, info, warn, error", config.LogLevel))
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// FieldMapping converts the YAML field map into the typed mapping consumed by
// the form package. Prefixes are trimmed; unknown keys are dropped.
func (c *Config) FieldMapping() types.FieldMapping {
	mapping := make(types.FieldMapping, len(c.Form.Fields))
	for key, prefix := range c.Form.Fields {
		attr := types.Attribute(key)
		if !attr.IsValid() {
			continue
		}
		mapping[attr] = strings.TrimSpace(prefix)
	}
	return mapping
}

// CategoryCode returns the configured category code ("" disables it).
func (f FormSettings) CategoryCode() string {
	if f.Category == nil {
		return ""
	}
	return *f.Category
}

// SetCategory overrides the category code.
func (f *FormSettings) SetCategory(code string) {
	f.Category = &code
}

// validDelimiter reports whether d names a usable CSV separator.
func validDelimiter(d string) bool {
	switch strings.ToLower(d) {
	case "", "tab", `\t`, "pipe", "semicolon":
		return true
	}
	if utf8.RuneCountInString(d) != 1 {
		return false
	}
	return d != `"` && d != "\n" && d != "\r"
}

// SkipRowCount returns the configured number of leading rows to skip.
func (q QuoteSettings) SkipRowCount() int {
	if q.SkipRows == nil {
		return 0
	}
	return *q.SkipRows
}

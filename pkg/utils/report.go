// =============================================================================
// Requisition Filler - Run Report Utility
// =============================================================================
//
// This module writes a YAML record of every run: which file was used, which
// state the run ended in, what was written and any error. Operators attach
// these to support requests when a requisition comes out wrong.
//
// FILE NAMING:
//   Report names come from a format string with placeholders, for example
//   "run_{timestamp}_{uuid}.yaml". Reports always end in ".yaml".
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// REPORT STRUCTURE
// =============================================================================

// RunReport is the serialised outcome of one run.
type RunReport struct {
	RunID    string        `yaml:"run_id"`
	File     string        `yaml:"file"`
	State    string        `yaml:"state"`
	Error    string        `yaml:"error,omitempty"`
	Started  time.Time     `yaml:"started"`
	Duration string        `yaml:"duration"`
	Stats    ReportStats   `yaml:"stats"`
	Rows     []string      `yaml:"rows,omitempty"`
	Items    []ReportItem  `yaml:"items,omitempty"`
	History  []ReportState `yaml:"history"`
}

// ReportStats mirrors the run statistics.
type ReportStats struct {
	Items         int `yaml:"items"`
	RowsAdded     int `yaml:"rows_added"`
	FieldsWritten int `yaml:"fields_written"`
}

// ReportItem is one quote item paired with the row it was written to.
type ReportItem struct {
	Row         string `yaml:"row,omitempty"`
	SourceRow   int    `yaml:"source_row"`
	PartNumber  string `yaml:"part_number"`
	Quantity    int    `yaml:"quantity"`
	Description string `yaml:"description"`
	UnitPrice   string `yaml:"unit_price"`
}

// ReportState is one entry of the state history.
type ReportState struct {
	State string    `yaml:"state"`
	At    time.Time `yaml:"at"`
}

// =============================================================================
// REPORT FILE NAMING
// =============================================================================

// GenerateReportFileName generates a unique report file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               any key of params, e.g. {state}
//   - params: A map of placeholder values.
//
// RETURNS:
//   - The generated file name, always ending in ".yaml".
//
// EXAMPLE:
//   format: "run_{state}_{date}.yaml"
//   params: {"state": "DONE"}
//   output: "run_DONE_20240523.yaml"
func GenerateReportFileName(format string, params map[string]string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	lower := strings.ToLower(result)
	if !strings.HasSuffix(lower, ".yaml") && !strings.HasSuffix(lower, ".yml") {
		result += ".yaml"
	}
	return result
}

// =============================================================================
// REPORT WRITING
// =============================================================================

// WriteRunReport writes report into dir.
//
// PARAMETERS:
//   - report: The report to write.
//   - dir: The directory to write into; created if missing.
//   - nameFormat: File name format, see GenerateReportFileName.
//
// RETURNS:
//   - The path of the written report.
//   - An error if writing fails.
func WriteRunReport(report RunReport, dir, nameFormat string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	name := GenerateReportFileName(nameFormat, map[string]string{
		"state":  strings.ToLower(report.State),
		"run_id": report.RunID,
	})
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

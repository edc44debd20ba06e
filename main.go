// =============================================================================
// Requisition Filler - Main Entry Point
// =============================================================================
//
// Requisition Filler copies the lines of a supplier quote export into the
// Items page of a web requisition form.
//
// USAGE:
//   reqfill fill        - Choose a quote and fill the requisition form
//   reqfill preview     - Show the lines a quote would produce
//   reqfill validate    - Validate the configuration file
//   reqfill version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : Cobra command definitions
//   - internal/      : Quote parsing, form engine, browser and prompts
//   - pkg/utils/     : Run report writing
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/requisition-filler/cmd"
)

func main() {
	cmd.Execute()
}

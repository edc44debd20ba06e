package requisition

import (
	"github.com/ginjaninja78/requisition-filler/internal/types"
	"github.com/ginjaninja78/requisition-filler/pkg/utils"
)

// Report converts the result into its serialisable run report.
func (r Result) Report() utils.RunReport {
	report := utils.RunReport{
		RunID:    r.RunID,
		File:     r.File,
		State:    r.State.String(),
		Duration: r.Stats.Duration.String(),
		Stats: utils.ReportStats{
			Items:         r.Stats.Items,
			RowsAdded:     r.Stats.RowsAdded,
			FieldsWritten: r.Stats.FieldsWritten,
		},
	}
	if r.Err != nil {
		report.Error = r.Err.Error()
	}
	if len(r.History) > 0 {
		report.Started = r.History[0].At
	}

	for _, token := range r.Tokens {
		report.Rows = append(report.Rows, string(token))
	}

	for i, item := range r.Items {
		entry := utils.ReportItem{
			SourceRow:   item.SourceRow,
			PartNumber:  item.PartNumber,
			Quantity:    item.Quantity,
			Description: item.Description,
			UnitPrice:   item.Value(types.AttrUnitPrice),
		}
		// Items are written to rows positionally.
		if i < len(r.Tokens) {
			entry.Row = string(r.Tokens[i])
		}
		report.Items = append(report.Items, entry)
	}

	for _, change := range r.History {
		report.History = append(report.History, utils.ReportState{State: change.State.String(), At: change.At})
	}
	return report
}

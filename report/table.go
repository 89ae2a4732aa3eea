package report

import (
	"fmt"

	"github.com/cohortly-org/cohortly/cohort"
)

// ============================================================================
// TABLE BUILDER — Render-ready tabular output
// ============================================================================
// TableData is what every exporter consumes — the CSV writer and the
// workbook writer both walk the same columns and rows.
// ============================================================================

// TableData is a render-ready table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number", "percent"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// BuildMatrixTable renders the retention matrix: one row per cohort, one
// percent column per month offset. Cells outside a cohort's observable
// window are left blank.
func BuildMatrixTable(matrix cohort.Matrix) *TableData {
	columns := []Column{
		{Key: "cohort", Label: "Cohort", Type: "text", Align: "left"},
		{Key: "size", Label: "Customers", Type: "number", Align: "right"},
		{Key: "revenue", Label: "First Month Revenue", Type: "number", Align: "right"},
	}
	for k := 0; k <= matrix.MaxOffset; k++ {
		columns = append(columns, Column{
			Key:   fmt.Sprintf("month_%d", k),
			Label: fmt.Sprintf("Month %d", k),
			Type:  "percent",
			Align: "right",
		})
	}

	rows := make([][]string, 0, len(matrix.Cohorts))
	var totalCustomers int
	totalRevenue := "0.00"
	for _, cr := range matrix.Cohorts {
		row := []string{cr.Cohort.Label(), fmt.Sprintf("%d", cr.Size), cr.FirstMonthRevenue.StringFixed(2)}
		for k := 0; k <= matrix.MaxOffset; k++ {
			if !matrix.Observable(cr.Cohort, k) {
				row = append(row, "")
				continue
			}
			rate := 0.0
			if k < len(cr.Rates) {
				rate = cr.Rates[k]
			}
			row = append(row, fmt.Sprintf("%.1f%%", rate*100))
		}
		rows = append(rows, row)
		totalCustomers += cr.Size
	}

	if len(matrix.Cohorts) > 0 {
		revenue := matrix.Cohorts[0].FirstMonthRevenue
		for _, cr := range matrix.Cohorts[1:] {
			revenue = revenue.Add(cr.FirstMonthRevenue)
		}
		totalRevenue = revenue.StringFixed(2)
	}

	return &TableData{
		Title:   "Cohort Retention Matrix",
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label: fmt.Sprintf("Total (%s cohorts)", cohort.FormatInt(len(matrix.Cohorts))),
			Values: map[string]string{
				"size":    cohort.FormatInt(totalCustomers),
				"revenue": totalRevenue,
			},
		},
	}
}

// BuildChurnTable renders the churn risk report.
func BuildChurnTable(rep ChurnReport) *TableData {
	columns := []Column{
		{Key: "cohort", Label: "Cohort", Type: "text", Align: "left"},
		{Key: "size", Label: "Customers", Type: "number", Align: "right"},
		{Key: "month_0", Label: "Month 0", Type: "percent", Align: "right"},
		{Key: "month_2", Label: "Month 2", Type: "percent", Align: "right"},
		{Key: "drop", Label: "Pct Drop M0-M2", Type: "number", Align: "right"},
		{Key: "risk", Label: "Churn Flag", Type: "text", Align: "left"},
		{Key: "alert", Label: "Alert", Type: "text", Align: "left"},
	}

	rows := make([][]string, 0, len(rep.Rows))
	for _, r := range rep.Rows {
		month2 := ""
		drop := ""
		if r.Risk != RiskNew {
			month2 = fmt.Sprintf("%.0f%%", r.Month2Rate*100)
			drop = fmt.Sprintf("%.1f", r.DropPct)
		}
		rows = append(rows, []string{
			r.Cohort.Label(),
			fmt.Sprintf("%d", r.Size),
			fmt.Sprintf("%.0f%%", r.Month0Rate*100),
			month2,
			drop,
			string(r.Risk),
			r.Alert,
		})
	}

	return &TableData{
		Title:   "Churn Risk Analysis Report",
		Columns: columns,
		Rows:    rows,
	}
}

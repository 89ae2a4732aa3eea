package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cohortly-org/cohortly/cohort"
)

// ============================================================================
// WORKBOOK EXPORT — Styled .xlsx for executive reporting
// ============================================================================
// Two sheets: the full retention matrix (percent formatted) and the churn
// risk report with color-coded risk cells. The palette matches the CSV
// consumer's dashboard theme.
// ============================================================================

const (
	matrixSheet = "Retention Matrix"
	churnSheet  = "Churn Risk"
)

// Risk cell fill colors.
var riskFills = map[RiskLevel]string{
	RiskHigh:     "FFCCCC",
	RiskModerate: "FFF3CD",
	RiskStable:   "D4EDDA",
	RiskNew:      "F8F9FA",
}

// WriteWorkbook writes the retention matrix and churn report to a styled
// xlsx file at path.
func WriteWorkbook(path string, matrix cohort.Matrix, rep ChurnReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", matrixSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(churnSheet); err != nil {
		return fmt.Errorf("failed to create churn sheet: %w", err)
	}

	if err := writeMatrixSheet(f, matrix); err != nil {
		return err
	}
	if err := writeChurnSheet(f, rep); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E9ECEF"}, Pattern: 1},
	})
}

func percentStyle(f *excelize.File) (int, error) {
	// Built-in format 10 is "0.00%".
	return f.NewStyle(&excelize.Style{NumFmt: 10})
}

func writeMatrixSheet(f *excelize.File, matrix cohort.Matrix) error {
	header, err := headerStyle(f)
	if err != nil {
		return fmt.Errorf("failed to build header style: %w", err)
	}
	percent, err := percentStyle(f)
	if err != nil {
		return fmt.Errorf("failed to build percent style: %w", err)
	}

	f.SetCellValue(matrixSheet, "A1", "Cohort")
	f.SetCellValue(matrixSheet, "B1", "Customers")
	f.SetCellValue(matrixSheet, "C1", "First Month Revenue")
	for k := 0; k <= matrix.MaxOffset; k++ {
		cell, _ := excelize.CoordinatesToCellName(4+k, 1)
		f.SetCellValue(matrixSheet, cell, fmt.Sprintf("Month %d", k))
	}

	for i, row := range matrix.Cohorts {
		r := i + 2
		f.SetCellValue(matrixSheet, fmt.Sprintf("A%d", r), row.Cohort.Label())
		f.SetCellValue(matrixSheet, fmt.Sprintf("B%d", r), row.Size)
		revenue, _ := row.FirstMonthRevenue.Float64()
		f.SetCellValue(matrixSheet, fmt.Sprintf("C%d", r), revenue)
		for k, rate := range row.Rates {
			cell, _ := excelize.CoordinatesToCellName(4+k, r)
			f.SetCellValue(matrixSheet, cell, rate)
		}
	}

	lastCol, _ := excelize.CoordinatesToCellName(4+matrix.MaxOffset, 1)
	if err := f.SetCellStyle(matrixSheet, "A1", lastCol, header); err != nil {
		return fmt.Errorf("failed to style matrix header: %w", err)
	}
	if len(matrix.Cohorts) > 0 {
		first, _ := excelize.CoordinatesToCellName(4, 2)
		last, _ := excelize.CoordinatesToCellName(4+matrix.MaxOffset, len(matrix.Cohorts)+1)
		if err := f.SetCellStyle(matrixSheet, first, last, percent); err != nil {
			return fmt.Errorf("failed to style matrix rates: %w", err)
		}
	}
	f.SetColWidth(matrixSheet, "A", "A", 12)
	f.SetColWidth(matrixSheet, "C", "C", 20)

	return freezeHeader(f, matrixSheet)
}

func writeChurnSheet(f *excelize.File, rep ChurnReport) error {
	header, err := headerStyle(f)
	if err != nil {
		return fmt.Errorf("failed to build header style: %w", err)
	}
	percent, err := percentStyle(f)
	if err != nil {
		return fmt.Errorf("failed to build percent style: %w", err)
	}

	riskStyles := make(map[RiskLevel]int, len(riskFills))
	for level, fill := range riskFills {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
		})
		if err != nil {
			return fmt.Errorf("failed to build risk style: %w", err)
		}
		riskStyles[level] = id
	}

	headers := []string{"Cohort", "Customers", "Month 0", "Month 2", "Pct Drop M0-M2", "Churn Flag", "Alert"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(churnSheet, cell, h)
	}

	for i, row := range rep.Rows {
		r := i + 2
		f.SetCellValue(churnSheet, fmt.Sprintf("A%d", r), row.Cohort.Label())
		f.SetCellValue(churnSheet, fmt.Sprintf("B%d", r), row.Size)
		f.SetCellValue(churnSheet, fmt.Sprintf("C%d", r), row.Month0Rate)
		if row.Risk != RiskNew {
			f.SetCellValue(churnSheet, fmt.Sprintf("D%d", r), row.Month2Rate)
			f.SetCellValue(churnSheet, fmt.Sprintf("E%d", r), cohort.RoundTo4(row.DropPct))
		}
		f.SetCellValue(churnSheet, fmt.Sprintf("F%d", r), string(row.Risk))
		f.SetCellValue(churnSheet, fmt.Sprintf("G%d", r), row.Alert)

		riskStyle, ok := riskStyles[row.Risk]
		if !ok {
			riskStyle = riskStyles[RiskNew]
		}
		if err := f.SetCellStyle(churnSheet, fmt.Sprintf("F%d", r), fmt.Sprintf("F%d", r), riskStyle); err != nil {
			return fmt.Errorf("failed to style risk cell: %w", err)
		}
	}

	if err := f.SetCellStyle(churnSheet, "A1", "G1", header); err != nil {
		return fmt.Errorf("failed to style churn header: %w", err)
	}
	if len(rep.Rows) > 0 {
		last := len(rep.Rows) + 1
		if err := f.SetCellStyle(churnSheet, "C2", fmt.Sprintf("D%d", last), percent); err != nil {
			return fmt.Errorf("failed to style churn rates: %w", err)
		}
	}
	f.SetColWidth(churnSheet, "A", "A", 12)
	f.SetColWidth(churnSheet, "E", "G", 24)

	return freezeHeader(f, churnSheet)
}

func freezeHeader(f *excelize.File, sheet string) error {
	err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	if err != nil {
		return fmt.Errorf("failed to freeze header on %s: %w", sheet, err)
	}
	return nil
}

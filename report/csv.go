package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ============================================================================
// CSV EXPORT — TableData → Sheets-ready CSV
// ============================================================================

// WriteTableCSV writes a TableData as CSV: header row, data rows, then the
// summary row if present.
func WriteTableCSV(w io.Writer, table *TableData) error {
	if table == nil {
		return fmt.Errorf("nil table")
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c.Label
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range table.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	if table.Summary != nil {
		row := make([]string, len(table.Columns))
		row[0] = table.Summary.Label
		for i, c := range table.Columns {
			if v, ok := table.Summary.Values[c.Key]; ok {
				row[i] = v
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV summary: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

package helpers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cohortly-org/cohortly/cohort"
)

// ============================================================================
// ORDERS CSV CODEC — Parses and writes the synthetic_orders.csv layout
// ============================================================================
// Consumers read the CSV from wherever it lives (file, S3, Sheets export).
// Header matching is snake-cased and tolerant of the common aliases, so
// "User ID" and "customer_id" both map to the customer column.
// ============================================================================

// Column aliases, snake-cased.
var (
	orderIDKeys    = map[string]bool{"order_id": true, "id": true}
	customerIDKeys = map[string]bool{"user_id": true, "customer_id": true}
	dateKeys       = map[string]bool{"order_date": true, "date": true, "placed": true}
	valueKeys      = map[string]bool{"order_value": true, "amount": true, "value": true}
)

// ParseOrders parses CSV bytes into orders.
// Rows with unparseable IDs, dates, or values are skipped.
func ParseOrders(data []byte) ([]cohort.Order, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	idCol, customerCol, dateCol, valueCol := -1, -1, -1, -1
	for i, h := range headers {
		key := toSnakeCase(strings.TrimSpace(h))
		switch {
		case orderIDKeys[key]:
			idCol = i
		case customerIDKeys[key]:
			customerCol = i
		case dateKeys[key]:
			dateCol = i
		case valueKeys[key]:
			valueCol = i
		}
		// Unmapped columns are silently skipped
	}
	if customerCol < 0 || dateCol < 0 {
		return nil, fmt.Errorf("CSV missing customer or date column (headers: %v)", headers)
	}

	var orders []cohort.Order
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}

		order := cohort.Order{Value: decimal.Zero}

		if idCol >= 0 && idCol < len(row) {
			if id, err := strconv.ParseInt(strings.TrimSpace(row[idCol]), 10, 64); err == nil {
				order.ID = id
			}
		}

		if customerCol >= len(row) || dateCol >= len(row) {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(row[customerCol]), 10, 64)
		if err != nil {
			continue
		}
		order.CustomerID = id

		placed, ok := parseDate(strings.TrimSpace(row[dateCol]))
		if !ok {
			continue
		}
		order.Placed = placed

		if valueCol >= 0 && valueCol < len(row) {
			if v, err := decimal.NewFromString(strings.TrimSpace(row[valueCol])); err == nil {
				order.Value = v
			}
		}

		orders = append(orders, order)
	}

	return orders, nil
}

// WriteOrders writes orders in the synthetic_orders.csv column layout.
func WriteOrders(w io.Writer, orders []cohort.Order) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"order_id", "user_id", "order_date", "order_value"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, o := range orders {
		row := []string{
			strconv.FormatInt(o.ID, 10),
			strconv.FormatInt(o.CustomerID, 10),
			o.Placed.Format("2006-01-02"),
			o.Value.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// parseDate accepts "2006-01-02" dates, or timestamps that start with one.
func parseDate(s string) (time.Time, bool) {
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// toSnakeCase converts "Column Name" to "column_name".
func toSnakeCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

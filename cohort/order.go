package cohort

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// ORDER & MONTH — Core domain types
// ============================================================================

// Order is a single purchase event.
type Order struct {
	ID         int64           `json:"order_id"`
	CustomerID int64           `json:"customer_id"`
	Placed     time.Time       `json:"order_date"`
	Value      decimal.Decimal `json:"order_value"`
}

// Month is a calendar month as a flat index (year*12 + month-1).
// Subtracting two Months gives the elapsed month offset directly.
type Month int

// MonthOf truncates a time to its calendar month.
func MonthOf(t time.Time) Month {
	return Month(t.Year()*12 + int(t.Month()) - 1)
}

// Year returns the calendar year of the month.
func (m Month) Year() int { return int(m) / 12 }

// Time returns the first day of the month in UTC.
func (m Month) Time() time.Time {
	return time.Date(int(m)/12, time.Month(int(m)%12+1), 1, 0, 0, 0, 0, time.UTC)
}

// Label formats the month as "Jan-2006".
func (m Month) Label() string {
	return m.Time().Format("Jan-2006")
}

// ParseMonth parses a "Jan-2006" label back into a Month.
func ParseMonth(label string) (Month, error) {
	t, err := time.Parse("Jan-2006", label)
	if err != nil {
		return 0, fmt.Errorf("invalid month label %q: %w", label, err)
	}
	return MonthOf(t), nil
}

// MarshalJSON emits the "Jan-2006" label so exported JSON stays readable.
func (m Month) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.Label() + `"`), nil
}

// UnmarshalJSON parses a "Jan-2006" label.
func (m *Month) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid month JSON %s", s)
	}
	parsed, err := ParseMonth(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

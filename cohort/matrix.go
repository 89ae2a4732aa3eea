package cohort

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// ============================================================================
// MATRIX — Cohort grouping and retention calculation
// ============================================================================
// Pipeline: first-purchase month per customer → month offset per order →
// distinct active customers per (cohort, offset) → rates = counts / size.
//
// A cohort's observable window runs from its own month to the last month in
// the data. Offsets past that window are unknown, not zero — callers must
// check Observable before reading a rate.
// ============================================================================

// CohortRow holds retention data for the customers who made their first
// purchase in a given month.
type CohortRow struct {
	Cohort Month `json:"cohort"`
	Size   int   `json:"size"` // distinct customers at offset 0

	// Active[k] is the number of distinct cohort customers who placed at
	// least one order k months after the cohort month. Rates[k] is
	// Active[k] / Size. Both slices cover the observable window only.
	Active []int     `json:"active"`
	Rates  []float64 `json:"rates"`

	// FirstMonthRevenue is the cohort's total order value during its
	// first month.
	FirstMonthRevenue decimal.Decimal `json:"firstMonthRevenue"`
}

// Matrix is the full retention matrix: one row per cohort, sorted
// chronologically.
type Matrix struct {
	Cohorts   []CohortRow `json:"cohorts"`
	LastMonth Month       `json:"lastMonth"` // latest order month in the data
	MaxOffset int         `json:"maxOffset"` // widest observable window
}

// Observable reports whether a (cohort, offset) cell falls inside the data's
// time range.
func (m Matrix) Observable(cohort Month, offset int) bool {
	return offset >= 0 && int(m.LastMonth-cohort) >= offset
}

// Rate returns the retention rate for a (cohort, offset) cell, along with
// whether the cell is observable. Unobserved activity inside the window
// returns 0, true.
func (m Matrix) Rate(cohort Month, offset int) (float64, bool) {
	if !m.Observable(cohort, offset) {
		return 0, false
	}
	for _, row := range m.Cohorts {
		if row.Cohort == cohort {
			if offset < len(row.Rates) {
				return row.Rates[offset], true
			}
			return 0, true
		}
	}
	return 0, false
}

// BuildMatrix computes the retention matrix from an order view.
// An empty view produces an empty matrix.
func BuildMatrix(view OrderView) Matrix {
	n := view.Len()
	if n == 0 {
		return Matrix{}
	}

	// 1. First purchase month per customer (min order month).
	first := make(map[int64]Month)
	var lastMonth Month
	for i := 0; i < n; i++ {
		id := view.CustomerID(i)
		m := view.Month(i)
		if f, ok := first[id]; !ok || m < f {
			first[id] = m
		}
		if m > lastMonth {
			lastMonth = m
		}
	}

	// 2+3. Distinct active customers per (cohort, offset), plus
	// first-month revenue per cohort.
	active := make(map[Month][]map[int64]bool)
	revenue := make(map[Month]decimal.Decimal)
	for i := 0; i < n; i++ {
		id := view.CustomerID(i)
		cohort := first[id]
		offset := int(view.Month(i) - cohort)

		sets := active[cohort]
		for len(sets) <= offset {
			sets = append(sets, make(map[int64]bool))
		}
		sets[offset][id] = true
		active[cohort] = sets

		if offset == 0 {
			revenue[cohort] = revenue[cohort].Add(view.Value(i))
		}
	}

	cohortMonths := make([]Month, 0, len(active))
	for m := range active {
		cohortMonths = append(cohortMonths, m)
	}
	sort.Slice(cohortMonths, func(i, j int) bool { return cohortMonths[i] < cohortMonths[j] })

	// 4. Rates = counts / size, padded across the observable window.
	matrix := Matrix{LastMonth: lastMonth}
	for _, cm := range cohortMonths {
		window := int(lastMonth-cm) + 1
		row := CohortRow{
			Cohort:            cm,
			Size:              len(active[cm][0]),
			Active:            make([]int, window),
			Rates:             make([]float64, window),
			FirstMonthRevenue: revenue[cm],
		}
		for k, set := range active[cm] {
			if k < window {
				row.Active[k] = len(set)
			}
		}
		for k := range row.Rates {
			if row.Size > 0 {
				row.Rates[k] = float64(row.Active[k]) / float64(row.Size)
			}
		}
		if window-1 > matrix.MaxOffset {
			matrix.MaxOffset = window - 1
		}
		matrix.Cohorts = append(matrix.Cohorts, row)
	}

	return matrix
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// RoundTo4 rounds to 4 decimal places — enough precision for rates.
func RoundTo4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

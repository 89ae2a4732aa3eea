package cohort

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// MATRIX TESTS
// ============================================================================

func order(id, customer int64, date string, value float64) Order {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return Order{
		ID:         id,
		CustomerID: customer,
		Placed:     t,
		Value:      decimal.NewFromFloat(value),
	}
}

// Two cohorts: Jan-2023 (customers 1, 2) and Feb-2023 (customer 3).
// Customer 1 returns in Feb and Mar; customer 2 never returns;
// customer 3 returns in Mar.
var sampleOrders = []Order{
	order(1, 1, "2023-01-05", 50),
	order(2, 2, "2023-01-20", 75),
	order(3, 1, "2023-02-03", 20),
	order(4, 3, "2023-02-14", 120),
	order(5, 1, "2023-03-09", 35),
	order(6, 3, "2023-03-28", 60),
}

func TestBuildMatrixCohortAssignment(t *testing.T) {
	matrix := BuildMatrix(NewSliceView(sampleOrders))

	if len(matrix.Cohorts) != 2 {
		t.Fatalf("expected 2 cohorts, got %d", len(matrix.Cohorts))
	}

	jan := matrix.Cohorts[0]
	if jan.Cohort.Label() != "Jan-2023" {
		t.Errorf("first cohort = %s, want Jan-2023", jan.Cohort.Label())
	}
	if jan.Size != 2 {
		t.Errorf("Jan-2023 size = %d, want 2", jan.Size)
	}

	feb := matrix.Cohorts[1]
	if feb.Cohort.Label() != "Feb-2023" {
		t.Errorf("second cohort = %s, want Feb-2023", feb.Cohort.Label())
	}
	if feb.Size != 1 {
		t.Errorf("Feb-2023 size = %d, want 1", feb.Size)
	}
}

func TestBuildMatrixRates(t *testing.T) {
	matrix := BuildMatrix(NewSliceView(sampleOrders))

	tests := []struct {
		cohort string
		offset int
		want   float64
	}{
		{"Jan-2023", 0, 1.0},
		{"Jan-2023", 1, 0.5}, // only customer 1 returned
		{"Jan-2023", 2, 0.5},
		{"Feb-2023", 0, 1.0},
		{"Feb-2023", 1, 1.0}, // customer 3 returned in March
	}

	for _, tt := range tests {
		cm, err := ParseMonth(tt.cohort)
		if err != nil {
			t.Fatalf("ParseMonth(%q): %v", tt.cohort, err)
		}
		got, ok := matrix.Rate(cm, tt.offset)
		if !ok {
			t.Errorf("Rate(%s, %d) not observable", tt.cohort, tt.offset)
			continue
		}
		if got != tt.want {
			t.Errorf("Rate(%s, %d) = %v, want %v", tt.cohort, tt.offset, got, tt.want)
		}
	}
}

func TestMatrixInvariants(t *testing.T) {
	matrix := BuildMatrix(NewSliceView(sampleOrders))

	for _, row := range matrix.Cohorts {
		if len(row.Rates) == 0 || row.Rates[0] != 1.0 {
			t.Errorf("cohort %s: retention at offset 0 = %v, want 1.0",
				row.Cohort.Label(), row.Rates)
		}
		for k, r := range row.Rates {
			if r < 0 || r > 1 {
				t.Errorf("cohort %s offset %d: rate %v out of [0,1]",
					row.Cohort.Label(), k, r)
			}
		}
	}
}

func TestMatrixObservableWindow(t *testing.T) {
	matrix := BuildMatrix(NewSliceView(sampleOrders))

	feb, _ := ParseMonth("Feb-2023")
	if matrix.Observable(feb, 2) {
		t.Error("Feb-2023 offset 2 should not be observable (data ends Mar-2023)")
	}
	if _, ok := matrix.Rate(feb, 2); ok {
		t.Error("Rate for unobservable cell should report ok=false")
	}

	jan, _ := ParseMonth("Jan-2023")
	if !matrix.Observable(jan, 2) {
		t.Error("Jan-2023 offset 2 should be observable")
	}
}

func TestBuildMatrixFirstMonthRevenue(t *testing.T) {
	matrix := BuildMatrix(NewSliceView(sampleOrders))

	want := decimal.NewFromFloat(125) // 50 + 75
	got := matrix.Cohorts[0].FirstMonthRevenue
	if !got.Equal(want) {
		t.Errorf("Jan-2023 first-month revenue = %s, want %s", got, want)
	}
}

func TestBuildMatrixEmpty(t *testing.T) {
	matrix := BuildMatrix(NewSliceView(nil))
	if len(matrix.Cohorts) != 0 {
		t.Errorf("empty view should produce empty matrix, got %d cohorts", len(matrix.Cohorts))
	}
}

func TestFilterMonths(t *testing.T) {
	view := NewSliceView(sampleOrders)
	feb, _ := ParseMonth("Feb-2023")

	filtered := FilterMonths(view, feb, feb)
	if filtered.Len() != 2 {
		t.Fatalf("expected 2 orders in Feb-2023, got %d", filtered.Len())
	}
	for i := 0; i < filtered.Len(); i++ {
		if filtered.Month(i) != feb {
			t.Errorf("order %d outside filter window: %s", i, filtered.Month(i).Label())
		}
	}

	// Open bounds pass everything through.
	if FilterMonths(view, 0, 0).Len() != len(sampleOrders) {
		t.Error("unbounded filter should return the full view")
	}
}

func TestMonthArithmetic(t *testing.T) {
	tests := []struct {
		a, b   string
		offset int
	}{
		{"Jan-2023", "Jan-2023", 0},
		{"Jan-2023", "Mar-2023", 2},
		{"Nov-2023", "Feb-2024", 3}, // across a year boundary
		{"Jan-2023", "May-2024", 16},
	}

	for _, tt := range tests {
		a, _ := ParseMonth(tt.a)
		b, _ := ParseMonth(tt.b)
		if got := int(b - a); got != tt.offset {
			t.Errorf("%s → %s offset = %d, want %d", tt.a, tt.b, got, tt.offset)
		}
	}
}

func TestFormatInt(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{5230, "5,230"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}

	for _, tt := range tests {
		if got := FormatInt(tt.in); got != tt.want {
			t.Errorf("FormatInt(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

package helpers

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cohortly-org/cohortly/cohort"
)

// ============================================================================
// ORDERS CSV CODEC TESTS
// ============================================================================

var ordersCSV = []byte(`order_id,user_id,order_date,order_value
1,1,2023-01-05,50.00
2,2,2023-01-20,75.50
3,1,2023-02-03,20.25
4,3,2023-02-14,120.00
`)

func TestParseOrders(t *testing.T) {
	orders, err := ParseOrders(ordersCSV)
	if err != nil {
		t.Fatalf("ParseOrders failed: %v", err)
	}
	if len(orders) != 4 {
		t.Fatalf("parsed %d orders, want 4", len(orders))
	}

	first := orders[0]
	if first.ID != 1 || first.CustomerID != 1 {
		t.Errorf("first order IDs = (%d, %d), want (1, 1)", first.ID, first.CustomerID)
	}
	if got := first.Placed.Format("2006-01-02"); got != "2023-01-05" {
		t.Errorf("first order date = %s, want 2023-01-05", got)
	}
	if !first.Value.Equal(decimal.NewFromFloat(50)) {
		t.Errorf("first order value = %s, want 50", first.Value)
	}
}

func TestParseOrdersHeaderAliases(t *testing.T) {
	aliased := []byte(`Order ID,Customer ID,Date,Amount
7,42,2023-06-01,19.99
`)
	orders, err := ParseOrders(aliased)
	if err != nil {
		t.Fatalf("ParseOrders failed: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("parsed %d orders, want 1", len(orders))
	}
	o := orders[0]
	if o.ID != 7 || o.CustomerID != 42 || !o.Value.Equal(decimal.NewFromFloat(19.99)) {
		t.Errorf("aliased headers parsed wrong: %+v", o)
	}
}

func TestParseOrdersSkipsMalformedRows(t *testing.T) {
	dirty := []byte(`order_id,user_id,order_date,order_value
1,1,2023-01-05,50.00
2,not-a-number,2023-01-06,10.00
3,2,bad-date,10.00
4,3,2023-01-07,not-a-value
5,4,2023-01-08,25.00
`)
	orders, err := ParseOrders(dirty)
	if err != nil {
		t.Fatalf("ParseOrders failed: %v", err)
	}

	// Bad customer and bad date rows drop out; the bad value row keeps a
	// zero value.
	if len(orders) != 3 {
		t.Fatalf("parsed %d orders, want 3", len(orders))
	}
	if !orders[1].Value.Equal(decimal.Zero) {
		t.Errorf("unparseable value should become 0, got %s", orders[1].Value)
	}
}

func TestParseOrdersTimestampDates(t *testing.T) {
	stamped := []byte(`user_id,order_date
1,2023-01-05 00:00:00
2,2023-02-10T12:30:00Z
`)
	orders, err := ParseOrders(stamped)
	if err != nil {
		t.Fatalf("ParseOrders failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("parsed %d orders, want 2", len(orders))
	}
	if got := orders[1].Placed.Format("2006-01-02"); got != "2023-02-10" {
		t.Errorf("timestamp date parsed to %s, want 2023-02-10", got)
	}
}

func TestParseOrdersMissingColumns(t *testing.T) {
	if _, err := ParseOrders([]byte("a,b,c\n1,2,3\n")); err == nil {
		t.Error("CSV without customer/date columns should error")
	}
}

func TestWriteParseRoundTrip(t *testing.T) {
	date := func(s string) time.Time {
		d, _ := time.Parse("2006-01-02", s)
		return d
	}
	orders := []cohort.Order{
		{ID: 1, CustomerID: 10, Placed: date("2023-03-01"), Value: decimal.NewFromFloat(12.34)},
		{ID: 2, CustomerID: 11, Placed: date("2023-04-15"), Value: decimal.NewFromFloat(199.9)},
	}

	var buf bytes.Buffer
	if err := WriteOrders(&buf, orders); err != nil {
		t.Fatalf("WriteOrders failed: %v", err)
	}

	parsed, err := ParseOrders(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseOrders failed: %v", err)
	}
	if len(parsed) != len(orders) {
		t.Fatalf("round trip lost rows: %d vs %d", len(parsed), len(orders))
	}
	for i := range orders {
		if parsed[i].ID != orders[i].ID || parsed[i].CustomerID != orders[i].CustomerID {
			t.Errorf("row %d IDs differ: %+v vs %+v", i, parsed[i], orders[i])
		}
		if !parsed[i].Placed.Equal(orders[i].Placed) {
			t.Errorf("row %d dates differ: %v vs %v", i, parsed[i].Placed, orders[i].Placed)
		}
		if !parsed[i].Value.Equal(orders[i].Value) {
			t.Errorf("row %d values differ: %s vs %s", i, parsed[i].Value, orders[i].Value)
		}
	}
}

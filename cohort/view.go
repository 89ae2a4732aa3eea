package cohort

import "github.com/shopspring/decimal"

// ============================================================================
// ORDER VIEW — Zero-Copy Data Access Interface
// ============================================================================
// The engine never owns order data. It reads through this interface.
//
// Implementations:
//   SliceView — wraps []Order (CSV loads, the simulator, ad-hoc callers)
//   SubView   — filtered subset (indices into parent, zero-copy)
// ============================================================================

// OrderView provides indexed access to an order dataset.
// BuildMatrix calls these in tight loops — keep implementations fast.
type OrderView interface {
	Len() int
	CustomerID(index int) int64
	Month(index int) Month
	Value(index int) decimal.Decimal
}

// ============================================================================
// SLICE VIEW — wraps []Order
// ============================================================================

// SliceView wraps an []Order slice as an OrderView.
type SliceView struct {
	orders []Order
}

// NewSliceView creates an OrderView from an []Order slice.
func NewSliceView(orders []Order) OrderView {
	return &SliceView{orders: orders}
}

func (v *SliceView) Len() int { return len(v.orders) }

func (v *SliceView) CustomerID(i int) int64 {
	if i < 0 || i >= len(v.orders) {
		return 0
	}
	return v.orders[i].CustomerID
}

func (v *SliceView) Month(i int) Month {
	if i < 0 || i >= len(v.orders) {
		return 0
	}
	return MonthOf(v.orders[i].Placed)
}

func (v *SliceView) Value(i int) decimal.Decimal {
	if i < 0 || i >= len(v.orders) {
		return decimal.Zero
	}
	return v.orders[i].Value
}

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a filtered subset of a parent OrderView.
// Holds indices into the parent — no data copy.
type SubView struct {
	parent  OrderView
	indices []int
}

func newSubView(parent OrderView, indices []int) OrderView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) CustomerID(i int) int64 {
	if i < 0 || i >= len(v.indices) {
		return 0
	}
	return v.parent.CustomerID(v.indices[i])
}

func (v *SubView) Month(i int) Month {
	if i < 0 || i >= len(v.indices) {
		return 0
	}
	return v.parent.Month(v.indices[i])
}

func (v *SubView) Value(i int) decimal.Decimal {
	if i < 0 || i >= len(v.indices) {
		return decimal.Zero
	}
	return v.parent.Value(v.indices[i])
}

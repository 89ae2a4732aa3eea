package cohort

// ============================================================================
// FILTERS — Month-Window Filtering via OrderView
// ============================================================================
// Single-pass filter over the view. Returns a SubView (index list into
// parent) — zero data copy.
// ============================================================================

// FilterMonths returns a view of orders placed between from and to inclusive.
// A zero from means no lower bound; a zero to means no upper bound.
func FilterMonths(view OrderView, from, to Month) OrderView {
	if from == 0 && to == 0 {
		return view
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		m := view.Month(i)
		if from != 0 && m < from {
			continue
		}
		if to != 0 && m > to {
			continue
		}
		indices = append(indices, i)
	}

	return newSubView(view, indices)
}

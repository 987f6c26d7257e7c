package engine

// ============================================================================
// SELECTION FILTER — Series subset for the chart
// ============================================================================
// Applied before highlighting: an active selection reduces the chart to the
// matching series. When nothing matches, every series is kept and the
// highlight step dims them all.
//
// The table is never filtered by selection.
// ============================================================================

// ApplySelection returns the series the chart should draw under sel.
func ApplySelection(series []Series, sel Selection) []Series {
	if !sel.Active() {
		return series
	}

	matched := make([]Series, 0, 1)
	for _, s := range series {
		if s.Legend == sel.Value {
			matched = append(matched, s)
		}
	}
	if len(matched) == 0 {
		return series
	}
	return matched
}

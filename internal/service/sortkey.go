package service

// Sibling order uses gap based integer sort keys. Appends advance the
// highest key by sortKeyGap, leaving room for future insertions without
// renumbering. A reorder rewrites the whole sibling set on a clean
// reorderGap spacing.
const (
	sortKeyGap = 100
	reorderGap = 1000
)

// NextSortKey returns the sort key for an item appended after the
// current highest key. An empty sibling set reads as last == 0.
func NextSortKey(last int64) int64 {
	return last + sortKeyGap
}

// reorderSortKey returns the sort key for position i of a reordered
// sibling set: 0, 1000, 2000, ...
func reorderSortKey(i int) int64 {
	return int64(i) * reorderGap
}

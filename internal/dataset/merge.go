package dataset

// Concat stacks tables vertically. Columns are unioned by name in order of
// first appearance; cells missing from a source table are empty.
func Concat(tables ...*Table) *Table {
	out := &Table{}
	index := make(map[string]int)

	for _, t := range tables {
		if t.Empty() {
			continue
		}
		for _, c := range t.Columns {
			if _, ok := index[c]; !ok {
				index[c] = len(out.Columns)
				out.Columns = append(out.Columns, c)
			}
		}
	}

	for _, t := range tables {
		if t.Empty() {
			continue
		}
		positions := make([]int, len(t.Columns))
		for i, c := range t.Columns {
			positions[i] = index[c]
		}
		for _, row := range t.Rows {
			dst := make([]string, len(out.Columns))
			for i, cell := range row {
				dst[positions[i]] = cell
			}
			out.Rows = append(out.Rows, dst)
		}
	}
	return out
}

// DropDuplicates returns a copy of t keeping only the first occurrence of
// every exact-duplicate row. Row order is otherwise preserved.
func DropDuplicates(t *Table) *Table {
	if t.Empty() {
		return &Table{}
	}
	out := &Table{Columns: append([]string(nil), t.Columns...)}
	seen := make(map[string]struct{}, len(t.Rows))
	for _, row := range t.Rows {
		key := rowKey(row)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// MergeStats summarizes a merge.
type MergeStats struct {
	Incoming int // rows in the new table
	Added    int // rows not already present in the master
	Total    int // rows in the merged table
}

// Merge folds incoming into master: concat, drop exact duplicates.
// Neither input is modified.
func Merge(master, incoming *Table) (*Table, MergeStats) {
	merged := DropDuplicates(Concat(master, incoming))
	before := DropDuplicates(Concat(master)).Len()
	return merged, MergeStats{
		Incoming: incoming.Len(),
		Added:    merged.Len() - before,
		Total:    merged.Len(),
	}
}

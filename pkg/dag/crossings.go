package dag

import (
	"cmp"
	"slices"
)

// CountCrossings returns the number of edge crossings between consecutive
// levels for the given per-level orderings (top to bottom within a level).
// Edges that skip levels are not counted.
func CountCrossings(g *DAG, orders map[int][]string) int {
	total := 0
	for row, upper := range orders {
		if lower, ok := orders[row+1]; ok {
			total += CountLayerCrossings(g, upper, lower)
		}
	}
	return total
}

// CountLayerCrossings counts crossings among the edges running from the
// upper level to the lower level. Edges (u1,v1) and (u2,v2) cross when
// pos(u1) < pos(u2) and pos(v1) > pos(v2); the count is the number of
// inversions in the target positions, taken with a Fenwick tree in
// O(E log V).
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}
	lowerPos := PosMap(lower)

	type span struct{ from, to int }
	var spans []span
	for i, id := range upper {
		for _, c := range g.Children(id) {
			if p, ok := lowerPos[c]; ok {
				spans = append(spans, span{i, p})
			}
		}
	}
	if len(spans) < 2 {
		return 0
	}
	slices.SortFunc(spans, func(a, b span) int {
		return cmp.Or(cmp.Compare(a.from, b.from), cmp.Compare(a.to, b.to))
	})

	tree := make([]int, len(lower)+1)
	crossings := 0
	for seen, s := range spans {
		atOrBelow := 0
		for i := s.to + 1; i > 0; i -= i & -i {
			atOrBelow += tree[i]
		}
		crossings += seen - atOrBelow
		for i := s.to + 1; i < len(tree); i += i & -i {
			tree[i]++
		}
	}
	return crossings
}

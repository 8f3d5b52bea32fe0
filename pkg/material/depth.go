package material

// DepthMap maps a record name to the deepest level it occurs at in a tree.
type DepthMap map[string]int

// Max returns the deepest level in the map, or 0 when empty.
func (d DepthMap) Max() int {
	m := 0
	for _, l := range d {
		m = max(m, l)
	}
	return m
}

// Resolve records, for every record in the tree, the maximum level across
// all of its occurrences.
func Resolve(t *Tree) DepthMap {
	depths := make(DepthMap)
	t.Walk(func(b *Branch) bool {
		if l, ok := depths[b.Name()]; !ok || b.Level > l {
			depths[b.Name()] = b.Level
		}
		return true
	})
	return depths
}

// Placed is a record with its final position in the exported document.
type Placed struct {
	Record   *Record
	X, Y     int
	Level    int
	Orphaned bool
}

// Serialize flattens the tree into emission order: orphans first at (0,0),
// then one pass per level from 0 to the deepest. Each pass walks the whole
// tree pre-order and emits the first occurrence whose level is both the
// pass level and the record's resolved depth, so every record is emitted
// once, at its deepest occurrence and with that occurrence's position.
func Serialize(t *Tree, depths DepthMap) []Placed {
	out := make([]Placed, 0, len(t.Orphaned)+len(depths))
	for _, r := range t.Orphaned {
		out = append(out, Placed{Record: r, Orphaned: true})
	}

	emitted := make(map[string]bool, len(depths))
	for level := 0; level <= depths.Max(); level++ {
		t.Walk(func(b *Branch) bool {
			name := b.Name()
			if !emitted[name] && b.Level == level && depths[name] == level {
				out = append(out, Placed{Record: b.Record, X: b.X, Y: b.Y, Level: level})
				emitted[name] = true
			}
			return b.Level < level
		})
	}
	return out
}

// Levels groups placed, non-orphaned records by level, in emission order.
func Levels(placed []Placed) map[int][]string {
	levels := make(map[int][]string)
	for _, p := range placed {
		if !p.Orphaned {
			levels[p.Level] = append(levels[p.Level], p.Record.Name)
		}
	}
	return levels
}

package roadmap

// unionFind is a growable disjoint-set forest with path halving and union
// by rank.
type unionFind struct {
	parent []uint32
	rank   []byte
	size   []uint32
}

func (uf *unionFind) add() uint32 {
	x := uint32(len(uf.parent))
	uf.parent = append(uf.parent, x)
	uf.rank = append(uf.rank, 0)
	uf.size = append(uf.size, 1)
	return x
}

func (uf *unionFind) find(x uint32) uint32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// union merges the sets of x and y and reports whether they were distinct.
func (uf *unionFind) union(x, y uint32) bool {
	rx, ry := uf.find(x), uf.find(y)
	if rx == ry {
		return false
	}
	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

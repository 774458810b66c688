package world

import "math/rand/v2"

// Board generation constants: generals keep a minimum Manhattan separation,
// and board dimensions grow with the player count.
const (
	MinGeneralDistance = 10
	minGridSize        = 17
	gridSizeMaxDelta   = 6
)

// Generate returns a random board for nbGenerals players along with the
// general tile indices in placement order. Every general is reachable from
// every other general across passable tiles, and pairwise general
// distances are at least MinGeneralDistance. Generation retries with a
// fresh board until both hold.
func Generate(nbGenerals int, rng *rand.Rand) (*Map, []int) {
	if nbGenerals < 1 {
		panic("world: at least one general required")
	}
	width := minGridSize + nbGenerals + rng.IntN(gridSizeMaxDelta+1)
	height := minGridSize + nbGenerals + rng.IntN(gridSizeMaxDelta+1)
	for {
		if m, generals, ok := tryGenerate(nbGenerals, width, height, rng); ok {
			return m, generals
		}
	}
}

// tryGenerate opens tiles on an all-mountain board in random order,
// tracking connectivity with a union-find. A freshly opened tile becomes a
// general while placements remain and it keeps its distance from every
// placed general. Once all generals are placed, the pass succeeds as soon
// as they share one component.
func tryGenerate(nbGenerals, width, height int, rng *rand.Rand) (*Map, []int, bool) {
	m := newMountainBoard(NewGrid(width, height))
	uf := newUnionFind(m.Len())
	generals := make([]int, 0, nbGenerals)

next:
	for _, idx := range rng.Perm(m.Len()) {
		t := m.Tile(idx)
		t.MakeOpen()
		for _, n := range m.grid.DirectNeighbors(idx) {
			if !m.tiles[n].IsMountain() {
				uf.union(idx, n)
			}
		}

		if len(generals) < nbGenerals {
			for _, g := range generals {
				if m.grid.Manhattan(idx, g) < MinGeneralDistance {
					continue next
				}
			}
			t.MakeGeneral()
			generals = append(generals, idx)
			continue
		}

		for _, g := range generals[1:] {
			if !uf.connected(generals[0], g) {
				continue next
			}
		}
		return m, generals, true
	}
	return nil, nil, false
}

// unionFind is a disjoint-set forest over tile indices with path
// compression and union by size.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	size := make([]int, n)
	for i := range parent {
		parent[i] = i
		size[i] = 1
	}
	return &unionFind{parent: parent, size: size}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.size[ra] < u.size[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	u.size[ra] += u.size[rb]
}

func (u *unionFind) connected(a, b int) bool {
	return u.find(a) == u.find(b)
}

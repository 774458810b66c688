// Package world implements the conquest board: the index grid, tiles with
// fog-of-war bookkeeping, the move resolver, and the random map generator.
package world

// Grid is the rectangular index space of a board. It carries no tile data,
// only dimensions, and answers neighborhood and distance queries over
// row-major indices: index = col + row*width.
type Grid struct {
	width  int
	height int
}

// NewGrid returns a grid with the given dimensions.
func NewGrid(width, height int) Grid {
	return Grid{width: width, height: height}
}

func (g Grid) Width() int  { return g.width }
func (g Grid) Height() int { return g.height }

// Len is the total number of cells.
func (g Grid) Len() int { return g.width * g.height }

// Contains reports whether i is a valid cell index.
func (g Grid) Contains(i int) bool {
	return i >= 0 && i < g.Len()
}

// Index converts coordinates to a cell index. No bounds check.
func (g Grid) Index(col, row int) int {
	return col + row*g.width
}

func (g Grid) col(i int) int { return i % g.width }
func (g Grid) row(i int) int { return i / g.width }

// Manhattan returns the Manhattan distance between two cells.
func (g Grid) Manhattan(i, j int) int {
	dc := g.col(i) - g.col(j)
	if dc < 0 {
		dc = -dc
	}
	dr := g.row(i) - g.row(j)
	if dr < 0 {
		dr = -dr
	}
	return dc + dr
}

// Neighbor returns the cell adjacent to i in the given direction. ok is
// false when i is out of range or sits on the relevant edge.
func (g Grid) Neighbor(i int, d Direction) (int, bool) {
	switch d {
	case Up:
		return g.Up(i)
	case Down:
		return g.Down(i)
	case Left:
		return g.Left(i)
	case Right:
		return g.Right(i)
	}
	return 0, false
}

func (g Grid) Up(i int) (int, bool) {
	if !g.Contains(i) || g.row(i) == 0 {
		return 0, false
	}
	return i - g.width, true
}

func (g Grid) Down(i int) (int, bool) {
	if !g.Contains(i) || g.row(i) == g.height-1 {
		return 0, false
	}
	return i + g.width, true
}

func (g Grid) Left(i int) (int, bool) {
	if !g.Contains(i) || g.col(i) == 0 {
		return 0, false
	}
	return i - 1, true
}

func (g Grid) Right(i int) (int, bool) {
	if !g.Contains(i) || g.col(i) == g.width-1 {
		return 0, false
	}
	return i + 1, true
}

func (g Grid) UpLeft(i int) (int, bool) {
	if !g.Contains(i) || g.row(i) == 0 || g.col(i) == 0 {
		return 0, false
	}
	return i - g.width - 1, true
}

func (g Grid) UpRight(i int) (int, bool) {
	if !g.Contains(i) || g.row(i) == 0 || g.col(i) == g.width-1 {
		return 0, false
	}
	return i - g.width + 1, true
}

func (g Grid) DownLeft(i int) (int, bool) {
	if !g.Contains(i) || g.row(i) == g.height-1 || g.col(i) == 0 {
		return 0, false
	}
	return i + g.width - 1, true
}

func (g Grid) DownRight(i int) (int, bool) {
	if !g.Contains(i) || g.row(i) == g.height-1 || g.col(i) == g.width-1 {
		return 0, false
	}
	return i + g.width + 1, true
}

// DirectNeighbors returns the 4-neighborhood of i in order Up, Left,
// Right, Down, skipping cells beyond the edges.
func (g Grid) DirectNeighbors(i int) []int {
	out := make([]int, 0, 4)
	candidates := [4]func(int) (int, bool){g.Up, g.Left, g.Right, g.Down}
	for _, f := range candidates {
		if n, ok := f(i); ok {
			out = append(out, n)
		}
	}
	return out
}

// ExtendedNeighbors returns the 8-neighborhood of i in order UL, U, UR, L,
// R, DL, D, DR, skipping cells beyond the edges.
func (g Grid) ExtendedNeighbors(i int) []int {
	out := make([]int, 0, 8)
	candidates := [8]func(int) (int, bool){
		g.UpLeft, g.Up, g.UpRight,
		g.Left, g.Right,
		g.DownLeft, g.Down, g.DownRight,
	}
	for _, f := range candidates {
		if n, ok := f(i); ok {
			out = append(out, n)
		}
	}
	return out
}

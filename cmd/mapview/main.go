// mapview renders a generated board to the terminal so map generation
// changes can be eyeballed without running a server.
//
// Usage:
//
//	go run ./cmd/mapview -players 3
//	go run ./cmd/mapview -players 2 -seed 42
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tilefall/tilefall/internal/world"
)

var (
	boardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	mountainStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	openStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	cityStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	playerColors = []lipgloss.Color{"196", "39", "46", "201", "208", "51", "226", "129"}
)

func main() {
	players := flag.Int("players", 2, "number of generals to place")
	seed := flag.Uint64("seed", 0, "board seed (0 picks a random one)")
	flag.Parse()

	if *players < 1 || *players > len(playerColors) {
		fmt.Fprintf(os.Stderr, "error: players must be between 1 and %d\n", len(playerColors))
		os.Exit(1)
	}

	s := *seed
	if s == 0 {
		s = rand.Uint64()
	}
	m, generals := world.Generate(*players, rand.New(rand.NewPCG(s, 0)))

	fmt.Println(boardStyle.Render(renderBoard(m, generals)))
	fmt.Println(footerStyle.Render(fmt.Sprintf("seed %d, board %dx%d, %d generals", s, m.Width(), m.Height(), len(generals))))
}

func renderBoard(m *world.Map, generals []int) string {
	seat := make(map[int]int, len(generals))
	for i, g := range generals {
		seat[g] = i
	}

	var b strings.Builder
	for row := range m.Height() {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := range m.Width() {
			b.WriteString(renderTile(m, m.Grid().Index(col, row), seat))
		}
	}
	return b.String()
}

func renderTile(m *world.Map, idx int, seat map[int]int) string {
	t := m.Tile(idx)
	switch {
	case t.IsGeneral():
		p := seat[idx]
		style := lipgloss.NewStyle().Foreground(playerColors[p]).Bold(true)
		return style.Render(fmt.Sprintf("♔%d", p))
	case t.IsCity():
		return cityStyle.Render("◎ ")
	case t.IsMountain():
		return mountainStyle.Render("▲ ")
	default:
		return openStyle.Render("· ")
	}
}

package viz

import (
	"strings"

	"github.com/san-kum/ecasim/internal/automaton"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas packs 2x4 cells into each braille rune, so a space-time diagram of
// W cells by G generations takes ceil(W/2) x ceil(G/4) characters.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
	return c
}

// CanvasFor returns a canvas just large enough for rows of the given width
// over the given number of generations.
func CanvasFor(cells, generations int) *Canvas {
	return NewCanvas((cells+1)/2, (generations+3)/4)
}

// Set turns on the dot at sub-pixel (x, y).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawRows plots rows top to bottom, one dot per alive cell.
func (c *Canvas) DrawRows(rows []automaton.Row) {
	for y, row := range rows {
		for x, cell := range row {
			if cell != automaton.Dead {
				c.Set(x, y)
			}
		}
	}
}

func (c *Canvas) Lines() []string {
	lines := make([]string, len(c.Grid))
	for i, row := range c.Grid {
		lines[i] = string(row)
	}
	return lines
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/ecasim/internal/automaton"
)

// SVG collects generations and writes them as a space-time diagram on Close,
// generation 0 at the top.
type SVG struct {
	w     io.Writer
	scale int
	fill  string
	rows  []automaton.Row
}

func NewSVG(w io.Writer, scale int) *SVG {
	if scale <= 0 {
		scale = 4
	}
	return &SVG{w: w, scale: scale, fill: "#00ff88"}
}

func (s *SVG) Render(row automaton.Row) error {
	s.rows = append(s.rows, row.Clone())
	return nil
}

func (s *SVG) Close() error {
	_, err := io.WriteString(s.w, s.String())
	return err
}

func (s *SVG) String() string {
	cols := 0
	if len(s.rows) > 0 {
		cols = len(s.rows[0])
	}
	width := cols * s.scale
	height := len(s.rows) * s.scale

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, width, height, width, height, s.fill))

	for y, row := range s.rows {
		// Merge horizontal runs of alive cells into one rect.
		for x := 0; x < len(row); {
			if row[x] == automaton.Dead {
				x++
				continue
			}
			start := x
			for x < len(row) && row[x] != automaton.Dead {
				x++
			}
			sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d"/>
`, start*s.scale, y*s.scale, (x-start)*s.scale, s.scale))
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

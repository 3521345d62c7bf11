package render

import (
	"io"
	"unicode/utf8"

	"github.com/san-kum/ecasim/internal/automaton"
)

const (
	hideCursor = "\033[?25l"
	showCursor = "\033[?25h"
)

// Text writes one symbol per cell with no delimiter. In batch mode every row
// ends with a newline; in live mode rows end with a carriage return so each
// generation overwrites the previous one in place.
type Text struct {
	w    io.Writer
	sym  Symbols
	live bool
	buf  []byte
}

func NewText(w io.Writer, sym Symbols, live bool) *Text {
	return &Text{w: w, sym: sym, live: live}
}

func (t *Text) Render(row automaton.Row) error {
	t.buf = t.buf[:0]
	for _, c := range row {
		t.buf = utf8.AppendRune(t.buf, t.sym.For(c))
	}
	if t.live {
		t.buf = append(t.buf, '\r')
	} else {
		t.buf = append(t.buf, '\n')
	}
	_, err := t.w.Write(t.buf)
	return err
}

// Start hides the cursor for live output.
func (t *Text) Start() error {
	if !t.live {
		return nil
	}
	_, err := io.WriteString(t.w, hideCursor)
	return err
}

// Stop moves past the last live row and restores the cursor.
func (t *Text) Stop() error {
	if !t.live {
		return nil
	}
	_, err := io.WriteString(t.w, "\n"+showCursor)
	return err
}

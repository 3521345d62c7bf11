package render

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownSymbols = errors.New("render: unknown symbol set")

// Symbols are the two glyphs used to draw a row.
type Symbols struct {
	Alive rune
	Dead  rune
}

var symbolSets = map[string]Symbols{
	"blocks": {Alive: '■', Dead: '□'},
	"ascii":  {Alive: '*', Dead: ' '},
	"hash":   {Alive: '#', Dead: '.'},
	"binary": {Alive: '1', Dead: '0'},
}

// DefaultSymbols is the "blocks" set.
var DefaultSymbols = symbolSets["blocks"]

func LookupSymbols(name string) (Symbols, error) {
	s, ok := symbolSets[name]
	if !ok {
		return Symbols{}, fmt.Errorf("%w: %q (available: %v)", ErrUnknownSymbols, name, SymbolSetNames())
	}
	return s, nil
}

func SymbolSetNames() []string {
	names := make([]string, 0, len(symbolSets))
	for name := range symbolSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s Symbols) For(cell uint8) rune {
	if cell != 0 {
		return s.Alive
	}
	return s.Dead
}

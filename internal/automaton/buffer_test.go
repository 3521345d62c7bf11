package automaton

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/san-kum/ecasim/internal/rule"
)

// referenceStep computes the next row into fresh storage, reading neighbours
// the way a textbook definition would.
func referenceStep(row Row, r rule.Table, b Boundary) Row {
	w := len(row)
	out := make(Row, w)
	for i := 0; i < w; i++ {
		var left, right uint8
		if b.Kind == Toroidal {
			left = row[(i-1+w)%w]
			right = row[(i+1)%w]
		} else {
			left, right = b.Sentinel, b.Sentinel
			if i > 0 {
				left = row[i-1]
			}
			if i < w-1 {
				right = row[i+1]
			}
		}
		out[i] = uint8(r.Number()>>(left*4+row[i]*2+right)) & 1
	}
	return out
}

func TestNewBuffer_InvalidWidth(t *testing.T) {
	for _, w := range []int{0, -1, -100} {
		_, err := NewBuffer(w, CenterSeed{}, FixedBoundary(0))
		if !errors.Is(err, ErrInvalidWidth) {
			t.Errorf("width %d: expected ErrInvalidWidth, got %v", w, err)
		}
	}
}

func TestNewBuffer_InvalidSentinel(t *testing.T) {
	_, err := NewBuffer(5, CenterSeed{}, FixedBoundary(2))
	if !errors.Is(err, ErrInvalidSentinel) {
		t.Errorf("expected ErrInvalidSentinel, got %v", err)
	}
}

func TestNewBuffer_Seeds(t *testing.T) {
	tests := []struct {
		name  string
		width int
		seed  Seed
		want  string
	}{
		{"center odd", 5, CenterSeed{}, "00100"},
		{"center even", 6, CenterSeed{}, "000100"},
		{"center width 1", 1, CenterSeed{}, "1"},
		{"edges", 7, CenterSeed{Edges: true}, "1001001"},
		{"pattern", 7, PatternSeed{Pattern: "101"}, "0010100"},
		{"pattern full", 3, PatternSeed{Pattern: "111"}, "111"},
		{"nil defaults to center", 3, nil, "010"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBuffer(tt.width, tt.seed, FixedBoundary(0))
			if err != nil {
				t.Fatalf("NewBuffer: %v", err)
			}
			if got := b.Current().String(); got != tt.want {
				t.Errorf("seed row = %s, want %s", got, tt.want)
			}
			if b.Generation() != 0 {
				t.Errorf("generation = %d, want 0", b.Generation())
			}
		})
	}
}

func TestNewBuffer_SeedErrors(t *testing.T) {
	tests := []struct {
		name string
		seed Seed
		want error
	}{
		{"too wide", PatternSeed{Pattern: "1111111"}, ErrInvalidPattern},
		{"bad chars", PatternSeed{Pattern: "1x1"}, ErrInvalidPattern},
		{"empty", PatternSeed{}, ErrInvalidPattern},
		{"density high", RandomSeed{Density: 1.5}, ErrInvalidDensity},
		{"density negative", RandomSeed{Density: -0.1}, ErrInvalidDensity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuffer(5, tt.seed, FixedBoundary(0))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var seedErr *SeedError
			if !errors.As(err, &seedErr) {
				t.Errorf("expected *SeedError, got %T", err)
			}
		})
	}
}

func TestRandomSeed_Reproducible(t *testing.T) {
	a, err := NewBuffer(64, RandomSeed{Density: 0.5, Source: 7}, ToroidalBoundary())
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewBuffer(64, RandomSeed{Density: 0.5, Source: 7}, ToroidalBoundary())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a.Current(), b.Current()); diff != "" {
		t.Errorf("same source produced different rows (-a +b):\n%s", diff)
	}

	empty, _ := NewBuffer(16, RandomSeed{Density: 0, Source: 1}, ToroidalBoundary())
	if empty.Current().Count() != 0 {
		t.Error("density 0 should produce an empty row")
	}
	full, _ := NewBuffer(16, RandomSeed{Density: 1, Source: 1}, ToroidalBoundary())
	if full.Current().Count() != 16 {
		t.Error("density 1 should produce a full row")
	}
}

func TestBuffer_Rule254Scenario(t *testing.T) {
	b, err := NewBuffer(5, CenterSeed{}, FixedBoundary(0))
	if err != nil {
		t.Fatal(err)
	}

	got := b.Step(rule.MustNew(254))
	want := Row{0, 1, 1, 1, 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rule 254 step mismatch (-want +got):\n%s", diff)
	}
	if b.Generation() != 1 {
		t.Errorf("generation = %d, want 1", b.Generation())
	}
}

func TestBuffer_RowLengthInvariant(t *testing.T) {
	for _, width := range []int{1, 2, 3, 17, 64} {
		b, err := NewBuffer(width, CenterSeed{}, ToroidalBoundary())
		if err != nil {
			t.Fatal(err)
		}
		r := rule.MustNew(110)
		for i := 0; i < 50; i++ {
			if got := len(b.Step(r)); got != width {
				t.Fatalf("width %d: step %d produced row of length %d", width, i, got)
			}
			if b.Width() != width {
				t.Fatalf("width %d: Width() = %d", width, b.Width())
			}
		}
	}
}

func TestBuffer_SimultaneousUpdate(t *testing.T) {
	boundaries := []Boundary{FixedBoundary(0), FixedBoundary(1), ToroidalBoundary()}
	rules := []int{30, 45, 90, 110, 184, 254}

	for _, bnd := range boundaries {
		for _, n := range rules {
			r := rule.MustNew(n)
			b, err := NewBuffer(31, RandomSeed{Density: 0.4, Source: int64(n)}, bnd)
			if err != nil {
				t.Fatal(err)
			}
			want := b.Snapshot()
			for step := 0; step < 20; step++ {
				want = referenceStep(want, r, bnd)
				got := b.Step(r)
				if diff := cmp.Diff(want, got); diff != "" {
					t.Fatalf("%v rule %d step %d (-want +got):\n%s", bnd, n, step, diff)
				}
			}
		}
	}
}

func TestBuffer_ShiftRuleUsesPreStepValues(t *testing.T) {
	// Rule 170 copies the right neighbour: a sequential in-place update would
	// smear the pattern instead of shifting it.
	b, err := NewBuffer(6, PatternSeed{Pattern: "010011"}, ToroidalBoundary())
	if err != nil {
		t.Fatal(err)
	}
	got := b.Step(rule.MustNew(170))
	if got.String() != "100110" {
		t.Errorf("shift left = %s, want 100110", got)
	}
}

func TestBuffer_WidthOne(t *testing.T) {
	tests := []struct {
		name     string
		boundary Boundary
		rule     int
		want     uint8
	}{
		// 010 -> 1 only (rule 4): alive cell surrounded by dead neighbours.
		{"fixed sentinel 0", FixedBoundary(0), 4, 1},
		// 111 -> 1 only (rule 128): alive cell is its own neighbour.
		{"toroidal self", ToroidalBoundary(), 128, 1},
		{"toroidal not sentinel", ToroidalBoundary(), 4, 0},
		{"fixed sentinel 1", FixedBoundary(1), 128, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBuffer(1, CenterSeed{}, tt.boundary)
			if err != nil {
				t.Fatal(err)
			}
			got := b.Step(rule.MustNew(tt.rule))
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("row = %v, want [%d]", got, tt.want)
			}
		})
	}
}

func TestBuffer_Reset(t *testing.T) {
	b, err := NewBuffer(9, CenterSeed{}, FixedBoundary(0))
	if err != nil {
		t.Fatal(err)
	}
	seed := b.Snapshot()
	for i := 0; i < 5; i++ {
		b.Step(rule.MustNew(30))
	}
	if err := b.Reset(); err != nil {
		t.Fatal(err)
	}
	if !b.Current().Equal(seed) || b.Generation() != 0 {
		t.Errorf("reset row %s gen %d, want %s gen 0", b.Current(), b.Generation(), seed)
	}
}

func TestBuffer_SnapshotIsIndependent(t *testing.T) {
	b, _ := NewBuffer(5, CenterSeed{}, FixedBoundary(0))
	snap := b.Snapshot()
	b.Step(rule.MustNew(254))
	if snap.String() != "00100" {
		t.Errorf("snapshot changed after step: %s", snap)
	}
}

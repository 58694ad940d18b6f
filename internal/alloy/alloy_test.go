package alloy

import (
	"errors"
	"math"
	"testing"
)

func TestNewGridDimensions(t *testing.T) {
	valid := [][2]int{{4, 1}, {8, 2}, {20, 5}, {21, 5}, {400, 3}}
	for _, dims := range valid {
		if _, err := NewGrid(dims[0], dims[1]); err != nil {
			t.Fatalf("NewGrid(%d,%d) failed: %v", dims[0], dims[1], err)
		}
	}

	invalid := [][2]int{{2, 2}, {7, 2}, {19, 5}, {3, 1}, {4, 0}, {0, 0}, {10, -1}}
	for _, dims := range invalid {
		_, err := NewGrid(dims[0], dims[1])
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Fatalf("NewGrid(%d,%d) err = %v, want ErrInvalidConfiguration", dims[0], dims[1], err)
		}
	}
}

func TestNewGridSeedsSources(t *testing.T) {
	g, err := NewGrid(12, 3)
	if err != nil {
		t.Fatal(err)
	}
	if g.Temperature(0, 0) != SourceTemperature || g.Temperature(2, 11) != SourceTemperature {
		t.Fatal("source cells must start at the source temperature")
	}
	if !g.IsSource(0, 0) || !g.IsSource(2, 11) {
		t.Fatal("corners not reported as sources")
	}
	if g.IsSource(0, 11) || g.IsSource(2, 0) || g.IsSource(1, 5) {
		t.Fatal("only the top-left and bottom-right corners are sources")
	}
}

func TestIsEdge(t *testing.T) {
	g, err := NewGrid(12, 3)
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		r, c int
		want bool
	}{
		{0, 5, true},
		{2, 5, true},
		{1, 0, true},
		{1, 11, true},
		{1, 5, false},
	}
	for _, tc := range cases {
		if got := g.IsEdge(tc.r, tc.c); got != tc.want {
			t.Fatalf("IsEdge(%d,%d) = %v, want %v", tc.r, tc.c, got, tc.want)
		}
	}
}

func TestCompositionIsACopy(t *testing.T) {
	g, err := NewGrid(4, 1)
	if err != nil {
		t.Fatal(err)
	}
	g.SetComposition(0, 1, Composition{0.5, 0.3, 0.2})
	comp := g.Composition(0, 1)
	comp[0] = 0.9
	if got := g.Composition(0, 1)[0]; got != 0.5 {
		t.Fatalf("mutating the returned composition leaked into the grid: %v", got)
	}
}

func TestOutOfRangePanics(t *testing.T) {
	g, err := NewGrid(4, 1)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for out-of-range access")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("panic value %v does not wrap ErrOutOfRange", r)
		}
	}()
	g.Temperature(1, 0)
}

func TestSwapTemperatures(t *testing.T) {
	g, err := NewGrid(8, 2)
	if err != nil {
		t.Fatal(err)
	}
	next := g.Temperatures()
	next.Fill(42)
	prev := g.SwapTemperatures(next)
	if g.Temperature(1, 3) != 42 {
		t.Fatal("swap did not install the new field")
	}
	if prev.Values()[0] != SourceTemperature {
		t.Fatal("swap should return the previous field")
	}
}

func TestCloneIsDeep(t *testing.T) {
	g, err := NewGrid(8, 2)
	if err != nil {
		t.Fatal(err)
	}
	c := g.Clone()
	c.SetTemperature(1, 1, 77)
	c.SetComposition(1, 1, Composition{1, 0, 0})
	if g.Temperature(1, 1) == 77 || g.Composition(1, 1) == (Composition{1, 0, 0}) {
		t.Fatal("clone shares state with the original")
	}
}

func TestNormalized(t *testing.T) {
	exact := Composition{0.5, 0.3, 0.2}.Normalized()
	for i, want := range []float64{0.5, 0.3, 0.2} {
		if math.Abs(exact[i]-want) > 1e-12 {
			t.Fatalf("fraction %d changed to %v", i, exact[i])
		}
	}

	over := Composition{0.5, 0.5, 0.5}.Normalized()
	for i, f := range over {
		if math.Abs(f-1.0/3.0) > 1e-12 {
			t.Fatalf("fraction %d = %v, want 1/3", i, f)
		}
	}
	if math.Abs(over.Sum()-1) > 1e-12 {
		t.Fatalf("normalised sum = %v", over.Sum())
	}
}

func TestCompositionValidate(t *testing.T) {
	if err := (Composition{0.4, 0.4, 0.2}).Validate(); err != nil {
		t.Fatalf("valid composition rejected: %v", err)
	}
	for _, c := range []Composition{{-0.1, 0.6, 0.5}, {0, 0, 0}, {math.NaN(), 0.5, 0.5}} {
		if err := c.Validate(); !errors.Is(err, ErrInvalidConfiguration) {
			t.Fatalf("Validate(%v) = %v", c, err)
		}
	}
}

func TestMetals(t *testing.T) {
	m := MustMetal(1.25)
	if got := m.Interaction(40, 0.5); got != 25 {
		t.Fatalf("Interaction = %v, want 25", got)
	}
	if _, err := NewMetal(0); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("NewMetal(0) = %v", err)
	}
	if _, err := MetalsFromConstants([]float64{1, 2}); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("short metal list accepted: %v", err)
	}
	metals, err := MetalsFromConstants([]float64{0.75, 1, 1.25})
	if err != nil || len(metals) != MetalCount || metals[2].C() != 1.25 {
		t.Fatalf("MetalsFromConstants = %v, %v", metals, err)
	}
}

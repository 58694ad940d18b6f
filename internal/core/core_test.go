package core

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestFieldIndexAndClone(t *testing.T) {
	f := NewField(8, 2)
	if got := f.Index(1, 3); got != 11 {
		t.Fatalf("Index(1,3) = %d, want 11", got)
	}
	if f.InBounds(2, 0) || f.InBounds(0, 8) || f.InBounds(-1, 0) {
		t.Fatal("InBounds accepted an outside coordinate")
	}
	if !f.InBounds(1, 7) {
		t.Fatal("InBounds rejected the last cell")
	}

	f.Fill(3)
	c := f.Clone()
	c.Values()[0] = 9
	if f.Values()[0] != 3 {
		t.Fatal("Clone shares the backing slice")
	}

	f.CopyFrom(c)
	if f.Values()[0] != 9 {
		t.Fatalf("CopyFrom did not copy, got %v", f.Values()[0])
	}
}

func TestSuggest(t *testing.T) {
	names := []string{"alloy", "uniform", "perlin"}
	if got := Suggest("aloy", names); got != "alloy" {
		t.Fatalf("Suggest(aloy) = %q", got)
	}
	if got := Suggest("PERLNI", names); got != "perlin" {
		t.Fatalf("Suggest(PERLNI) = %q", got)
	}
	if got := Suggest("something-else", names); got != "" {
		t.Fatalf("expected no suggestion, got %q", got)
	}
}

func TestLookupSuggestsRegisteredName(t *testing.T) {
	Register("testsim", func(map[string]string) (Sim, error) { return nil, nil })
	defer delete(sims, "testsim")

	if _, err := Lookup("testsim"); err != nil {
		t.Fatalf("Lookup(testsim): %v", err)
	}
	_, err := Lookup("tstsim")
	if err == nil || !strings.Contains(err.Error(), `did you mean "testsim"`) {
		t.Fatalf("expected suggestion error, got %v", err)
	}
}

func TestParameterSnapshotLookup(t *testing.T) {
	snap := ParameterSnapshot{Groups: []ParameterGroup{{
		Name:   "Grid",
		Params: []Parameter{IntParam("w", "Width", 20), FloatParam("threshold", "Threshold", 0.03)},
	}}}
	p, ok := snap.Lookup("threshold")
	if !ok || p.Value != "0.03" || p.Type != ParamTypeFloat {
		t.Fatalf("unexpected lookup result %+v ok=%v", p, ok)
	}
	if _, ok := snap.Lookup("missing"); ok {
		t.Fatal("lookup of unknown key should fail")
	}
}

func TestPacerDisabledNeverWaits(t *testing.T) {
	p := NewPacer(0)
	start := time.Now()
	for i := 0; i < 10; i++ {
		if err := p.Wait(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Fatal("disabled pacer should not sleep")
	}
}

func TestPacerHonoursCancellation(t *testing.T) {
	p := NewPacer(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Wait(ctx); err == nil {
		t.Fatal("expected context error from cancelled wait")
	}
}

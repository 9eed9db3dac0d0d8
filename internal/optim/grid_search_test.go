package optim

import (
	"context"
	"testing"

	"github.com/san-kum/revsim/internal/config"
)

func TestLinspace(t *testing.T) {
	got := Linspace(3, 4, 5)
	want := []float64{3, 3.25, 3.5, 3.75, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Linspace = %v, want %v", got, want)
		}
	}
	if got := Linspace(2, 9, 1); len(got) != 1 || got[0] != 2 {
		t.Errorf("Linspace n=1 = %v", got)
	}
}

func TestGridSearch_PicksMostCoolant(t *testing.T) {
	base := config.GetPreset("overheat")
	base.Duration = 3

	g := NewGridSearch([]string{"cooling_efficiency"}, [][]float64{{0.1, 0.5, 2.0}})
	params, best, err := g.Search(context.Background(), base, "max_coolant")
	if err != nil {
		t.Fatal(err)
	}

	if params["cooling_efficiency"] != 2.0 {
		t.Errorf("best cooling = %v, want 2.0", params["cooling_efficiency"])
	}
	if best <= base.Engine.AmbientTemp {
		t.Errorf("best max_coolant = %v", best)
	}
	if g.Evaluated() != 3 {
		t.Errorf("evaluated %d combinations", g.Evaluated())
	}
}

func TestGridSearch_SkipsInvalid(t *testing.T) {
	base := config.DefaultConfig()
	base.Duration = 1

	g := NewGridSearch([]string{"inertia", "final_drive"}, [][]float64{{0, 0.02}, {3.5, 4.0}})
	params, _, err := g.Search(context.Background(), base, "peak_rpm")
	if err != nil {
		t.Fatal(err)
	}
	if params["inertia"] != 0.02 {
		t.Errorf("invalid inertia won: %v", params)
	}
	if g.Evaluated() != 2 {
		t.Errorf("evaluated %d combinations, want 2", g.Evaluated())
	}
}

func TestGridSearch_Errors(t *testing.T) {
	base := config.DefaultConfig()

	if _, _, err := NewGridSearch([]string{"wing"}, [][]float64{{1}}).Search(context.Background(), base, "peak_rpm"); err == nil {
		t.Error("expected error for unknown param")
	}
	if _, _, err := NewGridSearch([]string{"redline"}, nil).Search(context.Background(), base, "peak_rpm"); err == nil {
		t.Error("expected error for missing range")
	}
	if _, _, err := NewGridSearch([]string{"redline"}, [][]float64{{7000}}).Search(context.Background(), base, "lap_time"); err == nil {
		t.Error("expected error for unknown metric")
	}
}

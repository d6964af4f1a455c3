package graph

import (
	"testing"

	"github.com/dd0wney/cluso-orgnet/pkg/interaction"
)

func TestBetweennessCentrality_PathGraph(t *testing.T) {
	// a - b - c: every a..c path runs through b
	g := mustBuild(t, []interaction.Interaction{
		msg("a", "b", 0),
		msg("b", "c", 1),
	})

	bc := g.BetweennessCentrality()

	if bc["b"] <= bc["a"] || bc["b"] <= bc["c"] {
		t.Errorf("Expected b to dominate: got a=%f b=%f c=%f", bc["a"], bc["b"], bc["c"])
	}
	if bc["a"] != 0 || bc["c"] != 0 {
		t.Errorf("Endpoints should have zero betweenness, got a=%f c=%f", bc["a"], bc["c"])
	}
	// With n=3 the normalised score of the middle node is exactly 1
	if bc["b"] < 0.999 || bc["b"] > 1.001 {
		t.Errorf("Expected normalised betweenness 1.0 for b, got %f", bc["b"])
	}
}

func TestBetweennessCentrality_Star(t *testing.T) {
	g := mustBuild(t, []interaction.Interaction{
		msg("hub", "s1", 0),
		msg("hub", "s2", 1),
		msg("s3", "hub", 2),
		msg("s4", "hub", 3),
	})

	bc := g.BetweennessCentrality()

	if bc["hub"] < 0.999 || bc["hub"] > 1.001 {
		t.Errorf("Expected hub betweenness 1.0, got %f", bc["hub"])
	}
	for _, spoke := range []string{"s1", "s2", "s3", "s4"} {
		if bc[spoke] != 0 {
			t.Errorf("Expected zero betweenness for %s, got %f", spoke, bc[spoke])
		}
	}
}

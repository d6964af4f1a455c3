package macro

import (
	"github.com/dd0wney/cluso-orgnet/pkg/graph"
)

// FragmentationImpact measures how much of the graph's largest weakly
// connected component survives the removal of a unit's members, as a
// percentage loss. The base graph is never mutated; the trial runs on a
// private clone. Results below zero are clamped to zero, since removal
// cannot improve connectivity in this model.
func FragmentationImpact(g *graph.Graph, members []string) float64 {
	original := g.LargestComponentSize()
	if original == 0 || len(members) == 0 {
		return 0
	}

	working := g.Clone()
	working.RemoveNodes(members)
	after := working.LargestComponentSize()

	loss := float64(original-after) / float64(original) * 100
	if loss < 0 {
		return 0
	}
	return loss
}

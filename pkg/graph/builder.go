package graph

import (
	"sort"

	"github.com/dd0wney/cluso-orgnet/pkg/interaction"
)

// Build converts a sequence of valid interactions into the directed weighted
// graph. Records sharing a (sender, recipient) pair accumulate into one edge
// whose weight is the interaction count; timestamps are retained per edge for
// response-time estimation. Self-interactions are discarded, and only nodes
// with at least one retained interaction appear in the graph.
func Build(records []interaction.Interaction) (*Graph, error) {
	if len(records) == 0 {
		return nil, interaction.NewDataError("empty interaction sequence")
	}

	g := New()
	for _, rec := range records {
		if !rec.ContentValid {
			continue
		}
		if rec.SenderID == rec.RecipientID {
			continue
		}
		g.addMessage(rec.SenderID, rec.RecipientID, rec.Timestamp)
	}

	if g.NodeCount() == 0 {
		return nil, interaction.NewDataError("no retained interactions after filtering")
	}

	// Timestamps arrive in input order; reply scans need them ascending
	for _, targets := range g.out {
		for _, e := range targets {
			sort.Slice(e.Timestamps, func(i, j int) bool {
				return e.Timestamps[i].Before(e.Timestamps[j])
			})
		}
	}

	return g, nil
}

package macro

import (
	"github.com/dd0wney/cluso-orgnet/pkg/graph"
)

// EdgeBalance tallies a unit's internal and external communication. Internal
// covers edges with both endpoints in the unit; external covers edges with
// exactly one endpoint in the unit, whichever direction they run.
type EdgeBalance struct {
	InternalWeight int
	ExternalWeight int
	InternalCount  int
	ExternalCount  int
}

// MeasureBalance tallies the edge balance of a member set against the full
// graph. Every edge touching the unit is counted exactly once: internal
// edges from their source member, external in-edges from their target
// member.
func MeasureBalance(g *graph.Graph, members map[string]struct{}) EdgeBalance {
	var b EdgeBalance

	for m := range members {
		for _, e := range g.OutEdges(m) {
			if _, in := members[e.To]; in {
				b.InternalWeight += e.Weight
				b.InternalCount++
			} else {
				b.ExternalWeight += e.Weight
				b.ExternalCount++
			}
		}
		for _, e := range g.InEdges(m) {
			if _, in := members[e.From]; !in {
				b.ExternalWeight += e.Weight
				b.ExternalCount++
			}
		}
	}

	return b
}

// EIWeight returns the weight-based E-I index in [-1, 1], or nil when the
// unit touches no edges.
func (b EdgeBalance) EIWeight() *float64 {
	total := b.InternalWeight + b.ExternalWeight
	if total == 0 {
		return nil
	}
	ei := float64(b.ExternalWeight-b.InternalWeight) / float64(total)
	return &ei
}

// EICount returns the count-based E-I index in [-1, 1], or nil when the unit
// touches no edges.
func (b EdgeBalance) EICount() *float64 {
	total := b.InternalCount + b.ExternalCount
	if total == 0 {
		return nil
	}
	ei := float64(b.ExternalCount-b.InternalCount) / float64(total)
	return &ei
}

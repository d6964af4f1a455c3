// Package simulation runs targeted-removal stress tests: it scores a unit's
// members against two role archetypes, removes the top-K of each from a
// working copy of the full graph, and measures the connectivity damage.
package simulation

import (
	"sort"

	"github.com/dd0wney/cluso-orgnet/pkg/community"
	"github.com/dd0wney/cluso-orgnet/pkg/config"
	"github.com/dd0wney/cluso-orgnet/pkg/graph"
	"github.com/dd0wney/cluso-orgnet/pkg/macro"
)

// Archetype names the two structural roles the simulator probes
type Archetype string

const (
	// ArchetypeLoadAbsorber marks members who soak up raw message volume
	ArchetypeLoadAbsorber Archetype = "load_absorber"
	// ArchetypeConnector marks members who respond fast and route
	// communication upward, out of the unit
	ArchetypeConnector Archetype = "connector"
)

// rankedMember pairs a member with an archetype score
type rankedMember struct {
	id    string
	score float64
}

// loadAbsorberScores scores members by total message volume handled,
// independent of direction balance.
func loadAbsorberScores(g *graph.Graph, members []string) []rankedMember {
	ranked := make([]rankedMember, 0, len(members))
	for _, m := range members {
		ranked = append(ranked, rankedMember{id: m, score: float64(g.Strength(m))})
	}
	return ranked
}

// connectorScores blends two signals: how quickly a member replies, and how
// much of their traffic runs upward to leadership nodes outside the unit
// rather than laterally within it. Blend weights come from configuration.
func connectorScores(g *graph.Graph, c *community.Community, rt *macro.ResponseTimes, cfg config.SimulationConfig) []rankedMember {
	members := c.MemberSet()
	leaders := leadershipNodes(g, cfg.LeadershipDegreeFactor)

	totalWeight := cfg.SpeedWeight + cfg.UpwardWeight

	ranked := make([]rankedMember, 0, len(c.Members))
	for _, m := range c.Members {
		speed := 0.0
		if avg := rt.PersonalAverage(m); avg != nil {
			speed = 1.0 / (1.0 + *avg)
		}

		upward := 0
		lateral := 0
		for _, e := range g.OutEdges(m) {
			if _, inside := members[e.To]; inside {
				lateral += e.Weight
				continue
			}
			if _, lead := leaders[e.To]; lead {
				upward += e.Weight
			}
		}
		upwardRatio := 0.0
		if upward+lateral > 0 {
			upwardRatio = float64(upward) / float64(upward+lateral)
		}

		score := (cfg.SpeedWeight*speed + cfg.UpwardWeight*upwardRatio) / totalWeight
		ranked = append(ranked, rankedMember{id: m, score: score})
	}
	return ranked
}

// leadershipNodes returns the nodes whose total message volume exceeds the
// configured multiple of the graph mean. These stand in for the leadership
// layer upward communication is measured against.
func leadershipNodes(g *graph.Graph, factor float64) map[string]struct{} {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return nil
	}

	total := 0
	for _, id := range nodes {
		total += g.Strength(id)
	}
	mean := float64(total) / float64(len(nodes))
	bound := mean * factor

	leaders := make(map[string]struct{})
	for _, id := range nodes {
		if float64(g.Strength(id)) >= bound {
			leaders[id] = struct{}{}
		}
	}
	return leaders
}

// topK returns the K highest-scored members, score descending with
// identifier ascending as the deterministic tie-break. Fewer than K members
// degrades to all of them.
func topK(ranked []rankedMember, k int) []string {
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].id < ranked[j].id
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	ids := make([]string, k)
	for i := 0; i < k; i++ {
		ids[i] = ranked[i].id
	}
	return ids
}

package macro

import (
	"sort"

	"github.com/dd0wney/cluso-orgnet/pkg/graph"
)

// IndividualTable builds the per-person drill-down table: inbound volume,
// personal response speed, the share of outbound weight leaving the
// person's own unit, and betweenness centrality. Rows are ordered by user
// identifier.
func IndividualTable(g *graph.Graph, rt *ResponseTimes, membership map[string]string) []*IndividualRecord {
	betweenness := g.BetweennessCentrality()

	rows := make([]*IndividualRecord, 0, g.NodeCount())
	for _, user := range g.Nodes() {
		home := membership[user]

		externalOut := 0
		totalOut := 0
		for _, e := range g.OutEdges(user) {
			totalOut += e.Weight
			if membership[e.To] != home {
				externalOut += e.Weight
			}
		}

		externalPct := 0.0
		if totalOut > 0 {
			externalPct = float64(externalOut) / float64(totalOut) * 100
		}

		rows = append(rows, &IndividualRecord{
			User:             user,
			CommunityID:      home,
			ReceivedCount:    g.InStrength(user),
			AvgResponseHours: rt.PersonalAverage(user),
			ExternalOutPct:   externalPct,
			Betweenness:      betweenness[user],
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].User < rows[j].User })
	return rows
}

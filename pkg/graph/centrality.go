package graph

import (
	"container/list"
)

// BetweennessCentrality computes betweenness centrality for all nodes on the
// undirected projection of the graph using Brandes' algorithm. Scores are
// normalised to [0, 1] so they are comparable across graphs.
func (g *Graph) BetweennessCentrality() map[string]float64 {
	nodes := g.Nodes()
	betweenness := make(map[string]float64, len(nodes))
	for _, id := range nodes {
		betweenness[id] = 0.0
	}

	for _, source := range nodes {
		stack := make([]string, 0, len(nodes))
		predecessors := make(map[string][]string, len(nodes))
		sigma := make(map[string]float64, len(nodes))
		distance := make(map[string]int, len(nodes))

		for _, id := range nodes {
			sigma[id] = 0.0
			distance[id] = -1
		}
		sigma[source] = 1.0
		distance[source] = 0

		queue := list.New()
		queue.PushBack(source)

		for queue.Len() > 0 {
			v := queue.Remove(queue.Front()).(string)
			stack = append(stack, v)

			for _, w := range g.Neighbors(v) {
				if distance[w] < 0 {
					queue.PushBack(w)
					distance[w] = distance[v] + 1
				}
				if distance[w] == distance[v]+1 {
					sigma[w] += sigma[v]
					predecessors[w] = append(predecessors[w], v)
				}
			}
		}

		// Back-propagation of dependencies
		delta := make(map[string]float64, len(nodes))
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range predecessors[w] {
				delta[v] += (sigma[v] / sigma[w]) * (1.0 + delta[w])
			}
			if w != source {
				betweenness[w] += delta[w]
			}
		}
	}

	n := len(nodes)
	if n > 2 {
		// Each unordered pair contributes from both endpoints, so the
		// undirected normalisation 2/((n-1)(n-2)) collapses to 1/((n-1)(n-2))
		normFactor := 1.0 / float64((n-1)*(n-2))
		for id := range betweenness {
			betweenness[id] *= normFactor
		}
	}

	return betweenness
}

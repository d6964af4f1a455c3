package graph

import (
	"container/list"
	"sort"
)

// ComponentSizes returns the sizes of the weakly connected components of the
// graph, largest first. Connectivity uses the undirected projection: an edge
// in either direction joins its endpoints.
func (g *Graph) ComponentSizes() []int {
	visited := make(map[string]bool, len(g.out))
	sizes := make([]int, 0)

	for _, start := range g.Nodes() {
		if visited[start] {
			continue
		}

		size := 0
		queue := list.New()
		queue.PushBack(start)
		visited[start] = true

		for queue.Len() > 0 {
			id := queue.Remove(queue.Front()).(string)
			size++

			for to := range g.out[id] {
				if !visited[to] {
					visited[to] = true
					queue.PushBack(to)
				}
			}
			for from := range g.in[id] {
				if !visited[from] {
					visited[from] = true
					queue.PushBack(from)
				}
			}
		}

		sizes = append(sizes, size)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
	return sizes
}

// LargestComponentSize returns the node count of the largest weakly connected
// component, or 0 for an empty graph.
func (g *Graph) LargestComponentSize() int {
	sizes := g.ComponentSizes()
	if len(sizes) == 0 {
		return 0
	}
	return sizes[0]
}

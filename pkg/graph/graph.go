// Package graph holds the directed, weighted communication graph the
// diagnostics run on. The base graph is built once per run and treated as
// read-only; removal trials operate on private clones.
package graph

import (
	"sort"
	"time"

	"golang.org/x/exp/maps"
)

// Edge is an aggregated directed edge between two people. Weight is the
// number of interactions observed on the ordered pair; Timestamps holds the
// send times of the constituent messages in ascending order.
type Edge struct {
	From       string
	To         string
	Weight     int
	Timestamps []time.Time
}

// Graph is a directed weighted simple graph keyed by person identifier.
type Graph struct {
	out         map[string]map[string]*Edge
	in          map[string]map[string]*Edge
	edgeCount   int
	totalWeight int
}

// New creates an empty graph
func New() *Graph {
	return &Graph{
		out: make(map[string]map[string]*Edge),
		in:  make(map[string]map[string]*Edge),
	}
}

// addMessage records one interaction on the (from, to) edge, creating the
// edge and its endpoints as needed. Callers must have filtered self-loops.
func (g *Graph) addMessage(from, to string, ts time.Time) {
	if g.out[from] == nil {
		g.out[from] = make(map[string]*Edge)
	}
	if g.in[from] == nil {
		g.in[from] = make(map[string]*Edge)
	}
	if g.out[to] == nil {
		g.out[to] = make(map[string]*Edge)
	}
	if g.in[to] == nil {
		g.in[to] = make(map[string]*Edge)
	}

	edge := g.out[from][to]
	if edge == nil {
		edge = &Edge{From: from, To: to}
		g.out[from][to] = edge
		g.in[to][from] = edge
		g.edgeCount++
	}
	edge.Weight++
	edge.Timestamps = append(edge.Timestamps, ts)
	g.totalWeight++
}

// HasNode reports whether the identifier exists in the graph
func (g *Graph) HasNode(id string) bool {
	_, ok := g.out[id]
	return ok
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	return len(g.out)
}

// EdgeCount returns the number of distinct directed edges
func (g *Graph) EdgeCount() int {
	return g.edgeCount
}

// TotalWeight returns the total interaction count across all edges
func (g *Graph) TotalWeight() int {
	return g.totalWeight
}

// Nodes returns all node identifiers in lexicographic order
func (g *Graph) Nodes() []string {
	ids := maps.Keys(g.out)
	sort.Strings(ids)
	return ids
}

// Edge returns the directed edge from->to, or nil if absent
func (g *Graph) Edge(from, to string) *Edge {
	return g.out[from][to]
}

// OutEdges returns the outgoing edges of a node, ordered by target id
func (g *Graph) OutEdges(id string) []*Edge {
	return sortedEdges(g.out[id], func(e *Edge) string { return e.To })
}

// InEdges returns the incoming edges of a node, ordered by source id
func (g *Graph) InEdges(id string) []*Edge {
	return sortedEdges(g.in[id], func(e *Edge) string { return e.From })
}

func sortedEdges(m map[string]*Edge, key func(*Edge) string) []*Edge {
	if len(m) == 0 {
		return nil
	}
	edges := make([]*Edge, 0, len(m))
	for _, e := range m {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool { return key(edges[i]) < key(edges[j]) })
	return edges
}

// OutStrength returns the total weight of a node's outgoing edges
func (g *Graph) OutStrength(id string) int {
	total := 0
	for _, e := range g.out[id] {
		total += e.Weight
	}
	return total
}

// InStrength returns the total weight of a node's incoming edges
func (g *Graph) InStrength(id string) int {
	total := 0
	for _, e := range g.in[id] {
		total += e.Weight
	}
	return total
}

// Strength returns in-strength plus out-strength: the total message volume
// a node handles.
func (g *Graph) Strength(id string) int {
	return g.InStrength(id) + g.OutStrength(id)
}

// Neighbors returns the undirected neighbor set of a node, ordered
func (g *Graph) Neighbors(id string) []string {
	seen := make(map[string]struct{}, len(g.out[id])+len(g.in[id]))
	for to := range g.out[id] {
		seen[to] = struct{}{}
	}
	for from := range g.in[id] {
		seen[from] = struct{}{}
	}
	ids := maps.Keys(seen)
	sort.Strings(ids)
	return ids
}

// UndirectedWeight returns the combined weight between two nodes in both
// directions.
func (g *Graph) UndirectedWeight(a, b string) int {
	total := 0
	if e := g.out[a][b]; e != nil {
		total += e.Weight
	}
	if e := g.out[b][a]; e != nil {
		total += e.Weight
	}
	return total
}

// Clone returns a deep copy. Removal trials mutate clones, never the base
// graph.
func (g *Graph) Clone() *Graph {
	c := New()
	c.edgeCount = g.edgeCount
	c.totalWeight = g.totalWeight
	for id := range g.out {
		c.out[id] = make(map[string]*Edge, len(g.out[id]))
		c.in[id] = make(map[string]*Edge, len(g.in[id]))
	}
	for from, targets := range g.out {
		for to, e := range targets {
			ts := make([]time.Time, len(e.Timestamps))
			copy(ts, e.Timestamps)
			ce := &Edge{From: from, To: to, Weight: e.Weight, Timestamps: ts}
			c.out[from][to] = ce
			c.in[to][from] = ce
		}
	}
	return c
}

// RemoveNodes deletes the given nodes and all their edges
func (g *Graph) RemoveNodes(ids []string) {
	for _, id := range ids {
		targets, ok := g.out[id]
		if !ok {
			continue
		}
		for to, e := range targets {
			delete(g.in[to], id)
			g.edgeCount--
			g.totalWeight -= e.Weight
		}
		for from, e := range g.in[id] {
			if from == id {
				continue
			}
			delete(g.out[from], id)
			g.edgeCount--
			g.totalWeight -= e.Weight
		}
		delete(g.out, id)
		delete(g.in, id)
	}
}

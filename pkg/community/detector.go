// Package community partitions the communication graph into disjoint units
// by greedy modularity maximisation. Direction is ignored for partitioning;
// it is preserved on the graph for the directional metrics computed later.
package community

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dd0wney/cluso-orgnet/pkg/graph"
)

// Community is one element of the detected partition
type Community struct {
	ID      string
	Leader  string
	Members []string // sorted lexicographically
	Size    int
}

// Result contains the detected partition and its quality score
type Result struct {
	Communities []*Community
	Modularity  float64
	// Membership maps every node to its community ID. Communities partition
	// the node set: no overlap, no omission.
	Membership map[string]string
}

// MemberSet returns the community's members as a set
func (c *Community) MemberSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Members))
	for _, m := range c.Members {
		set[m] = struct{}{}
	}
	return set
}

// pairKey identifies an unordered community pair by the lexicographically
// smaller canonical node of each side.
type pairKey struct {
	a, b string // a < b
}

func makePairKey(x, y string) pairKey {
	if x < y {
		return pairKey{x, y}
	}
	return pairKey{y, x}
}

// detector holds the agglomeration state. Each working community is keyed by
// its canonical node: the lexicographically smallest member.
type detector struct {
	g       *graph.Graph
	members map[string][]string // canonical -> member nodes
	between map[pairKey]float64 // inter-community undirected weight
	inside  map[string]float64  // intra-community undirected weight (each edge once)
	degree  map[string]float64  // total undirected weighted degree of the community
	m2      float64             // 2m: twice the total undirected edge weight
}

// Detect partitions the graph by greedy modularity-maximising agglomeration
// (Clauset-Newman-Moore style) on the undirected weighted projection. The
// detector is deterministic: merge candidates are ordered by modularity gain,
// then combined inter-community weight, then the smaller node-pair key, so an
// identical graph always yields an identical partition and Q score.
func Detect(g *graph.Graph) (*Result, error) {
	if g == nil || g.NodeCount() == 0 {
		return nil, fmt.Errorf("community detection requires a non-empty graph")
	}

	d := newDetector(g)
	if d.m2 > 0 {
		for d.mergeBest() {
		}
	}
	return d.result(), nil
}

func newDetector(g *graph.Graph) *detector {
	d := &detector{
		g:       g,
		members: make(map[string][]string, g.NodeCount()),
		between: make(map[pairKey]float64),
		inside:  make(map[string]float64, g.NodeCount()),
		degree:  make(map[string]float64, g.NodeCount()),
	}

	for _, id := range g.Nodes() {
		d.members[id] = []string{id}
	}

	// Undirected projection: weight(u,v) = w(u->v) + w(v->u), each unordered
	// pair entered once.
	for _, from := range g.Nodes() {
		for _, e := range g.OutEdges(from) {
			key := makePairKey(from, e.To)
			if _, seen := d.between[key]; seen {
				continue
			}
			w := float64(g.UndirectedWeight(from, e.To))
			d.between[key] = w
			d.degree[from] += w
			d.degree[e.To] += w
			d.m2 += 2 * w
		}
	}

	return d
}

// deltaQ is the modularity gain of merging communities a and b
func (d *detector) deltaQ(key pairKey) float64 {
	eab := d.between[key] / d.m2
	return 2 * (eab - (d.degree[key.a]/d.m2)*(d.degree[key.b]/d.m2))
}

// mergeBest performs the single best merge. Returns false when no merge
// improves modularity.
func (d *detector) mergeBest() bool {
	var (
		bestKey    pairKey
		bestGain   float64
		bestWeight float64
		found      bool
	)

	for key, w := range d.between {
		gain := d.deltaQ(key)
		if !found {
			bestKey, bestGain, bestWeight, found = key, gain, w, true
			continue
		}
		if gain > bestGain {
			bestKey, bestGain, bestWeight = key, gain, w
			continue
		}
		if gain < bestGain {
			continue
		}
		// Tie on gain: prefer the heavier connection, then the smaller pair
		if w > bestWeight {
			bestKey, bestWeight = key, w
			continue
		}
		if w < bestWeight {
			continue
		}
		if key.a < bestKey.a || (key.a == bestKey.a && key.b < bestKey.b) {
			bestKey = key
		}
	}

	if !found || bestGain <= 0 {
		return false
	}

	d.merge(bestKey.a, bestKey.b)
	return true
}

// merge absorbs community b into community a (a < b by pairKey construction)
func (d *detector) merge(a, b string) {
	key := makePairKey(a, b)
	d.inside[a] += d.inside[b] + d.between[key]
	d.degree[a] += d.degree[b]
	d.members[a] = append(d.members[a], d.members[b]...)

	delete(d.between, key)
	delete(d.inside, b)
	delete(d.degree, b)
	delete(d.members, b)

	// Re-point b's remaining connections at a
	for other := range d.between {
		var third string
		switch {
		case other.a == b:
			third = other.b
		case other.b == b:
			third = other.a
		default:
			continue
		}
		w := d.between[other]
		delete(d.between, other)
		d.between[makePairKey(a, third)] += w
	}
}

// modularity computes Q for the current partition
func (d *detector) modularity() float64 {
	if d.m2 == 0 {
		return 0
	}
	q := 0.0
	for canonical := range d.members {
		in := d.inside[canonical]
		deg := d.degree[canonical]
		q += 2*in/d.m2 - (deg/d.m2)*(deg/d.m2)
	}
	return q
}

// result freezes the partition into named communities. The nominal leader of
// each community is its member with the highest inbound volume; community
// identifiers follow the C<rank>_<leader> convention, ranked by size.
func (d *detector) result() *Result {
	communities := make([]*Community, 0, len(d.members))
	for _, members := range d.members {
		sorted := make([]string, len(members))
		copy(sorted, members)
		sort.Strings(sorted)

		communities = append(communities, &Community{
			Leader:  d.leaderOf(sorted),
			Members: sorted,
			Size:    len(sorted),
		})
	}

	sort.Slice(communities, func(i, j int) bool {
		if communities[i].Size != communities[j].Size {
			return communities[i].Size > communities[j].Size
		}
		return communities[i].Members[0] < communities[j].Members[0]
	})

	membership := make(map[string]string, d.g.NodeCount())
	for i, c := range communities {
		c.ID = fmt.Sprintf("C%d_%s", i+1, localPart(c.Leader))
		for _, m := range c.Members {
			membership[m] = c.ID
		}
	}

	return &Result{
		Communities: communities,
		Modularity:  d.modularity(),
		Membership:  membership,
	}
}

func (d *detector) leaderOf(members []string) string {
	leader := members[0]
	best := d.g.InStrength(leader)
	for _, m := range members[1:] {
		if s := d.g.InStrength(m); s > best {
			leader, best = m, s
		}
	}
	return leader
}

// localPart strips an email domain from an identifier for display
func localPart(id string) string {
	if i := strings.IndexByte(id, '@'); i > 0 {
		return id[:i]
	}
	return id
}

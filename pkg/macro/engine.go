package macro

import (
	"sort"

	"github.com/dd0wney/cluso-orgnet/pkg/community"
	"github.com/dd0wney/cluso-orgnet/pkg/config"
	"github.com/dd0wney/cluso-orgnet/pkg/graph"
	"github.com/dd0wney/cluso-orgnet/pkg/logging"
	"github.com/dd0wney/cluso-orgnet/pkg/parallel"
)

// Engine computes the unit metric table for a detected partition
type Engine struct {
	ResponseTime config.ResponseTimeConfig
	// SlowHours feeds the bottleneck-density supplement; it mirrors the
	// typology slow threshold
	SlowHours float64
	Workers   int
	Log       logging.Logger
}

// NewEngine builds an engine from the run configuration
func NewEngine(cfg *config.Config, log logging.Logger) *Engine {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Engine{
		ResponseTime: cfg.ResponseTime,
		SlowHours:    cfg.Typology.SlowHours,
		Workers:      cfg.Workers,
		Log:          log,
	}
}

// Compute estimates response times once, then fans the per-unit metrics out
// across the worker pool. Records come back in the same order as the input
// communities. The base graph is read-only throughout; each fragmentation
// trial clones it privately.
func (e *Engine) Compute(g *graph.Graph, communities []*community.Community) ([]*UnitRecord, *ResponseTimes, error) {
	rt, err := EstimateResponseTimes(g, e.ResponseTime)
	if err != nil {
		return nil, nil, err
	}
	e.Log.Debug("response times estimated", logging.Count(rt.SampleCount()))

	records := make([]*UnitRecord, len(communities))
	parallel.ForEach(e.Workers, len(communities), e.Log, func(i int) {
		records[i] = e.computeUnit(g, communities[i], rt)
	})

	return records, rt, nil
}

func (e *Engine) computeUnit(g *graph.Graph, c *community.Community, rt *ResponseTimes) *UnitRecord {
	members := c.MemberSet()
	balance := MeasureBalance(g, members)

	rec := &UnitRecord{
		CommunityID:      c.ID,
		Leader:           c.Leader,
		Size:             c.Size,
		FragmentationPct: FragmentationImpact(g, c.Members),
		EIWeight:         balance.EIWeight(),
		EICount:          balance.EICount(),
		AvgResponseHours: rt.CommunityAverage(c.Members),
	}

	rec.BottleneckDensityPct = e.bottleneckDensity(c.Members, rt)
	rec.WorkloadSkewPct = workloadSkew(g, c.Members)

	return rec
}

// bottleneckDensity is the share of members whose personal response time
// exceeds the slow threshold.
func (e *Engine) bottleneckDensity(members []string, rt *ResponseTimes) float64 {
	if len(members) == 0 {
		return 0
	}
	slow := 0
	for _, m := range members {
		if avg := rt.PersonalAverage(m); avg != nil && *avg > e.SlowHours {
			slow++
		}
	}
	return float64(slow) / float64(len(members)) * 100
}

// workloadSkew is the share of the unit's inbound volume carried by its top
// decile of members. Nil when the unit receives nothing.
func workloadSkew(g *graph.Graph, members []string) *float64 {
	loads := make([]int, 0, len(members))
	total := 0
	for _, m := range members {
		load := g.InStrength(m)
		loads = append(loads, load)
		total += load
	}
	if total == 0 {
		return nil
	}

	sort.Sort(sort.Reverse(sort.IntSlice(loads)))
	topK := len(members) / 10
	if topK < 1 {
		topK = 1
	}
	top := 0
	for _, load := range loads[:topK] {
		top += load
	}
	skew := float64(top) / float64(total) * 100
	return &skew
}

package simulation

import (
	"fmt"

	"github.com/dd0wney/cluso-orgnet/pkg/community"
	"github.com/dd0wney/cluso-orgnet/pkg/config"
	"github.com/dd0wney/cluso-orgnet/pkg/graph"
	"github.com/dd0wney/cluso-orgnet/pkg/logging"
	"github.com/dd0wney/cluso-orgnet/pkg/macro"
	"github.com/dd0wney/cluso-orgnet/pkg/parallel"
)

// Trial is one archetype-removal experiment against a unit
type Trial struct {
	CommunityID string    `json:"community_id"`
	Archetype   Archetype `json:"archetype"`
	Removed     []string  `json:"removed"`
	LCCBefore   int       `json:"lcc_before"`
	LCCAfter    int       `json:"lcc_after"`
	LossPct     float64   `json:"lcc_loss_pct"`
}

// Result pairs the two archetype trials for one target unit so the
// connector-vs-absorber damage ratio reads off directly.
type Result struct {
	CommunityID string `json:"community_id"`
	Absorber    Trial  `json:"absorber"`
	Connector   Trial  `json:"connector"`
	// DamageRatio is connector loss over absorber loss; nil when the
	// absorber trial causes no loss
	DamageRatio *float64 `json:"damage_ratio"`
}

// Simulator runs the targeted-removal stress tests
type Simulator struct {
	cfg config.SimulationConfig
	log logging.Logger
}

// NewSimulator builds a simulator from the run configuration
func NewSimulator(cfg config.SimulationConfig, log logging.Logger) *Simulator {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Simulator{cfg: cfg, log: log}
}

// Run stress-tests one target unit. Both archetype sets are ranked over the
// unit's members (the sets may overlap), each removed from an independent
// clone of the full graph, and the loss in largest-component size recorded.
// The base graph is never mutated.
func (s *Simulator) Run(g *graph.Graph, c *community.Community, rt *macro.ResponseTimes) (*Result, error) {
	if c == nil || len(c.Members) == 0 {
		return nil, fmt.Errorf("stress test requires a non-empty community")
	}

	before := g.LargestComponentSize()

	absorbers := topK(loadAbsorberScores(g, c.Members), s.cfg.TopK)
	connectors := topK(connectorScores(g, c, rt, s.cfg), s.cfg.TopK)

	res := &Result{
		CommunityID: c.ID,
		Absorber:    s.trial(g, c.ID, ArchetypeLoadAbsorber, absorbers, before),
		Connector:   s.trial(g, c.ID, ArchetypeConnector, connectors, before),
	}

	if res.Absorber.LossPct > 0 {
		ratio := res.Connector.LossPct / res.Absorber.LossPct
		res.DamageRatio = &ratio
	}

	s.log.Info("stress test complete",
		logging.CommunityID(c.ID),
		logging.Float64("absorber_loss_pct", res.Absorber.LossPct),
		logging.Float64("connector_loss_pct", res.Connector.LossPct),
	)

	return res, nil
}

// RunAll stress-tests each target unit on its own worker
func (s *Simulator) RunAll(g *graph.Graph, targets []*community.Community, rt *macro.ResponseTimes, workers int) ([]*Result, error) {
	results := make([]*Result, len(targets))
	errs := make([]error, len(targets))

	parallel.ForEach(workers, len(targets), s.log, func(i int) {
		results[i], errs[i] = s.Run(g, targets[i], rt)
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (s *Simulator) trial(g *graph.Graph, communityID string, archetype Archetype, removed []string, before int) Trial {
	working := g.Clone()
	working.RemoveNodes(removed)
	after := working.LargestComponentSize()

	loss := 0.0
	if before > 0 {
		loss = float64(before-after) / float64(before) * 100
		if loss < 0 {
			loss = 0
		}
	}

	return Trial{
		CommunityID: communityID,
		Archetype:   archetype,
		Removed:     removed,
		LCCBefore:   before,
		LCCAfter:    after,
		LossPct:     loss,
	}
}

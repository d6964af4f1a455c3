// Package pipeline sequences the full diagnostic run: load the interaction
// table, build the graph, detect communities, compute unit metrics, classify
// typologies, and stress-test the highest-impact units. All run state lives
// in explicit objects passed between stages.
package pipeline

import (
	"sort"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-orgnet/pkg/community"
	"github.com/dd0wney/cluso-orgnet/pkg/config"
	"github.com/dd0wney/cluso-orgnet/pkg/graph"
	"github.com/dd0wney/cluso-orgnet/pkg/interaction"
	"github.com/dd0wney/cluso-orgnet/pkg/logging"
	"github.com/dd0wney/cluso-orgnet/pkg/macro"
	"github.com/dd0wney/cluso-orgnet/pkg/simulation"
	"github.com/dd0wney/cluso-orgnet/pkg/telemetry"
	"github.com/dd0wney/cluso-orgnet/pkg/typology"
)

// Outcome carries everything a run produces
type Outcome struct {
	RunID string

	Graph       *graph.Graph
	Detection   *community.Result
	Units       []*macro.UnitRecord
	Individuals []*macro.IndividualRecord
	Simulations []*simulation.Result
}

// Pipeline runs the batch diagnostic end to end
type Pipeline struct {
	cfg *config.Config
	log logging.Logger
	tel *telemetry.Registry
}

// New validates the configuration and assembles a pipeline. Configuration
// problems surface here, before any graph work.
func New(cfg *config.Config, log logging.Logger, tel *telemetry.Registry) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	if tel == nil {
		tel = telemetry.NewRegistry()
	}
	return &Pipeline{cfg: cfg, log: log, tel: tel}, nil
}

// Run executes a full diagnostic pass over the given interaction records.
// The computation is synchronous and in-memory; persistence and export of
// the outcome are the caller's concern.
func (p *Pipeline) Run(records []interaction.Interaction) (*Outcome, error) {
	runID := uuid.NewString()
	log := p.log.With(logging.RunID(runID))

	p.tel.InteractionsLoaded.Add(float64(len(records)))

	// Build the base graph; it stays read-only for the rest of the run
	timer := logging.StartTimer(log, "graph built", logging.Stage("build"))
	g, err := graph.Build(records)
	if err != nil {
		timer.EndError(err)
		return nil, err
	}
	p.tel.ObserveStage("build", timer.End())
	p.tel.GraphNodes.Set(float64(g.NodeCount()))
	p.tel.GraphEdges.Set(float64(g.EdgeCount()))
	p.tel.GraphWeight.Set(float64(g.TotalWeight()))

	// Partition into communication-based units
	timer = logging.StartTimer(log, "communities detected", logging.Stage("detect"))
	detection, err := community.Detect(g)
	if err != nil {
		timer.EndError(err)
		return nil, err
	}
	p.tel.ObserveStage("detect", timer.End())
	p.tel.CommunitiesDetected.Set(float64(len(detection.Communities)))
	p.tel.Modularity.Set(detection.Modularity)
	log.Info("partition quality",
		logging.Float64("modularity", detection.Modularity),
		logging.Count(len(detection.Communities)),
	)

	// Units below the reporting cutoff keep their membership but are not
	// reported or stress-tested
	reported := make([]*community.Community, 0, len(detection.Communities))
	for _, c := range detection.Communities {
		if c.Size >= p.cfg.Community.MinSize {
			reported = append(reported, c)
		}
	}

	// Per-unit macro metrics, fanned out across workers
	timer = logging.StartTimer(log, "unit metrics computed", logging.Stage("macro"))
	engine := macro.NewEngine(p.cfg, log)
	units, rt, err := engine.Compute(g, reported)
	if err != nil {
		timer.EndError(err)
		return nil, err
	}
	p.tel.ObserveStage("macro", timer.End())
	p.tel.ReplySamples.Set(float64(rt.SampleCount()))

	// Classification is pure table lookup over the finished records
	classifier, err := typology.NewClassifier(p.cfg.Typology)
	if err != nil {
		return nil, err
	}
	classifier.Apply(units)

	// Report order: fragmentation impact descending
	order := make(map[string]int, len(units))
	sort.Slice(units, func(i, j int) bool {
		if units[i].FragmentationPct != units[j].FragmentationPct {
			return units[i].FragmentationPct > units[j].FragmentationPct
		}
		return units[i].CommunityID < units[j].CommunityID
	})
	for i, rec := range units {
		order[rec.CommunityID] = i
	}
	sort.Slice(reported, func(i, j int) bool {
		return order[reported[i].ID] < order[reported[j].ID]
	})

	timer = logging.StartTimer(log, "individual table built", logging.Stage("individuals"))
	individuals := macro.IndividualTable(g, rt, detection.Membership)
	p.tel.ObserveStage("individuals", timer.End())

	// Stress-test the highest fragmentation-impact units
	targets := reported
	if len(targets) > p.cfg.Simulation.Targets {
		targets = targets[:p.cfg.Simulation.Targets]
	}

	timer = logging.StartTimer(log, "stress tests complete", logging.Stage("simulate"))
	simulator := simulation.NewSimulator(p.cfg.Simulation, log)
	simulations, err := simulator.RunAll(g, targets, rt, p.cfg.Workers)
	if err != nil {
		timer.EndError(err)
		return nil, err
	}
	p.tel.ObserveStage("simulate", timer.End())
	for range simulations {
		p.tel.SimulationTrials.WithLabelValues(string(simulation.ArchetypeLoadAbsorber)).Inc()
		p.tel.SimulationTrials.WithLabelValues(string(simulation.ArchetypeConnector)).Inc()
	}

	return &Outcome{
		RunID:       runID,
		Graph:       g,
		Detection:   detection,
		Units:       units,
		Individuals: individuals,
		Simulations: simulations,
	}, nil
}

package pipeline

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/dd0wney/cluso-orgnet/pkg/config"
	"github.com/dd0wney/cluso-orgnet/pkg/interaction"
)

var baseTime = time.Date(2001, 5, 1, 0, 0, 0, 0, time.UTC)

func msg(from, to string, at float64) interaction.Interaction {
	return interaction.Interaction{
		SenderID:     from,
		RecipientID:  to,
		Timestamp:    baseTime.Add(time.Duration(at * float64(time.Hour))),
		ContentValid: true,
	}
}

// corpus builds two four-person groups joined by a bridge, every pair inside
// a group exchanging a send and a half-hour reply.
func corpus() []interaction.Interaction {
	var records []interaction.Interaction
	at := 0.0
	for _, group := range [][]string{
		{"a1", "a2", "a3", "a4"},
		{"b1", "b2", "b3", "b4"},
	} {
		for i := range group {
			for j := i + 1; j < len(group); j++ {
				records = append(records, msg(group[i], group[j], at))
				records = append(records, msg(group[j], group[i], at+0.5))
				at++
			}
		}
	}
	records = append(records, msg("a1", "b1", at))
	return records
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Community.MinSize = 4
	cfg.Workers = 2
	return cfg
}

func TestPipelineRun(t *testing.T) {
	p, err := New(testConfig(), nil, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	outcome, err := p.Run(corpus())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if outcome.RunID == "" {
		t.Error("Expected a run identifier")
	}
	if outcome.Graph.NodeCount() != 8 {
		t.Errorf("Expected 8 nodes, got %d", outcome.Graph.NodeCount())
	}

	if len(outcome.Units) != 2 {
		t.Fatalf("Expected 2 reported units, got %d", len(outcome.Units))
	}
	for _, unit := range outcome.Units {
		if unit.Typology == "" {
			t.Errorf("Unit %s was not classified", unit.CommunityID)
		}
		if unit.EIWeight == nil || unit.AvgResponseHours == nil {
			t.Errorf("Unit %s is missing metrics", unit.CommunityID)
		}
	}
	if outcome.Units[0].FragmentationPct < outcome.Units[1].FragmentationPct {
		t.Error("Units not ordered by fragmentation impact")
	}

	if len(outcome.Individuals) != 8 {
		t.Errorf("Expected 8 individual rows, got %d", len(outcome.Individuals))
	}

	if len(outcome.Simulations) != 2 {
		t.Fatalf("Expected 2 stress-test results, got %d", len(outcome.Simulations))
	}
	for i, sim := range outcome.Simulations {
		if sim.CommunityID != outcome.Units[i].CommunityID {
			t.Errorf("Simulation %d targets %s, expected %s", i, sim.CommunityID, outcome.Units[i].CommunityID)
		}
	}
}

func TestPipelineRun_Deterministic(t *testing.T) {
	run := func() ([]string, []float64) {
		p, err := New(testConfig(), nil, nil)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		outcome, err := p.Run(corpus())
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		ids := make([]string, len(outcome.Units))
		frags := make([]float64, len(outcome.Units))
		for i, u := range outcome.Units {
			ids[i] = u.CommunityID
			frags[i] = u.FragmentationPct
		}
		return ids, frags
	}

	ids1, frags1 := run()
	for i := 0; i < 3; i++ {
		ids2, frags2 := run()
		if !reflect.DeepEqual(ids1, ids2) || !reflect.DeepEqual(frags1, frags2) {
			t.Fatalf("Runs diverged: %v/%v vs %v/%v", ids1, frags1, ids2, frags2)
		}
	}
}

func TestPipelineRun_SizeFloorFiltersReporting(t *testing.T) {
	cfg := testConfig()
	cfg.Community.MinSize = 5

	p, err := New(cfg, nil, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	outcome, err := p.Run(corpus())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(outcome.Units) != 0 {
		t.Errorf("Expected no reported units below the size floor, got %d", len(outcome.Units))
	}
	if len(outcome.Simulations) != 0 {
		t.Errorf("Expected no stress tests below the size floor, got %d", len(outcome.Simulations))
	}
	// Membership still covers everyone
	if len(outcome.Detection.Membership) != outcome.Graph.NodeCount() {
		t.Errorf("Membership covers %d of %d nodes",
			len(outcome.Detection.Membership), outcome.Graph.NodeCount())
	}
}

func TestPipelineRun_EmptyInput(t *testing.T) {
	p, err := New(testConfig(), nil, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = p.Run(nil)

	var dataErr *interaction.DataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("Expected DataError for empty input, got %v", err)
	}
}

func TestNew_RejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Typology.EIClosedMax = -2

	_, err := New(cfg, nil, nil)

	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected ConfigError, got %v", err)
	}
}

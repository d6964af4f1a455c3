package macro

import (
	"testing"

	"github.com/dd0wney/cluso-orgnet/pkg/community"
	"github.com/dd0wney/cluso-orgnet/pkg/config"
	"github.com/dd0wney/cluso-orgnet/pkg/graph"
	"github.com/dd0wney/cluso-orgnet/pkg/interaction"
	"github.com/dd0wney/cluso-orgnet/pkg/logging"
)

// twoTriangles builds two fully-connected trios joined by a single cross
// edge. Every pair exchanges one message each way, the reply half an hour
// after the send.
func twoTriangles(t *testing.T) *graph.Graph {
	t.Helper()

	var records []interaction.Interaction
	at := 0.0
	for _, trio := range [][]string{{"a1", "a2", "a3"}, {"b1", "b2", "b3"}} {
		for i := range trio {
			for j := i + 1; j < len(trio); j++ {
				records = append(records, msg(trio[i], trio[j], at))
				records = append(records, msg(trio[j], trio[i], at+0.5))
				at++
			}
		}
	}
	records = append(records, msg("a1", "b1", at))

	return mustBuild(t, records)
}

func trioCommunities() []*community.Community {
	return []*community.Community{
		{ID: "C1_a1", Leader: "a1", Members: []string{"a1", "a2", "a3"}, Size: 3},
		{ID: "C2_b1", Leader: "b1", Members: []string{"b1", "b2", "b3"}, Size: 3},
	}
}

func TestEngineCompute(t *testing.T) {
	g := twoTriangles(t)
	cfg := config.Default()
	cfg.Workers = 2

	engine := NewEngine(cfg, logging.NewNopLogger())
	records, rt, err := engine.Compute(g, trioCommunities())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].CommunityID != "C1_a1" || records[1].CommunityID != "C2_b1" {
		t.Fatalf("Records out of order: %s, %s", records[0].CommunityID, records[1].CommunityID)
	}

	for _, rec := range records {
		if rec.EIWeight == nil {
			t.Fatalf("%s: expected an E-I index", rec.CommunityID)
		}
		// 6 internal messages against 1 crossing the boundary
		approx(t, rec.CommunityID+" EIWeight", *rec.EIWeight, -5.0/7.0)

		if rec.AvgResponseHours == nil {
			t.Fatalf("%s: expected an average response time", rec.CommunityID)
		}
		approx(t, rec.CommunityID+" AvgResponseHours", *rec.AvgResponseHours, 0.5)

		// Removing either trio halves the connected graph
		approx(t, rec.CommunityID+" FragmentationPct", rec.FragmentationPct, 50)
	}

	// Each trio replies to three sends, none of them crossing the boundary
	if rt.SampleCount() != 6 {
		t.Errorf("Expected 6 reply samples, got %d", rt.SampleCount())
	}
}

// Internal and external tallies must account for every message exactly once:
// internal edges once, boundary-crossing edges once from each side.
func TestEngineCompute_BalancePartitionsWeight(t *testing.T) {
	g := twoTriangles(t)

	internal, external := 0, 0
	for _, c := range trioCommunities() {
		b := MeasureBalance(g, c.MemberSet())
		internal += b.InternalWeight
		external += b.ExternalWeight
	}

	if got := internal + external/2; got != g.TotalWeight() {
		t.Errorf("Balance tallies cover %d of %d total weight", got, g.TotalWeight())
	}
	if external%2 != 0 {
		t.Errorf("Cross-boundary weight should be counted twice, got odd total %d", external)
	}
}

func TestEngineCompute_BottleneckDensity(t *testing.T) {
	// slow replies after 60h, fast after 1h, m1 never replies
	g := mustBuild(t, []interaction.Interaction{
		msg("m1", "slow", 0),
		msg("slow", "m1", 60),
		msg("m1", "fast", 0),
		msg("fast", "m1", 1),
	})

	cfg := config.Default()
	engine := NewEngine(cfg, nil)

	records, _, err := engine.Compute(g, []*community.Community{
		{ID: "C1_m1", Leader: "m1", Members: []string{"fast", "m1", "slow"}, Size: 3},
	})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	rec := records[0]
	approx(t, "BottleneckDensityPct", rec.BottleneckDensityPct, 100.0/3.0)

	// Inbound loads are fast=1, m1=2, slow=1; the busiest member carries half
	if rec.WorkloadSkewPct == nil {
		t.Fatal("Expected a workload skew value")
	}
	approx(t, "WorkloadSkewPct", *rec.WorkloadSkewPct, 50)
}

func TestWorkloadSkew_NoInbound(t *testing.T) {
	g := mustBuild(t, []interaction.Interaction{
		msg("a", "b", 0),
	})

	if got := workloadSkew(g, []string{"a"}); got != nil {
		t.Errorf("Expected nil skew for a unit receiving nothing, got %f", *got)
	}
}

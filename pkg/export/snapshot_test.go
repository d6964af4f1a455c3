package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dd0wney/cluso-orgnet/pkg/macro"
	"github.com/dd0wney/cluso-orgnet/pkg/simulation"
)

func f(v float64) *float64 { return &v }

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		RunID:       "9f1c2d3e",
		GeneratedAt: time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
		Modularity:  0.42,
		Units: []*macro.UnitRecord{
			{
				CommunityID:      "C1_alice",
				Leader:           "alice@corp.com",
				Size:             12,
				FragmentationPct: 34.5,
				EIWeight:         f(-0.6),
				AvgResponseHours: f(55.2),
				Typology:         "Black Hole",
			},
			{
				CommunityID: "C2_bob",
				Size:        10,
				// Nil metrics must survive the round trip as nulls
			},
		},
		Individuals: []*macro.IndividualRecord{
			{User: "alice@corp.com", CommunityID: "C1_alice", ReceivedCount: 40, Betweenness: 0.12},
		},
		Simulations: []*simulation.Result{
			{
				CommunityID: "C1_alice",
				Absorber: simulation.Trial{
					CommunityID: "C1_alice",
					Archetype:   simulation.ArchetypeLoadAbsorber,
					Removed:     []string{"alice@corp.com"},
					LCCBefore:   100,
					LCCAfter:    95,
					LossPct:     5,
				},
				DamageRatio: f(4.2),
			},
		},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	snap := sampleSnapshot()

	compressed, err := Encode(snap)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	got, err := Decode(compressed)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if got.RunID != snap.RunID {
		t.Errorf("RunID changed: %s", got.RunID)
	}
	if len(got.Units) != 2 {
		t.Fatalf("Expected 2 units, got %d", len(got.Units))
	}
	if got.Units[0].EIWeight == nil || *got.Units[0].EIWeight != -0.6 {
		t.Errorf("EIWeight did not survive: %v", got.Units[0].EIWeight)
	}
	if got.Units[1].EIWeight != nil {
		t.Errorf("Expected nil EIWeight to stay nil, got %f", *got.Units[1].EIWeight)
	}
	if got.Simulations[0].Absorber.Archetype != simulation.ArchetypeLoadAbsorber {
		t.Errorf("Unexpected archetype: %s", got.Simulations[0].Absorber.Archetype)
	}
}

func TestDecode_Garbage(t *testing.T) {
	if _, err := Decode([]byte("not snappy data")); err == nil {
		t.Fatal("Expected error for corrupt input")
	}
}

func TestWriteAndReadFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	snap := sampleSnapshot()

	path, err := WriteFile(dir, snap)
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if filepath.Base(path) != "orgnet_9f1c2d3e.json.sz" {
		t.Errorf("Unexpected file name: %s", filepath.Base(path))
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if got.RunID != snap.RunID || got.Modularity != snap.Modularity {
		t.Errorf("Snapshot changed across the file round trip")
	}
}

// Package export writes run results as snappy-compressed JSON snapshots and
// optionally uploads them to S3 for downstream reporting tools.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-orgnet/pkg/macro"
	"github.com/dd0wney/cluso-orgnet/pkg/simulation"
)

// Snapshot is the full result payload of one run
type Snapshot struct {
	RunID       string                    `json:"run_id"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Modularity  float64                   `json:"modularity"`
	Units       []*macro.UnitRecord       `json:"units"`
	Individuals []*macro.IndividualRecord `json:"individuals"`
	Simulations []*simulation.Result      `json:"simulations"`
}

// Encode marshals a snapshot and compresses it with snappy
func Encode(snap *Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return snappy.Encode(nil, data), nil
}

// Decode decompresses and unmarshals a snapshot
func Decode(compressed []byte) (*Snapshot, error) {
	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress snapshot: %w", err)
	}
	snap := &Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return snap, nil
}

// FileName returns the canonical snapshot file name for a run
func FileName(runID string) string {
	return fmt.Sprintf("orgnet_%s.json.sz", runID)
}

// WriteFile encodes the snapshot into dir, creating it if needed, and
// returns the written path.
func WriteFile(dir string, snap *Snapshot) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	compressed, err := Encode(snap)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName(snap.RunID))
	if err := os.WriteFile(path, compressed, 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	return path, nil
}

// ReadFile loads a snapshot written by WriteFile
func ReadFile(path string) (*Snapshot, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return Decode(compressed)
}

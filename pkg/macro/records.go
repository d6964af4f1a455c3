// Package macro computes the per-unit diagnostic metrics: directional
// balance (EI index), response latency, and fragmentation impact. Each unit
// is computed independently against the read-only base graph, so units fan
// out across workers.
package macro

// UnitRecord is the per-community metric row handed to classification,
// reporting, and persistence. Optional metrics are nil when undefined;
// consumers must render them as null, never as zero.
type UnitRecord struct {
	CommunityID string `json:"community_id"`
	Leader      string `json:"leader"`
	Size        int    `json:"size"`

	FragmentationPct float64  `json:"fragmentation_impact_pct"`
	EIWeight         *float64 `json:"ei_index"`
	EICount          *float64 `json:"ei_count"`
	AvgResponseHours *float64 `json:"avg_response_hours"`

	// BottleneckDensityPct is the share of members whose personal response
	// time exceeds the slow threshold
	BottleneckDensityPct float64 `json:"bottleneck_density_pct"`
	// WorkloadSkewPct is the share of inbound volume carried by the top
	// decile of members; nil when the unit receives nothing
	WorkloadSkewPct *float64 `json:"workload_skew_pct"`

	Typology string `json:"typology"`
}

// IndividualRecord is one row of the per-person drill-down table
type IndividualRecord struct {
	User             string   `json:"user"`
	CommunityID      string   `json:"community_id"`
	ReceivedCount    int      `json:"received_count"`
	AvgResponseHours *float64 `json:"avg_response_hours"`
	ExternalOutPct   float64  `json:"external_out_pct"`
	Betweenness      float64  `json:"betweenness"`
}

// Package report renders the diagnostic tables for the CLI. Formatting
// only; every number comes straight from the metric and simulation records.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-orgnet/pkg/macro"
	"github.com/dd0wney/cluso-orgnet/pkg/simulation"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	riskStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5555"))

	healthyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#55FF55"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// RenderMacroTable renders the top-N unit metric rows. Callers pass records
// already sorted (fragmentation impact descending by convention).
func RenderMacroTable(records []*macro.UnitRecord, topN int) string {
	if len(records) == 0 {
		return "no units above the reporting size cutoff"
	}
	if topN > 0 && len(records) > topN {
		records = records[:topN]
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Organizational Units: Macro Diagnostics"))
	b.WriteString("\n")

	header := fmt.Sprintf("%-24s %6s %10s %8s %8s %10s %8s  %s",
		"UNIT", "SIZE", "FRAG%", "EI", "RT(h)", "BOTTLE%", "SKEW%", "TYPOLOGY")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for _, rec := range records {
		label := rec.Typology
		if label == "" {
			label = "-"
		}
		styled := healthyStyle.Render(label)
		if label != "Healthy" && label != "-" {
			styled = riskStyle.Render(label)
		}

		b.WriteString(fmt.Sprintf("%-24s %6d %10.2f %8s %8s %10.1f %8s  %s\n",
			truncate(rec.CommunityID, 24),
			rec.Size,
			rec.FragmentationPct,
			formatOptional(rec.EIWeight, "%.2f"),
			formatOptional(rec.AvgResponseHours, "%.1f"),
			rec.BottleneckDensityPct,
			formatOptional(rec.WorkloadSkewPct, "%.1f"),
			styled,
		))
	}

	return boxStyle.Render(b.String())
}

// RenderSimulations renders the stress-test results with the
// connector-vs-absorber damage comparison.
func RenderSimulations(results []*simulation.Result) string {
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Targeted-Removal Stress Tests"))
	b.WriteString("\n")

	for _, res := range results {
		b.WriteString(headerStyle.Render(res.CommunityID))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  remove top %d load absorbers: LCC loss %.2f%%\n",
			len(res.Absorber.Removed), res.Absorber.LossPct))
		b.WriteString(fmt.Sprintf("  remove top %d connectors:     LCC loss %.2f%%\n",
			len(res.Connector.Removed), res.Connector.LossPct))
		if res.DamageRatio != nil {
			b.WriteString(fmt.Sprintf("  connector impact is %.1fx the volume impact\n", *res.DamageRatio))
		}
	}

	return boxStyle.Render(b.String())
}

// RenderSummary renders the one-line run summary
func RenderSummary(nodes, edges, communities int, modularity float64) string {
	return titleStyle.Render(fmt.Sprintf(
		"network: %d nodes, %d edges, %d communities, modularity %.4f",
		nodes, edges, communities, modularity))
}

func formatOptional(v *float64, format string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf(format, *v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

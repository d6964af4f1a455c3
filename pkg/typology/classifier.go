// Package typology maps unit metric records to named risk categories via an
// ordered rule table. Rules are evaluated top to bottom; the first match
// wins, so new typologies slot in without touching control flow.
package typology

import (
	"github.com/dd0wney/cluso-orgnet/pkg/config"
	"github.com/dd0wney/cluso-orgnet/pkg/macro"
)

// Risk typology labels
const (
	LabelBlackHole     = "Black Hole"
	LabelOverloadedHub = "Overloaded Hub"
	LabelBureaucratic  = "Bureaucratic"
	LabelHealthy       = "Healthy"
)

// Rule is one row of the classification table
type Rule struct {
	Label   string
	Matches func(rec *macro.UnitRecord) bool
}

// Classifier applies the ordered rule table
type Classifier struct {
	rules []Rule
}

// NewClassifier validates the thresholds and builds the rule table. An
// unsatisfiable threshold combination is a *config.ConfigError, raised here
// so it surfaces before any graph work.
func NewClassifier(t config.TypologyThresholds) (*Classifier, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	rules := []Rule{
		{
			// Closed and slow: work goes in, nothing comes back out
			Label: LabelBlackHole,
			Matches: func(rec *macro.UnitRecord) bool {
				return rec.EIWeight != nil && *rec.EIWeight < t.EIClosedMax &&
					rec.AvgResponseHours != nil && *rec.AvgResponseHours > t.SlowHours
			},
		},
		{
			// Open and slow: saturated by cross-unit demand
			Label: LabelOverloadedHub,
			Matches: func(rec *macro.UnitRecord) bool {
				return rec.EIWeight != nil && *rec.EIWeight > t.EIOpenMin &&
					rec.AvgResponseHours != nil && *rec.AvgResponseHours > t.SlowHours
			},
		},
		{
			// Extremely closed and small: an isolated silo
			Label: LabelBureaucratic,
			Matches: func(rec *macro.UnitRecord) bool {
				return rec.EIWeight != nil && *rec.EIWeight <= t.EIBureaucraticMax &&
					rec.Size < t.SmallUnitSize
			},
		},
	}

	return &Classifier{rules: rules}, nil
}

// Classify returns the label of the first matching rule. A nil EI or
// response time never matches a rule that needs that value; units that match
// nothing are Healthy.
func (c *Classifier) Classify(rec *macro.UnitRecord) string {
	for _, rule := range c.rules {
		if rule.Matches(rec) {
			return rule.Label
		}
	}
	return LabelHealthy
}

// Apply classifies every record in place
func (c *Classifier) Apply(records []*macro.UnitRecord) {
	for _, rec := range records {
		rec.Typology = c.Classify(rec)
	}
}

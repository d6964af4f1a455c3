package macro

import (
	"fmt"
	"sort"
	"time"

	"github.com/dd0wney/cluso-orgnet/pkg/config"
	"github.com/dd0wney/cluso-orgnet/pkg/graph"
	"github.com/dd0wney/cluso-orgnet/pkg/interaction"
)

// ResponseTimes holds the confirmed reply samples of a run. A sample is
// attributed twice: to its initiator (whose community's latency it measures)
// and to its responder (whose personal speed it measures).
type ResponseTimes struct {
	byInitiator map[string][]float64
	byResponder map[string][]float64
	total       int
}

// EstimateResponseTimes scans every directed message for its confirmed
// reply: the earliest message on the reverse edge strictly after the
// initiating send. Each initiating message yields at most one sample.
// Samples outside the configured (MinHours, MaxHours) window are discarded
// as noise (clock skew, dormant threads). Messages with no qualifying reply
// contribute nothing.
func EstimateResponseTimes(g *graph.Graph, cfg config.ResponseTimeConfig) (*ResponseTimes, error) {
	rt := &ResponseTimes{
		byInitiator: make(map[string][]float64),
		byResponder: make(map[string][]float64),
	}

	for _, initiator := range g.Nodes() {
		for _, e := range g.OutEdges(initiator) {
			reverse := g.Edge(e.To, initiator)
			if reverse == nil {
				continue
			}
			if err := checkMonotonic(e); err != nil {
				return nil, err
			}
			if err := checkMonotonic(reverse); err != nil {
				return nil, err
			}

			for _, sent := range e.Timestamps {
				reply, ok := firstAfter(reverse.Timestamps, sent)
				if !ok {
					continue
				}
				hours := reply.Sub(sent).Hours()
				if hours <= cfg.MinHours || hours >= cfg.MaxHours {
					continue
				}
				rt.byInitiator[initiator] = append(rt.byInitiator[initiator], hours)
				rt.byResponder[e.To] = append(rt.byResponder[e.To], hours)
				rt.total++
			}
		}
	}

	return rt, nil
}

// firstAfter returns the earliest timestamp strictly after t
func firstAfter(sorted []time.Time, t time.Time) (time.Time, bool) {
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i].After(t) })
	if i == len(sorted) {
		return time.Time{}, false
	}
	return sorted[i], true
}

func checkMonotonic(e *graph.Edge) error {
	for i := 1; i < len(e.Timestamps); i++ {
		if e.Timestamps[i].Before(e.Timestamps[i-1]) {
			return &interaction.DataError{
				Msg: fmt.Sprintf("edge %s->%s has non-monotonic timestamps", e.From, e.To),
			}
		}
	}
	return nil
}

// SampleCount returns the total number of confirmed reply samples
func (rt *ResponseTimes) SampleCount() int {
	return rt.total
}

// CommunityAverage returns the mean latency over all samples whose
// initiating sender belongs to the unit, or nil when the unit has no
// confirmed replies.
func (rt *ResponseTimes) CommunityAverage(members []string) *float64 {
	sum := 0.0
	n := 0
	for _, m := range members {
		for _, h := range rt.byInitiator[m] {
			sum += h
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// PersonalAverage returns how quickly an individual replies on average, or
// nil when they never produced a confirmed reply.
func (rt *ResponseTimes) PersonalAverage(id string) *float64 {
	samples := rt.byResponder[id]
	if len(samples) == 0 {
		return nil
	}
	sum := 0.0
	for _, h := range samples {
		sum += h
	}
	avg := sum / float64(len(samples))
	return &avg
}

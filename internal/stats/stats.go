// Package stats folds normalized log records into per-agent and
// team-wide usage summaries. Everything here is a pure function of its
// inputs; nothing touches HTTP or the filesystem.
package stats

import (
	"math"
	"sort"

	"github.com/piedpiper/teamboard/internal/agentlog"
)

// humanTokensPerHour is the assumed average human throughput of
// output-equivalent tokens per hour, used for the human-equivalent-hours
// estimate.
const humanTokensPerHour = 3200

// DefaultContextMax is the advertised context window size.
const DefaultContextMax = 200000

// hourKeyLen truncates an ISO-8601 timestamp to hour granularity
// ("2026-02-18T13"). Buckets are keyed by string prefix, not by parsed
// instants.
const hourKeyLen = 13

// Bucket accumulates one hour of assistant activity.
type Bucket struct {
	Tokens   int     `json:"tokens"`
	Cost     float64 `json:"cost"`
	Messages int     `json:"messages"`
}

// AgentStats summarizes one agent's logged activity.
type AgentStats struct {
	Agent             string             `json:"agent"`
	TotalMessages     int                `json:"totalMessages"`
	AssistantMessages int                `json:"assistantMessages"`
	TokensInput       int                `json:"tokensInput"`
	TokensOutput      int                `json:"tokensOutput"`
	TokensCacheRead   int                `json:"tokensCacheRead"`
	TokensCacheWrite  int                `json:"tokensCacheWrite"`
	TotalTokens       int                `json:"totalTokens"`
	TotalCost         float64            `json:"totalCost"`
	Models            []string           `json:"models"`
	FirstActive       *string            `json:"firstActive"`
	LastActive        *string            `json:"lastActive"`
	TimeSeries        map[string]*Bucket `json:"timeSeries"`
	ActiveHours       int                `json:"activeHours"`
	HumanEquivHours   float64            `json:"humanEquivHours"`
	ContextUsed       int                `json:"contextUsed"`
	ContextMax        int                `json:"contextMax"`
}

// TeamStats is the rollup across all agents.
type TeamStats struct {
	TotalCost         float64 `json:"totalCost"`
	TotalTokens       int     `json:"totalTokens"`
	TotalMessages     int     `json:"totalMessages"`
	AssistantMessages int     `json:"assistantMessages"`
	ActiveHours       int     `json:"activeHours"`
	HumanEquivHours   float64 `json:"humanEquivHours"`
}

// BuildAgentStats computes the summary for one agent from its normalized
// records. Recomputation over the same records is bit-identical.
func BuildAgentStats(agentID string, msgs []agentlog.Message) AgentStats {
	s := AgentStats{
		Agent:      agentID,
		Models:     []string{},
		TimeSeries: make(map[string]*Bucket),
		ContextMax: DefaultContextMax,
	}

	modelSet := make(map[string]struct{})
	var cost float64

	for i := range msgs {
		m := &msgs[i]
		s.TotalMessages++

		if ts := m.Timestamp; ts != "" {
			if s.FirstActive == nil || ts < *s.FirstActive {
				v := ts
				s.FirstActive = &v
			}
			if s.LastActive == nil || ts > *s.LastActive {
				v := ts
				s.LastActive = &v
			}
		}

		// Usage sums cover exactly the assistant messages that carry a
		// usage attachment; everything else contributes zero.
		if m.Role != "assistant" || m.Usage == nil {
			continue
		}
		s.AssistantMessages++

		u := m.Usage
		s.TokensInput += u.Input
		s.TokensOutput += u.Output
		s.TokensCacheRead += u.CacheRead
		s.TokensCacheWrite += u.CacheWrite
		s.TotalTokens += u.TotalTokens
		cost += u.CostTotal()

		if m.Model != "" {
			modelSet[m.Model] = struct{}{}
		}

		if key := hourKey(m.Timestamp); key != "" {
			b := s.TimeSeries[key]
			if b == nil {
				b = &Bucket{}
				s.TimeSeries[key] = b
			}
			b.Tokens += u.TotalTokens
			b.Cost += u.CostTotal()
			b.Messages++
		}
	}

	for model := range modelSet {
		s.Models = append(s.Models, model)
	}
	sort.Strings(s.Models)

	s.TotalCost = round6(cost)
	s.ActiveHours = len(s.TimeSeries)
	s.HumanEquivHours = round1(float64(s.TokensOutput) / humanTokensPerHour)
	s.ContextUsed = s.TokensInput + s.TokensCacheRead
	return s
}

// hourKey truncates a timestamp to its hour bucket, "2026-02-18T13".
// Timestamps shorter than a full hour prefix still bucket on what they
// have; only an empty timestamp is unbucketed.
func hourKey(ts string) string {
	if len(ts) > hourKeyLen {
		return ts[:hourKeyLen]
	}
	return ts
}

// BuildTeamStats rolls the per-agent summaries into a team total. It is
// an element-wise sum over already-computed stats and never rescans logs.
func BuildTeamStats(agents []AgentStats) TeamStats {
	var t TeamStats
	var cost, hours float64
	for i := range agents {
		a := &agents[i]
		cost += a.TotalCost
		hours += a.HumanEquivHours
		t.TotalTokens += a.TotalTokens
		t.TotalMessages += a.TotalMessages
		t.AssistantMessages += a.AssistantMessages
		t.ActiveHours += a.ActiveHours
	}
	t.TotalCost = round6(cost)
	t.HumanEquivHours = round1(hours)
	return t
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

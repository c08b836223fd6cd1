package stats

import (
	"sort"

	"github.com/piedpiper/teamboard/internal/agentlog"
)

// ActivityEntry is one normalized message tagged with its agent for the
// cross-agent feeds. Agent and AgentID both carry the agent id; the
// persisted dashboards key on "agent" while newer consumers use
// "agent_id". Name is the display name.
type ActivityEntry struct {
	agentlog.Message
	Agent   string `json:"agent"`
	AgentID string `json:"agent_id"`
	Name    string `json:"name"`
}

// FeedFilter narrows a feed to one agent and/or one role. Zero values
// match everything.
type FeedFilter struct {
	AgentID string
	Role    string
}

// Feed merges entries across agents into a recency feed: only records
// with a non-empty content preview and a user or assistant role are
// kept, sorted by timestamp descending (lexicographic, stable ties),
// truncated to limit. The input is not mutated.
func Feed(entries []ActivityEntry, filter FeedFilter, limit int) []ActivityEntry {
	out := make([]ActivityEntry, 0, len(entries))
	for _, e := range entries {
		if e.ContentPreview == "" {
			continue
		}
		if e.Role != "user" && e.Role != "assistant" {
			continue
		}
		if filter.AgentID != "" && e.AgentID != filter.AgentID {
			continue
		}
		if filter.Role != "" && e.Role != filter.Role {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

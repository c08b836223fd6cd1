// Package leaderboard ranks agents by sprint-board output combined with
// their logged usage stats.
package leaderboard

import (
	"sort"

	"github.com/piedpiper/teamboard/internal/board"
	"github.com/piedpiper/teamboard/internal/stats"
)

// Scoring weights.
const (
	doneWeight       = 10
	inProgressWeight = 3
	logEntryWeight   = 2
	commentWeight    = 1
	blockedPenalty   = 5
)

// badges decorate the top three ranks.
var badges = [...]string{"🥇", "🥈", "🥉"}

// Input pairs one agent's board counts with its usage stats.
type Input struct {
	AgentID string
	Agent   string
	Counts  board.Counts
	Stats   stats.AgentStats
}

// Entry is one ranked leaderboard row.
type Entry struct {
	Rank            int     `json:"rank"`
	Badge           string  `json:"badge"`
	AgentID         string  `json:"agent_id"`
	Agent           string  `json:"agent"`
	Score           int     `json:"score"`
	Done            int     `json:"done"`
	InProgress      int     `json:"inProgress"`
	Blocked         int     `json:"blocked"`
	LogEntries      int     `json:"logEntries"`
	Comments        int     `json:"comments"`
	HumanEquivHours float64 `json:"humanEquivHours"`
	ActiveHours     int     `json:"activeHours"`
	TotalCost       float64 `json:"totalCost"`
}

// Score computes the board score for one agent, floored at zero.
func Score(c board.Counts) int {
	score := c.Done*doneWeight +
		c.InProgress*inProgressWeight +
		c.LogEntries*logEntryWeight +
		c.Comments*commentWeight -
		c.Blocked*blockedPenalty
	if score < 0 {
		return 0
	}
	return score
}

// Build scores and ranks the inputs. Ordering is descending by score
// with ties kept in encounter order; the top three ranks get badges.
func Build(inputs []Input) []Entry {
	entries := make([]Entry, 0, len(inputs))
	for _, in := range inputs {
		entries = append(entries, Entry{
			AgentID:         in.AgentID,
			Agent:           in.Agent,
			Score:           Score(in.Counts),
			Done:            in.Counts.Done,
			InProgress:      in.Counts.InProgress,
			Blocked:         in.Counts.Blocked,
			LogEntries:      in.Counts.LogEntries,
			Comments:        in.Counts.Comments,
			HumanEquivHours: in.Stats.HumanEquivHours,
			ActiveHours:     in.Stats.ActiveHours,
			TotalCost:       in.Stats.TotalCost,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	for i := range entries {
		entries[i].Rank = i + 1
		if i < len(badges) {
			entries[i].Badge = badges[i]
		}
	}
	return entries
}

package server

import (
	"time"

	"github.com/piedpiper/teamboard/internal/agentlog"
	"github.com/piedpiper/teamboard/internal/board"
	"github.com/piedpiper/teamboard/internal/config"
	"github.com/piedpiper/teamboard/internal/leaderboard"
	"github.com/piedpiper/teamboard/internal/logger"
	"github.com/piedpiper/teamboard/internal/stats"
)

// Agent presence thresholds, measured from the agent's last activity.
const (
	activeWindow = 5 * time.Minute
	idleWindow   = time.Hour
)

// Service aggregates session logs and sprint data into the payloads the
// API serves. Every call reads from disk so responses always reflect the
// current log state.
type Service struct {
	cfg   *config.Config
	board *board.Store
	now   func() time.Time
}

// NewService wires the aggregation layer to a config and a sprint store.
func NewService(cfg *config.Config, store *board.Store) *Service {
	return &Service{cfg: cfg, board: store, now: time.Now}
}

// AgentPayload is an agent's stats enriched with the fields only the
// server layer knows: display name and presence status.
type AgentPayload struct {
	stats.AgentStats
	Name   string `json:"name"`
	Status string `json:"status"`
}

// StatsPayload is the response body for /api/stats.
type StatsPayload struct {
	Agents []AgentPayload  `json:"agents"`
	Team   stats.TeamStats `json:"team"`
}

// DataPayload is the combined response body for /api/data.
type DataPayload struct {
	Agents      []AgentPayload        `json:"agents"`
	Team        stats.TeamStats       `json:"team"`
	Activity    []stats.ActivityEntry `json:"activity"`
	Leaderboard []leaderboard.Entry   `json:"leaderboard"`
	GeneratedAt string                `json:"generated_at"`
}

func (s *Service) scanAgent(agentID string) []agentlog.Message {
	results := agentlog.ScanAgent(s.cfg.Agents.Dir, agentID)
	var msgs []agentlog.Message
	for _, res := range results {
		if res.Err != nil {
			logger.Warn("session file read failed", "path", res.Path, "error", res.Err)
		}
		msgs = append(msgs, res.Msgs...)
	}
	return msgs
}

// Stats builds per-agent and team statistics for the configured roster.
func (s *Service) Stats() StatsPayload {
	agents := make([]AgentPayload, 0, len(s.cfg.Agents.IDs))
	all := make([]stats.AgentStats, 0, len(s.cfg.Agents.IDs))
	for _, id := range s.cfg.Agents.IDs {
		msgs := s.scanAgent(id)
		st := stats.BuildAgentStats(id, msgs)
		all = append(all, st)
		agents = append(agents, AgentPayload{
			AgentStats: st,
			Name:       s.cfg.AgentName(id),
			Status:     agentStatus(st.LastActive, s.now()),
		})
	}
	return StatsPayload{Agents: agents, Team: stats.BuildTeamStats(all)}
}

// Activity returns the recent-activity feed across all agents.
func (s *Service) Activity(limit int) []stats.ActivityEntry {
	return s.feed(stats.FeedFilter{}, limit)
}

// Messages returns the message feed, optionally filtered by agent or role.
func (s *Service) Messages(filter stats.FeedFilter, limit int) []stats.ActivityEntry {
	return s.feed(filter, limit)
}

func (s *Service) feed(filter stats.FeedFilter, limit int) []stats.ActivityEntry {
	var entries []stats.ActivityEntry
	for _, id := range s.cfg.Agents.IDs {
		for _, msg := range s.scanAgent(id) {
			entries = append(entries, stats.ActivityEntry{
				Message: msg,
				Agent:   id,
				AgentID: id,
				Name:    s.cfg.AgentName(id),
			})
		}
	}
	return stats.Feed(entries, filter, limit)
}

// Leaderboard scores every agent from sprint counts and log stats.
func (s *Service) Leaderboard() ([]leaderboard.Entry, error) {
	tasks, err := s.board.List()
	if err != nil {
		return nil, err
	}
	inputs := make([]leaderboard.Input, 0, len(s.cfg.Agents.IDs))
	for _, id := range s.cfg.Agents.IDs {
		st := stats.BuildAgentStats(id, s.scanAgent(id))
		inputs = append(inputs, leaderboard.Input{
			AgentID: id,
			Agent:   s.cfg.AgentName(id),
			Counts:  board.CountsIn(tasks, id),
			Stats:   st,
		})
	}
	return leaderboard.Build(inputs), nil
}

// Data assembles the combined dashboard payload.
func (s *Service) Data() (DataPayload, error) {
	statsPayload := s.Stats()
	entries, err := s.Leaderboard()
	if err != nil {
		// Sprint data is an enrichment; the dashboard still renders
		// without it.
		logger.Warn("leaderboard unavailable", "error", err)
		entries = []leaderboard.Entry{}
	}
	return DataPayload{
		Agents:      statsPayload.Agents,
		Team:        statsPayload.Team,
		Activity:    s.Activity(s.cfg.Feeds.ActivityLimit),
		Leaderboard: entries,
		GeneratedAt: s.now().UTC().Format(time.RFC3339),
	}, nil
}

// agentStatus classifies presence from the last activity timestamp:
// active under five minutes, idle under an hour, inactive otherwise.
func agentStatus(lastActive *string, now time.Time) string {
	if lastActive == nil {
		return "inactive"
	}
	ts, err := time.Parse(time.RFC3339, *lastActive)
	if err != nil {
		return "inactive"
	}
	age := now.Sub(ts)
	switch {
	case age < activeWindow:
		return "active"
	case age < idleWindow:
		return "idle"
	default:
		return "inactive"
	}
}

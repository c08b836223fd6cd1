package stats

import (
	"reflect"
	"testing"

	"github.com/piedpiper/teamboard/internal/agentlog"
)

func assistantMsg(ts, model string, usage *agentlog.Usage) agentlog.Message {
	return agentlog.Message{
		ID:             "a-" + ts,
		Timestamp:      ts,
		Role:           "assistant",
		Model:          model,
		Usage:          usage,
		ContentPreview: "ok",
	}
}

func userMsg(ts string) agentlog.Message {
	return agentlog.Message{
		ID:             "u-" + ts,
		Timestamp:      ts,
		Role:           "user",
		ContentPreview: "hi",
	}
}

func TestBuildAgentStats_EndToEnd(t *testing.T) {
	msgs := []agentlog.Message{
		userMsg("2026-02-18T13:02:11Z"),
		assistantMsg("2026-02-18T13:05:40Z", "m1", &agentlog.Usage{
			TotalTokens: 500,
			Cost:        &agentlog.Cost{Total: 0.02},
		}),
	}

	s := BuildAgentStats("richard", msgs)

	if s.TotalMessages != 2 {
		t.Errorf("TotalMessages = %d, want 2", s.TotalMessages)
	}
	if s.AssistantMessages != 1 {
		t.Errorf("AssistantMessages = %d, want 1", s.AssistantMessages)
	}
	if s.TotalTokens != 500 {
		t.Errorf("TotalTokens = %d, want 500", s.TotalTokens)
	}
	if s.TotalCost != 0.02 {
		t.Errorf("TotalCost = %v, want 0.02", s.TotalCost)
	}
	if !reflect.DeepEqual(s.Models, []string{"m1"}) {
		t.Errorf("Models = %v, want [m1]", s.Models)
	}
	if s.LastActive == nil || *s.LastActive != "2026-02-18T13:05:40Z" {
		t.Errorf("LastActive = %v", s.LastActive)
	}
	if s.FirstActive == nil || *s.FirstActive != "2026-02-18T13:02:11Z" {
		t.Errorf("FirstActive = %v", s.FirstActive)
	}
}

func TestBuildAgentStats_Idempotent(t *testing.T) {
	msgs := []agentlog.Message{
		userMsg("2026-02-18T13:02:11Z"),
		assistantMsg("2026-02-18T13:05:40Z", "m1", &agentlog.Usage{
			Input: 10, Output: 6400, TotalTokens: 6410,
			Cost: &agentlog.Cost{Total: 0.5},
		}),
		assistantMsg("2026-02-18T14:00:01Z", "m2", &agentlog.Usage{
			Input: 3, Output: 4, TotalTokens: 7,
			Cost: &agentlog.Cost{Total: 0.001},
		}),
	}

	first := BuildAgentStats("richard", msgs)
	second := BuildAgentStats("richard", msgs)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("recomputation diverged:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestBuildAgentStats_ZeroUsageSafety(t *testing.T) {
	msgs := []agentlog.Message{
		assistantMsg("2026-02-18T13:00:00Z", "m1", nil),
		assistantMsg("2026-02-18T13:01:00Z", "m1", &agentlog.Usage{
			TotalTokens: 100, Cost: &agentlog.Cost{Total: 0.01},
		}),
	}

	s := BuildAgentStats("richard", msgs)

	if s.TotalMessages != 2 {
		t.Errorf("TotalMessages = %d, want 2 (usage-less message still counts)", s.TotalMessages)
	}
	if s.AssistantMessages != 1 {
		t.Errorf("AssistantMessages = %d, want 1 (only usage-carrying)", s.AssistantMessages)
	}
	if s.TotalTokens != 100 {
		t.Errorf("TotalTokens = %d, want 100", s.TotalTokens)
	}
}

func TestBuildAgentStats_CostClamping(t *testing.T) {
	msgs := []agentlog.Message{
		assistantMsg("2026-02-18T13:00:00Z", "m1", &agentlog.Usage{
			TotalTokens: 10, Cost: &agentlog.Cost{Total: -5.0},
		}),
		assistantMsg("2026-02-18T13:01:00Z", "m1", &agentlog.Usage{
			TotalTokens: 10, Cost: &agentlog.Cost{Total: 0.25},
		}),
	}

	s := BuildAgentStats("richard", msgs)
	if s.TotalCost != 0.25 {
		t.Errorf("TotalCost = %v, want 0.25 (negative contributes zero)", s.TotalCost)
	}
}

func TestBuildAgentStats_HourBucketing(t *testing.T) {
	msgs := []agentlog.Message{
		assistantMsg("2026-02-18T13:02:11Z", "m1", &agentlog.Usage{TotalTokens: 5}),
		assistantMsg("2026-02-18T13:58:00Z", "m1", &agentlog.Usage{TotalTokens: 7}),
		assistantMsg("2026-02-18T14:00:01Z", "m1", &agentlog.Usage{TotalTokens: 3}),
	}

	s := BuildAgentStats("richard", msgs)

	if len(s.TimeSeries) != 2 {
		t.Fatalf("got %d buckets, want 2", len(s.TimeSeries))
	}
	b13 := s.TimeSeries["2026-02-18T13"]
	if b13 == nil || b13.Messages != 2 || b13.Tokens != 12 {
		t.Errorf("13h bucket = %+v, want 2 messages / 12 tokens", b13)
	}
	b14 := s.TimeSeries["2026-02-18T14"]
	if b14 == nil || b14.Messages != 1 || b14.Tokens != 3 {
		t.Errorf("14h bucket = %+v, want 1 message / 3 tokens", b14)
	}
	if s.ActiveHours != 2 {
		t.Errorf("ActiveHours = %d, want 2", s.ActiveHours)
	}
}

func TestBuildAgentStats_ShortTimestampStillBuckets(t *testing.T) {
	msgs := []agentlog.Message{
		assistantMsg("2026", "m1", &agentlog.Usage{TotalTokens: 5}),
		assistantMsg("", "m1", &agentlog.Usage{TotalTokens: 7}),
	}

	s := BuildAgentStats("richard", msgs)

	// A degenerate short timestamp buckets on whatever prefix it has;
	// only the empty timestamp stays out of the series.
	if len(s.TimeSeries) != 1 {
		t.Fatalf("got %d buckets, want 1", len(s.TimeSeries))
	}
	b := s.TimeSeries["2026"]
	if b == nil || b.Messages != 1 || b.Tokens != 5 {
		t.Errorf("short-timestamp bucket = %+v, want 1 message / 5 tokens", b)
	}
	// Totals still count both messages.
	if s.TotalTokens != 12 {
		t.Errorf("TotalTokens = %d, want 12", s.TotalTokens)
	}
}

func TestBuildAgentStats_HumanEquivHours(t *testing.T) {
	msgs := []agentlog.Message{
		assistantMsg("2026-02-18T13:00:00Z", "m1", &agentlog.Usage{Output: 4800}),
	}
	s := BuildAgentStats("richard", msgs)
	if s.HumanEquivHours != 1.5 {
		t.Errorf("HumanEquivHours = %v, want 1.5 (4800/3200)", s.HumanEquivHours)
	}

	if s := BuildAgentStats("richard", nil); s.HumanEquivHours != 0 {
		t.Errorf("HumanEquivHours = %v, want 0 for no output", s.HumanEquivHours)
	}
}

func TestBuildAgentStats_ModelsSortedDistinct(t *testing.T) {
	msgs := []agentlog.Message{
		assistantMsg("2026-02-18T13:00:00Z", "zeta", &agentlog.Usage{}),
		assistantMsg("2026-02-18T13:01:00Z", "alpha", &agentlog.Usage{}),
		assistantMsg("2026-02-18T13:02:00Z", "zeta", &agentlog.Usage{}),
		assistantMsg("2026-02-18T13:03:00Z", "", &agentlog.Usage{}),
	}

	s := BuildAgentStats("richard", msgs)
	if !reflect.DeepEqual(s.Models, []string{"alpha", "zeta"}) {
		t.Errorf("Models = %v, want [alpha zeta]", s.Models)
	}
}

func TestBuildAgentStats_Empty(t *testing.T) {
	s := BuildAgentStats("richard", nil)

	if s.TotalMessages != 0 || s.TotalCost != 0 {
		t.Errorf("empty stats = %+v, want zeroes", s)
	}
	if s.LastActive != nil {
		t.Errorf("LastActive = %v, want nil", *s.LastActive)
	}
	if s.Models == nil || len(s.Models) != 0 {
		t.Errorf("Models = %v, want empty non-nil slice", s.Models)
	}
	if s.ContextMax != DefaultContextMax {
		t.Errorf("ContextMax = %d, want %d", s.ContextMax, DefaultContextMax)
	}
}

func TestBuildTeamStats(t *testing.T) {
	agents := []AgentStats{
		{TotalCost: 0.02, TotalTokens: 500, TotalMessages: 2, AssistantMessages: 1, ActiveHours: 1, HumanEquivHours: 0.5},
		{TotalCost: 0.01, TotalTokens: 100, TotalMessages: 3, AssistantMessages: 2, ActiveHours: 2, HumanEquivHours: 1.1},
		{}, // empty agent contributes zero everywhere
	}

	team := BuildTeamStats(agents)

	if team.TotalCost != 0.03 {
		t.Errorf("TotalCost = %v, want 0.03", team.TotalCost)
	}
	if team.TotalTokens != 600 {
		t.Errorf("TotalTokens = %d, want 600", team.TotalTokens)
	}
	if team.TotalMessages != 5 {
		t.Errorf("TotalMessages = %d, want 5", team.TotalMessages)
	}
	if team.AssistantMessages != 3 {
		t.Errorf("AssistantMessages = %d, want 3", team.AssistantMessages)
	}
	if team.ActiveHours != 3 {
		t.Errorf("ActiveHours = %d, want 3", team.ActiveHours)
	}
	if team.HumanEquivHours != 1.6 {
		t.Errorf("HumanEquivHours = %v, want 1.6", team.HumanEquivHours)
	}
}

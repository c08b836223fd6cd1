package stats

import (
	"testing"

	"github.com/piedpiper/teamboard/internal/agentlog"
)

func entry(agentID, role, ts, preview string) ActivityEntry {
	return ActivityEntry{
		Message: agentlog.Message{
			Timestamp:      ts,
			Role:           role,
			ContentPreview: preview,
		},
		Agent:   agentID,
		AgentID: agentID,
	}
}

func TestFeed_SortAndTruncate(t *testing.T) {
	entries := []ActivityEntry{
		entry("richard", "user", "2026-02-18T10:00:00Z", "oldest"),
		entry("dinesh", "assistant", "2026-02-18T12:00:00Z", "newest"),
		entry("gilfoyle", "user", "2026-02-18T11:00:00Z", "middle"),
	}

	got := Feed(entries, FeedFilter{}, 2)
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].ContentPreview != "newest" || got[1].ContentPreview != "middle" {
		t.Errorf("order = [%s %s], want [newest middle]", got[0].ContentPreview, got[1].ContentPreview)
	}
}

func TestFeed_ExcludesEmptyPreviewAndOtherRoles(t *testing.T) {
	entries := []ActivityEntry{
		entry("richard", "assistant", "2026-02-18T10:00:00Z", ""),
		entry("richard", "system", "2026-02-18T11:00:00Z", "system note"),
		entry("richard", "user", "2026-02-18T12:00:00Z", "kept"),
	}

	got := Feed(entries, FeedFilter{}, 0)
	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1", len(got))
	}
	if got[0].ContentPreview != "kept" {
		t.Errorf("got %q, want kept", got[0].ContentPreview)
	}
}

func TestFeed_Filters(t *testing.T) {
	entries := []ActivityEntry{
		entry("richard", "user", "2026-02-18T10:00:00Z", "r-user"),
		entry("richard", "assistant", "2026-02-18T11:00:00Z", "r-assist"),
		entry("dinesh", "assistant", "2026-02-18T12:00:00Z", "d-assist"),
	}

	got := Feed(entries, FeedFilter{AgentID: "richard"}, 0)
	if len(got) != 2 {
		t.Errorf("agent filter: got %d, want 2", len(got))
	}

	got = Feed(entries, FeedFilter{Role: "assistant"}, 0)
	if len(got) != 2 {
		t.Errorf("role filter: got %d, want 2", len(got))
	}

	got = Feed(entries, FeedFilter{AgentID: "dinesh", Role: "user"}, 0)
	if len(got) != 0 {
		t.Errorf("combined filter: got %d, want 0", len(got))
	}
}

func TestFeed_StableTies(t *testing.T) {
	ts := "2026-02-18T10:00:00Z"
	entries := []ActivityEntry{
		entry("a", "user", ts, "first"),
		entry("b", "user", ts, "second"),
		entry("c", "user", ts, "third"),
	}

	got := Feed(entries, FeedFilter{}, 0)
	if got[0].ContentPreview != "first" || got[1].ContentPreview != "second" || got[2].ContentPreview != "third" {
		t.Errorf("tie order not stable: %v %v %v",
			got[0].ContentPreview, got[1].ContentPreview, got[2].ContentPreview)
	}
}

func TestFeed_DoesNotMutateInput(t *testing.T) {
	entries := []ActivityEntry{
		entry("a", "user", "2026-02-18T10:00:00Z", "one"),
		entry("b", "user", "2026-02-18T11:00:00Z", "two"),
	}

	Feed(entries, FeedFilter{}, 1)
	if entries[0].ContentPreview != "one" || entries[1].ContentPreview != "two" {
		t.Error("input slice was reordered")
	}
}

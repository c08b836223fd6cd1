package agentlog

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherEmitsDebouncedEvent(t *testing.T) {
	root := t.TempDir()
	dir := SessionsDir(root, "richard")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	events, closeWatch, err := NewWatcher(root, []string{"richard"})
	if err != nil {
		t.Fatal(err)
	}
	defer closeWatch()

	// A burst of writes near the debounce boundary must coalesce into
	// clean events, never a torn one.
	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, fmt.Sprintf("s%d.jsonl", i))
		if err := os.WriteFile(name, []byte("{}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case ev := <-events:
		if ev.AgentID != "richard" {
			t.Errorf("AgentID = %q, want richard", ev.AgentID)
		}
		if filepath.Dir(ev.Path) != dir {
			t.Errorf("Path = %q, want a file under %s", ev.Path, dir)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event within 2s of writes")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	root := t.TempDir()
	dir := SessionsDir(root, "richard")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	events, closeWatch, err := NewWatcher(root, []string{"richard"})
	if err != nil {
		t.Fatal(err)
	}
	defer closeWatch()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		t.Errorf("unexpected event for non-jsonl file: %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

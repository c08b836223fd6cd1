package agentlog

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event signals that an agent's session logs changed.
type Event struct {
	AgentID string
	Path    string
}

// NewWatcher watches the session directories of the given agents and
// emits debounced change events. Agents without a sessions directory are
// skipped; the watcher is not part of the aggregation path and exists
// only to trigger client refreshes.
func NewWatcher(root string, agentIDs []string) (<-chan Event, func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}

	dirAgent := make(map[string]string)
	for _, id := range agentIDs {
		dir := SessionsDir(root, id)
		if err := watcher.Add(dir); err != nil {
			continue
		}
		dirAgent[dir] = id
	}

	events := make(chan Event, 32)

	go func() {
		defer close(events)

		var debounceTimer *time.Timer
		debounceDelay := 100 * time.Millisecond

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !strings.HasSuffix(event.Name, ".jsonl") {
					continue
				}

				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				// Capture by value; the timer callback runs on its own
				// goroutine after this loop has moved on.
				path := event.Name
				debounceTimer = time.AfterFunc(debounceDelay, func() {
					agentID := dirAgent[filepath.Dir(path)]
					select {
					case events <- Event{AgentID: agentID, Path: path}:
					default:
						// Channel full, drop event.
					}
				})

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Keep watching after transient errors.
			}
		}
	}()

	return events, watcher.Close, nil
}

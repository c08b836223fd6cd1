package agentlog

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/piedpiper/teamboard/internal/logger"
)

// SessionsDir returns the session log directory for an agent.
func SessionsDir(root, agentID string) string {
	return filepath.Join(root, agentID, "sessions")
}

// ScanAgent parses every *.jsonl file under the agent's sessions
// directory and reports a per-file outcome. A missing directory yields
// no results; a file that fails mid-scan yields a FileResult carrying
// both the messages parsed before the failure and the error. Order
// within a file is file order.
func ScanAgent(root, agentID string) []FileResult {
	pattern := filepath.Join(SessionsDir(root, agentID), "*.jsonl")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil
	}

	var results []FileResult
	for _, path := range paths {
		msgs, err := parseFile(path)
		if err != nil {
			logger.Debug("session file read failed", "path", path, "err", err)
		}
		results = append(results, FileResult{Path: path, Msgs: msgs, Err: err})
	}
	return results
}

// ParseSessions returns all normalized messages for an agent, best
// effort: unreadable files and malformed lines are dropped silently.
func ParseSessions(root, agentID string) []Message {
	var msgs []Message
	for _, fr := range ScanAgent(root, agentID) {
		msgs = append(msgs, fr.Msgs...)
	}
	return msgs
}

// parseFile scans one JSONL file line by line. Malformed lines are
// skipped; classifier state (current model) is scoped to this file.
func parseFile(path string) ([]Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var msgs []Message
	var st fileState

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 10*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if msg := classifyLine(line, &st); msg != nil {
			msgs = append(msgs, *msg)
		}
	}
	// Keep what parsed before any failure; the caller records the error
	// alongside the partial result.
	return msgs, scanner.Err()
}

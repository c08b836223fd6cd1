// Package agentlog reads and classifies the append-only JSONL session
// logs written by the agent processes.
package agentlog

import "encoding/json"

// RawLine is one decoded line of a session log. The Type field selects
// the shape; unrecognized types are ignored by callers.
type RawLine struct {
	Type       string          `json:"type"`
	CustomType string          `json:"customType,omitempty"`
	ID         string          `json:"id,omitempty"`
	Timestamp  string          `json:"timestamp,omitempty"`
	Message    *RawMessage     `json:"message,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// RawMessage is the nested message object on a "message"-typed line.
type RawMessage struct {
	Role       string          `json:"role"`
	Model      string          `json:"model,omitempty"`
	Provider   string          `json:"provider,omitempty"`
	StopReason string          `json:"stopReason,omitempty"`
	Content    json.RawMessage `json:"content,omitempty"`
	Usage      *Usage          `json:"usage,omitempty"`
}

// Usage holds token counts and pre-calculated cost for one assistant
// message. Absent fields decode to zero.
type Usage struct {
	Input       int   `json:"input"`
	Output      int   `json:"output"`
	CacheRead   int   `json:"cacheRead"`
	CacheWrite  int   `json:"cacheWrite"`
	TotalTokens int   `json:"totalTokens"`
	Cost        *Cost `json:"cost,omitempty"`
}

// Cost is the cost attachment on a usage record.
type Cost struct {
	Total float64 `json:"total"`
}

// CostTotal returns the cost total clamped to zero. Upstream writers
// occasionally emit negative totals; those must not reduce sums.
func (u *Usage) CostTotal() float64 {
	if u == nil || u.Cost == nil || u.Cost.Total < 0 {
		return 0
	}
	return u.Cost.Total
}

// Message is the normalized view of one message record.
type Message struct {
	ID             string `json:"id"`
	Timestamp      string `json:"timestamp"`
	Role           string `json:"role"`
	Model          string `json:"model,omitempty"`
	Provider       string `json:"provider,omitempty"`
	Usage          *Usage `json:"usage,omitempty"`
	StopReason     string `json:"stopReason,omitempty"`
	ContentPreview string `json:"content_preview"`
}

// FileResult is the per-file outcome of a session scan. Err is set when
// the file could not be read at all; callers that only want best-effort
// data ignore it.
type FileResult struct {
	Path string
	Msgs []Message
	Err  error
}

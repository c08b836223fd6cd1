package agentlog

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// previewLimit caps content previews at a display-friendly length.
const previewLimit = 120

// toolMarker prefixes the placeholder preview for tool-call messages.
const toolMarker = "🔧"

// fileState carries classifier state scoped to a single log file.
// Model-tracking records set the current model for subsequent messages
// in the same file; the state is never carried across files.
type fileState struct {
	model string
}

// classifyLine decodes one raw log line. It returns the normalized
// message, or nil for model-tracking records, unrecognized types and
// malformed lines.
func classifyLine(line []byte, st *fileState) *Message {
	if !gjson.ValidBytes(line) {
		return nil
	}

	switch gjson.GetBytes(line, "type").String() {
	case "model_change":
		// The model id appears at the top level or under data.
		if id := firstString(line, "modelId", "data.modelId"); id != "" {
			st.model = id
		}
		return nil

	case "custom":
		if gjson.GetBytes(line, "customType").String() == "model-snapshot" {
			if id := gjson.GetBytes(line, "data.modelId").String(); id != "" {
				st.model = id
			}
		}
		return nil

	case "message":
		var raw RawLine
		if err := json.Unmarshal(line, &raw); err != nil || raw.Message == nil {
			return nil
		}
		msg := &Message{
			ID:             raw.ID,
			Timestamp:      raw.Timestamp,
			Role:           raw.Message.Role,
			Model:          raw.Message.Model,
			Provider:       raw.Message.Provider,
			Usage:          raw.Message.Usage,
			StopReason:     raw.Message.StopReason,
			ContentPreview: contentPreview(raw.Message.Content),
		}
		if msg.Model == "" {
			msg.Model = st.model
		}
		return msg

	default:
		return nil
	}
}

// firstString returns the first non-empty string among the given gjson
// paths.
func firstString(line []byte, paths ...string) string {
	for _, p := range paths {
		if v := gjson.GetBytes(line, p).String(); v != "" {
			return v
		}
	}
	return ""
}

// contentBlock is one element of a block-structured content array.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	Name string `json:"name,omitempty"`
}

// contentPreview derives the short display excerpt for a message:
// plain-string content is truncated to 120 characters; block content
// yields the first block that is either non-empty text (truncated) or a
// tool call (a fixed marker naming the tool). Anything else is empty.
func contentPreview(content json.RawMessage) string {
	if len(content) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(content, &s); err == nil {
		return truncate(s, previewLimit)
	}

	var blocks []contentBlock
	if err := json.Unmarshal(content, &blocks); err != nil {
		return ""
	}
	for _, b := range blocks {
		switch b.Type {
		case "text":
			if text := strings.TrimSpace(b.Text); text != "" {
				return truncate(text, previewLimit)
			}
		case "toolCall":
			name := b.Name
			if name == "" {
				name = "tool"
			}
			return toolMarker + " " + name + "(…)"
		}
	}
	return ""
}

// truncate returns the first n characters of s.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

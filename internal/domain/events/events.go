// Package events ingests the key-event lists produced by the upstream
// analysis collaborators. Two payload shapes exist in the wild: the LLM
// contract (numeric seconds, summary/reason fields) and the caption contract
// (mm:ss.ff strings, description/caption fields). Both decode to the same
// ordered []types.KeyEvent; the given order is kept as-is.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/keyclip/keyclip/internal/types"
)

type rawEvent struct {
	StartTime   json.RawMessage `json:"start_time"`
	Start       json.RawMessage `json:"start"`
	EndTime     json.RawMessage `json:"end_time"`
	End         json.RawMessage `json:"end"`
	Label       string          `json:"label"`
	Summary     string          `json:"summary"`
	Description string          `json:"description"`
	Caption     string          `json:"caption"`
	Reason      string          `json:"reason"`
}

// Parse decodes an upstream events payload. It accepts a top-level array or
// an object wrapping the list under "events", "key_events", or "key_points",
// and tolerates the markdown code fences hosted models wrap around JSON.
func Parse(data []byte) ([]types.KeyEvent, error) {
	text := stripCodeFences(string(data))
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("empty events payload")
	}

	raw, err := decodeEnvelope([]byte(text))
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("events payload contains no events")
	}

	out := make([]types.KeyEvent, 0, len(raw))
	for i, r := range raw {
		ev, err := r.toKeyEvent()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		out = append(out, ev)
	}
	return out, nil
}

func decodeEnvelope(data []byte) ([]rawEvent, error) {
	var list []rawEvent
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var wrapper struct {
		Events    []rawEvent `json:"events"`
		KeyEvents []rawEvent `json:"key_events"`
		KeyPoints []rawEvent `json:"key_points"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("decode events payload: %w", err)
	}
	switch {
	case wrapper.Events != nil:
		return wrapper.Events, nil
	case wrapper.KeyEvents != nil:
		return wrapper.KeyEvents, nil
	case wrapper.KeyPoints != nil:
		return wrapper.KeyPoints, nil
	}
	return nil, errors.New("events payload has no events, key_events, or key_points list")
}

func (r rawEvent) toKeyEvent() (types.KeyEvent, error) {
	start, err := parseTime(r.StartTime, r.Start)
	if err != nil {
		return types.KeyEvent{}, fmt.Errorf("start: %w", err)
	}
	end, err := parseTime(r.EndTime, r.End)
	if err != nil {
		return types.KeyEvent{}, fmt.Errorf("end: %w", err)
	}
	return types.KeyEvent{
		StartSec: start,
		EndSec:   end,
		Label:    firstNonEmpty(r.Label, r.Summary, r.Description, r.Caption),
		Reason:   r.Reason,
	}, nil
}

// parseTime accepts either a JSON number (seconds) or a "mm:ss.ff" string.
func parseTime(primary, fallback json.RawMessage) (float64, error) {
	raw := primary
	if len(raw) == 0 {
		raw = fallback
	}
	if len(raw) == 0 {
		return 0, errors.New("missing time field")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		return ParseTimestamp(s)
	}
	var sec float64
	if err := json.Unmarshal(raw, &sec); err != nil {
		return 0, fmt.Errorf("numeric time: %w", err)
	}
	return sec, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func stripCodeFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	if i := strings.Index(t, "\n"); i >= 0 {
		t = t[i+1:]
	}
	if j := strings.LastIndex(t, "```"); j >= 0 {
		t = t[:j]
	}
	return strings.TrimSpace(t)
}

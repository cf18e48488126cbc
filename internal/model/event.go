package model

import "encoding/json"

// StageInfo identifies a stage for progress display.
type StageInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}

// EventType names a progress notification.
type EventType string

const (
	EventStageStart    EventType = "stage_start"
	EventStageThought  EventType = "stage_thought"
	EventStageComplete EventType = "stage_complete"
	EventComplete      EventType = "complete"
	EventError         EventType = "error"
)

// Terminal reports whether t ends a run's event sequence.
func (t EventType) Terminal() bool {
	return t == EventComplete || t == EventError
}

// Event is one progress notification. Fields not relevant to Type are empty.
type Event struct {
	Type       EventType      `json:"type"`
	StageID    string         `json:"stageId,omitempty"`
	Name       string         `json:"name,omitempty"`
	Emoji      string         `json:"emoji,omitempty"`
	Role       string         `json:"role,omitempty"`
	Step       int            `json:"step,omitempty"`
	Total      int            `json:"total,omitempty"`
	Text       string         `json:"text,omitempty"`
	DurationMs int64          `json:"durationMs,omitempty"`
	Report     *AnalyzeReport `json:"report,omitempty"`
	Message    string         `json:"message,omitempty"`
}

// MarshalJSON always writes durationMs on stage_complete, even for a stage
// that finished in under a millisecond.
func (e Event) MarshalJSON() ([]byte, error) {
	type plain Event
	if e.Type != EventStageComplete {
		return json.Marshal(plain(e))
	}
	return json.Marshal(struct {
		plain
		DurationMs int64 `json:"durationMs"`
	}{plain(e), e.DurationMs})
}

package output

import "time"

type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

type EventName string

const (
	EventRunStarted    EventName = "run_started"
	EventItemStarted   EventName = "item_started"
	EventItemOrganized EventName = "item_organized"
	EventItemUpgraded  EventName = "item_upgraded"
	EventItemSkipped   EventName = "item_skipped"
	EventItemFailed    EventName = "item_failed"
	EventRunFinished   EventName = "run_finished"
)

type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     Level          `json:"level"`
	Event     EventName      `json:"event"`
	Item      string         `json:"item,omitempty"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}

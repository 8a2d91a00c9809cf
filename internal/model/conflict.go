package model

type ConflictType string

const (
	ConflictOverlap   ConflictType = "overlap"
	ConflictProximity ConflictType = "proximity"
	ConflictLocation  ConflictType = "location"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SchedulingConflict reports a problematic interaction between two same-day
// tasks. Conflicts are produced fresh on every check and never persisted.
type SchedulingConflict struct {
	TaskID            string
	ConflictingTaskID string
	Type              ConflictType
	Severity          Severity
	Suggestion        string
}

// Slot is a free interval on a given day, long enough to hold a task.
type Slot struct {
	Date string // YYYY-MM-DD
	Time string // HH:MM start of the free gap
}

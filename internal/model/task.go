// Package model defines the data structures for the assistant's commands,
// tasks, scheduling conflicts and configuration.
package model

import "fmt"

type TaskType string

const (
	TaskTypeTask  TaskType = "task"
	TaskTypeEvent TaskType = "event"
	TaskTypeHabit TaskType = "habit"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var validPriorities = map[Priority]bool{
	PriorityHigh:   true,
	PriorityMedium: true,
	PriorityLow:    true,
}

func ValidatePriority(p Priority) error {
	if !validPriorities[p] {
		return fmt.Errorf("invalid priority: %s", p)
	}
	return nil
}

// DefaultDurationMin seeds Config.Schedule.DefaultDurationMin when the
// config leaves it unset. Interval math reads the configured value, never
// this constant directly, and a missing duration never mutates the stored
// task.
const DefaultDurationMin = 60

// Task is the stored schedulable unit. The interpreter core treats tasks as
// read-only: it receives a snapshot and returns decisions; only the store
// writes them.
type Task struct {
	ID            string   `yaml:"id"`
	Title         string   `yaml:"title"`
	Type          TaskType `yaml:"type"`
	ScheduledDate string   `yaml:"scheduled_date"`       // YYYY-MM-DD
	StartTime     string   `yaml:"start_time,omitempty"` // HH:MM, 24h
	DurationMin   int      `yaml:"duration_min,omitempty"`
	Location      string   `yaml:"location,omitempty"`
	Priority      Priority `yaml:"priority,omitempty"`
	Completed     bool     `yaml:"completed"`
	CreatedAt     string   `yaml:"created_at"`
	UpdatedAt     string   `yaml:"updated_at"`
}

// HasStart reports whether the task participates in interval math. Tasks
// without a start time only take part in same-day grouping.
func (t Task) HasStart() bool {
	return t.StartTime != ""
}

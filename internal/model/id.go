package model

import (
	"time"

	"github.com/google/uuid"
)

// NewTaskID mints the identifier for a newly persisted task.
func NewTaskID() string {
	return uuid.NewString()
}

// ValidateTaskID reports whether id is a well-formed task identifier.
func ValidateTaskID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Timestamp returns the string form used for created_at/updated_at fields.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

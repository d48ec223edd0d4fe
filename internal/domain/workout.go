// internal/domain/workout.go
package domain

import (
	"errors"
	"time"
)

// DateKeyLayout is the canonical day-key format (YYYY-MM-DD).
const DateKeyLayout = "2006-01-02"

var ErrInvalidDateKey = errors.New("invalid date key, expected YYYY-MM-DD")

// FormatDateKey returns the day-key for the calendar day of t.
func FormatDateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey validates a day-key and returns the day it names (UTC midnight).
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.Parse(DateKeyLayout, key)
	if err != nil {
		return time.Time{}, ErrInvalidDateKey
	}
	// time.Parse accepts some non-canonical forms, reject anything that
	// does not round-trip so keys stay unique per day.
	if FormatDateKey(t) != key {
		return time.Time{}, ErrInvalidDateKey
	}
	return t, nil
}

// SetEntry is one logged set of an exercise.
type SetEntry struct {
	Weight      float64 `json:"weight"`
	Reps        int     `json:"reps"`
	RestTime    int     `json:"restTime"` // Rest after the set, in seconds
	IsCompleted bool    `json:"isCompleted"`
}

// ExerciseInstance is one occurrence of an exercise added to a specific day.
// Definition fields are copied in, so later catalog changes don't affect logged days.
type ExerciseInstance struct {
	InstanceID string     `json:"instanceId"` // Unique across the whole store
	ID         string     `json:"id"`         // Catalog definition ID
	Name       string     `json:"name"`
	BodyPart   BodyPart   `json:"bodyPart"`
	IsCustom   bool       `json:"isCustom,omitempty"`
	Sets       []SetEntry `json:"sets"`
}

// Clone returns a deep copy of the instance.
func (e ExerciseInstance) Clone() ExerciseInstance {
	c := e
	c.Sets = make([]SetEntry, len(e.Sets))
	copy(c.Sets, e.Sets)
	return c
}

// TotalSets returns the number of sets across all instances.
func TotalSets(exercises []ExerciseInstance) int {
	total := 0
	for _, ex := range exercises {
		total += len(ex.Sets)
	}
	return total
}

// TransferMode selects whether a transfer keeps or clears the source day.
type TransferMode string

const (
	TransferCopy TransferMode = "copy"
	TransferMove TransferMode = "move"
)

// IsValid reports whether m is a known transfer mode.
func (m TransferMode) IsValid() bool {
	return m == TransferCopy || m == TransferMove
}

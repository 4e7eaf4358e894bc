package history

import "time"

// RunStatus describes where a sort run ended up.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	// RunAborted marks runs interrupted by cancellation or a fatal error.
	RunAborted RunStatus = "aborted"
)

// Outcome is the per-file result recorded in the journal.
type Outcome string

const (
	OutcomeMoved    Outcome = "moved"
	OutcomeFailed   Outcome = "failed"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeConflict Outcome = "conflict"
)

// Run is a single applied sort.
type Run struct {
	ID          string
	InputDir    string
	OutputDir   string
	Status      RunStatus
	StartedAt   time.Time
	FinishedAt  *time.Time
	MovedCount  int
	FailedCount int
}

// Move is one journal entry. Destination and Category are empty when the
// file failed before a destination could be computed.
type Move struct {
	ID          int64
	RunID       string
	Source      string
	Destination string
	Category    string
	Outcome     Outcome
	Error       string
	RecordedAt  time.Time
}

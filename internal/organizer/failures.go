package organizer

import (
	"errors"

	"audiosort/internal/classify"
	"audiosort/internal/history"
	"audiosort/internal/services"
	"audiosort/internal/tags"
	"audiosort/internal/textutil"
)

// Mapping is a planned move.
type Mapping struct {
	Source      string
	Destination string
	Category    classify.Category
}

// Failure is a file that could not be planned or moved.
type Failure struct {
	Source string
	// Destination is set when the failure happened after classification.
	Destination string
	Err         error
}

// Outcome maps the failure to its journal outcome.
func (f Failure) Outcome() history.Outcome {
	return failureOutcome(f.Err)
}

// failureOutcome treats unusable metadata as skipped; everything else uses
// the services marker classification.
func failureOutcome(err error) history.Outcome {
	switch {
	case errors.Is(err, tags.ErrUnreadableTag),
		errors.Is(err, classify.ErrMissingField),
		errors.Is(err, classify.ErrUnknownAudioType),
		errors.Is(err, textutil.ErrEmptyResult):
		return history.OutcomeSkipped
	}
	switch services.FailureOutcome(err) {
	case services.OutcomeConflict:
		return history.OutcomeConflict
	case services.OutcomeSkipped:
		return history.OutcomeSkipped
	default:
		return history.OutcomeFailed
	}
}

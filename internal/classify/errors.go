package classify

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField marks a required tag field that is absent.
	ErrMissingField = errors.New("missing field")
	// ErrUnknownAudioType marks metadata that is neither music nor audiobook.
	ErrUnknownAudioType = errors.New("unknown audio type")
)

// Field names reported by MissingFieldError.
const (
	FieldArtist      = "artist"
	FieldAlbumArtist = "albumartist"
	FieldAlbum       = "album"
	FieldYear        = "year"
	FieldTitle       = "title"
	FieldTrack       = "track"
)

// MissingFieldError names the first required field the selected hierarchy
// could not find.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s lacks", e.Field)
}

// Is matches ErrMissingField.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

func missing(field string) error {
	return &MissingFieldError{Field: field}
}

// MissingField returns the field name carried by err, if any.
func MissingField(err error) (string, bool) {
	var mf *MissingFieldError
	if errors.As(err, &mf) {
		return mf.Field, true
	}
	return "", false
}

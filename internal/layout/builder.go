package layout

import (
	"errors"
	"fmt"
	"path/filepath"

	"audiosort/internal/classify"
	"audiosort/internal/textutil"
)

// Builder joins sanitized labels into paths.
type Builder struct {
	sanitizer textutil.Sanitizer
}

// NewBuilder returns a builder using sanitizer for every segment.
func NewBuilder(sanitizer textutil.Sanitizer) Builder {
	return Builder{sanitizer: sanitizer}
}

// Build appends the sanitized rawName to parent. A non-empty ext is appended
// as ".ext". It fails with textutil.ErrEmptyResult when rawName sanitizes to
// nothing.
func (b Builder) Build(parent, rawName, ext string) (string, error) {
	name, err := b.sanitizer.Sanitize(rawName)
	if err != nil {
		return "", err
	}
	if ext != "" {
		name += "." + ext
	}
	return filepath.Join(parent, name), nil
}

// Destination resolves the placement below root, one level at a time. The
// extension is only honoured on the leaf segment.
func (b Builder) Destination(root string, placement classify.Placement) (string, error) {
	if len(placement.Segments) == 0 {
		return "", errors.New("placement has no segments")
	}
	current := root
	for _, segment := range placement.Segments {
		ext := ""
		if segment.Leaf {
			ext = segment.Extension
		}
		next, err := b.Build(current, segment.Label, ext)
		if err != nil {
			return "", fmt.Errorf("%s segment: %w", placement.Category, err)
		}
		current = next
	}
	return current, nil
}

package textutil

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrEmptyResult reports a label that sanitizes to the empty string.
var ErrEmptyResult = errors.New("empty after sanitize")

// DefaultMaxLength caps sanitized names when no explicit limit is configured.
const DefaultMaxLength = 30

// nameReplacer folds accented vowels and maps separators to underscores.
// Replacement outputs never overlap the replaced inputs, so order is irrelevant.
var nameReplacer = strings.NewReplacer(
	"ä", "a",
	"ö", "o",
	"ü", "u",
	"é", "e",
	"è", "e",
	"ê", "e",
	"ß", "s",
	" ", "_",
	"-", "_",
	"(", "_",
	")", "_",
	"/", "_",
	".", "_",
)

// Sanitizer converts labels into lowercase [a-z0-9_] tokens.
type Sanitizer struct {
	maxLength int
}

// NewSanitizer returns a sanitizer truncating to maxLength characters.
// A maxLength of zero or less disables truncation.
func NewSanitizer(maxLength int) Sanitizer {
	return Sanitizer{maxLength: maxLength}
}

// MaxLength reports the configured cap; zero or less means unlimited.
func (s Sanitizer) MaxLength() int {
	return s.maxLength
}

// Sanitize returns the filesystem-safe token for label. It fails with
// ErrEmptyResult when nothing survives.
func (s Sanitizer) Sanitize(label string) (string, error) {
	name := strings.TrimSpace(cases.Lower(language.Und).String(label))
	name = nameReplacer.Replace(name)

	var b strings.Builder
	b.Grow(len(name))
	lastUnderscore := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case r == '_':
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		default:
			// dropped, not replaced
		}
	}

	out := strings.Trim(b.String(), "_")
	if s.maxLength > 0 && len(out) > s.maxLength {
		out = strings.Trim(out[:s.maxLength], "_")
	}
	if out == "" {
		return "", fmt.Errorf("%w: %q", ErrEmptyResult, label)
	}
	return out, nil
}

// Package textutil turns free-form tag text into filesystem-safe name tokens.
//
// A Sanitizer lowercases its input, folds the common German and French
// accented vowels onto ASCII, maps separators to underscores and drops every
// other character outside [a-z0-9_]. Underscore runs collapse to one and the
// result never starts or ends with an underscore, including after truncation
// to the configured maximum length.
//
// Sanitizers hold no mutable state and may be shared between goroutines.
package textutil

// Package tags exposes the tag fields audiosort classifies on.
//
// Metadata is an immutable, format-agnostic record: every optional attribute
// is a Field that callers must unwrap explicitly, custom fields are keyed by
// their uppercase name, and the audio type is fixed when the record is built.
// Readers translate a concrete tag container into Metadata; ID3Reader handles
// ID3v2 tags in MP3 files.
package tags

// Package config loads, normalizes, and validates audiosort configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// AUDIOSORT_INPUT_DIR. The Config type centralizes every knob the CLI and the
// organizer need, so default directories, accepted extensions, and the
// collision policy are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

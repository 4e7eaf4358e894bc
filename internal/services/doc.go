// Package services defines shared utilities consumed by the organizer stages
// and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and source files for
//     logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent journal outcomes (failed vs skipped vs conflict).
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across a sort run.
package services

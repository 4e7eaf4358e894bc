// Package history persists the move journal for sort runs in SQLite.
//
// Each `audiosort sort` that applies its plan opens a run, records one entry
// per source file (moved, failed, skipped, or conflict), and closes the run
// with aggregate counts. The journal lives under paths.state_dir and backs the
// `audiosort history` commands.
package history

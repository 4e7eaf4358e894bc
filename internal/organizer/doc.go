// Package organizer plans and applies sort runs over a directory of tagged
// audio files.
//
// Planning walks the input tree in lexical order, reads each accepted file's
// tags concurrently, classifies the record, and resolves a sanitized
// destination below the output root. Per-file problems are collected as
// failures and never abort the batch. Applying a plan takes the run lock,
// moves files one at a time, and journals every outcome so `audiosort
// history` can show what happened.
package organizer

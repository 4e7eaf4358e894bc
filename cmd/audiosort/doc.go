// Package main hosts the audiosort CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into organizer
// plans, journal queries, and configuration scaffolding. It centralizes
// configuration resolution and logger setup so subcommands can focus on
// presenting plans and asking for confirmation.
//
// Keep this package lean: add new behaviour to the internal packages first,
// then surface it through dedicated commands or flags here.
package main

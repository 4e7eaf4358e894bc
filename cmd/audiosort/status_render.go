package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"audiosort/internal/history"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// renderFailureLine formats a per-file failure as "<src> FAILED: <msg>".
func renderFailureLine(source string, err error, kind statusKind, colorize bool) string {
	return paint(fmt.Sprintf("%s FAILED: %v", source, err), kind, colorize)
}

// renderMoveLine formats a resolved destination as "<src> -> <dest>".
func renderMoveLine(source, dest string, colorize bool) string {
	return paint(fmt.Sprintf("%s -> %s", source, dest), statusOK, colorize)
}

func paint(line string, kind statusKind, colorize bool) string {
	if !colorize {
		return line
	}
	if color := statusKindColor(kind); color != "" {
		return color + line + ansiReset
	}
	return line
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

// outcomeKind picks the color for a journal outcome. Skips are warnings since
// the source file stays put and can be retagged.
func outcomeKind(outcome history.Outcome) statusKind {
	switch outcome {
	case history.OutcomeMoved:
		return statusOK
	case history.OutcomeSkipped:
		return statusWarn
	case history.OutcomeFailed, history.OutcomeConflict:
		return statusError
	default:
		return statusInfo
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

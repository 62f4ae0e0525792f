package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"dwcexport/internal/export"
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

const (
	statusLabelWidth = 24
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := fmt.Sprintf("[%s]", statusKindLabel(kind))
	if message != "" {
		statusText += " " + message
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
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

// outcomeStatus maps an archive outcome onto a status line.
func outcomeStatus(o export.Outcome) (statusKind, string) {
	switch o.Kind {
	case export.Delivered:
		return statusOK, o.Path
	case export.SkippedUnchanged:
		return statusInfo, "unchanged since last delivery"
	case export.SkippedLowVolume:
		return statusInfo, fmt.Sprintf("skipped, %d observations", o.Observations)
	case export.SkippedMissingSource:
		return statusWarn, "verbatim archive missing"
	case export.SkippedNoInput:
		return statusWarn, "no provider staged cleanly"
	case export.Cancelled:
		return statusWarn, "cancelled"
	default:
		return statusError, fmt.Sprint(o.Err)
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

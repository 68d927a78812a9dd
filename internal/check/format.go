// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package check

import (
	"fmt"

	"github.com/micha-blip/refcheck/pkg/types"
)

// Formatter turns per-reference progress into display lines. It exists so
// the classification loop never knows about terminal escape codes: the
// color output is purely cosmetic and swappable.
type Formatter interface {
	// Line formats one progress line for the reference at the given
	// 1-based index.
	Line(index int, status types.Status, text string) string

	// Title formats the source article title for the progress header.
	Title(title string) string
}

// ANSI escape sequences used by ColorFormatter.
const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiItalic = "\x1B[3m"
)

// ColorFormatter renders progress lines with ANSI colors: green for found,
// red for not found, yellow for a missing DOI.
type ColorFormatter struct{}

func (ColorFormatter) Line(index int, status types.Status, text string) string {
	var color string
	switch status {
	case types.StatusFound:
		color = ansiGreen
	case types.StatusNoDOI:
		color = ansiYellow
	default:
		color = ansiRed
	}
	return fmt.Sprintf("%s%d %s%s", color, index, text, ansiReset)
}

func (ColorFormatter) Title(title string) string {
	return ansiItalic + title + ansiReset
}

// PlainFormatter renders progress lines without escape codes, for piped
// output or logs.
type PlainFormatter struct{}

func (PlainFormatter) Line(index int, status types.Status, text string) string {
	return fmt.Sprintf("%d %s", index, text)
}

func (PlainFormatter) Title(title string) string { return title }

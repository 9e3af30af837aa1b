// ABOUTME: Shared terminal output helpers for CLI commands.
// ABOUTME: Colored status lines, column padding and truncation.
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	faint  = color.New(color.Faint)
	bold   = color.New(color.Bold)
)

func success(w io.Writer, format string, args ...any) {
	_, _ = green.Fprintf(w, "✓ "+format+"\n", args...)
}

func removed(w io.Writer, format string, args ...any) {
	_, _ = yellow.Fprintf(w, "✗ "+format+"\n", args...)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", maxLen)
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func formatWeight(kg float64) string {
	if kg == 0 {
		return "bodyweight"
	}
	return fmt.Sprintf("%g kg", kg)
}

// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todo/internal/tasklist"
)

const (
	// Separator is the separator line printed between watch snapshots.
	Separator = "------------"

	checked   = "[x]"
	unchecked = "[ ]"
)

// FormatItem formats an item line.
// Format: "{N:>4}  [x] {NAME}\n" (4-wide right-aligned number, two spaces, checkbox, name)
func FormatItem(w io.Writer, num int, item tasklist.Item) {
	box := unchecked
	if item.Completed {
		box = checked
	}
	fmt.Fprintf(w, "%4d  %s %s\n", num, box, NormalizeName(item.Name))
}

// FormatItems formats the filtered view of a controller followed by its footer.
// An empty view prints "no tasks found" unless quiet is set.
func FormatItems(w io.Writer, c *tasklist.Controller, quiet bool) {
	items := c.Filtered()
	for i, item := range items {
		FormatItem(w, i+1, item)
	}
	if len(items) == 0 && !quiet {
		fmt.Fprintln(w, "no tasks found")
	}
	if footer := c.Footer(); footer != "" && !quiet {
		fmt.Fprintln(w, footer)
	}
}

// FormatPair formats a "name=value" configuration line.
// Empty values print as "(unset)".
func FormatPair(w io.Writer, name, value string) {
	if value == "" {
		value = "(unset)"
	}
	fmt.Fprintf(w, "%s=%s\n", name, value)
}

// NormalizeName normalizes an item name for single-line display.
// - Empty or whitespace-only names become "(untitled)"
// - Newlines are replaced with spaces
func NormalizeName(name string) string {
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.ReplaceAll(name, "\n", " ")

	if strings.TrimSpace(name) == "" {
		return "(untitled)"
	}
	return name
}

package base

import "strings"

// PadString pads a string to the specified width with spaces
func PadString(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// TruncateString truncates a string to maxWidth with ellipsis
func TruncateString(s string, maxWidth int) string {
	if len(s) <= maxWidth {
		return s
	}
	if maxWidth < 3 {
		return s[:maxWidth]
	}
	return s[:maxWidth-3] + "..."
}

// Bar renders a fixed-width occupancy bar: filled cells for value,
// capped at width. Used for queue-depth columns in the monitor.
func Bar(value, width int) string {
	if width <= 0 {
		return ""
	}
	if value > width {
		value = width
	}
	if value < 0 {
		value = 0
	}
	return strings.Repeat("█", value) + strings.Repeat("░", width-value)
}

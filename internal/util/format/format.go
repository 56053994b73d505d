// Package format renders sizes and durations for status output.
package format

import (
	"strconv"
	"time"
)

var sizeUnits = []string{"KB", "MB", "GB", "TB"}

// HumanizeBytes converts a byte count into a human-readable string (e.g., "1.5 MB").
func HumanizeBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit && exp < len(sizeUnits)-1; n /= unit {
		div *= unit
		exp++
	}
	frac := float64(b) / float64(div)
	return strconv.FormatFloat(frac, 'f', 1, 64) + " " + sizeUnits[exp]
}

// Elapsed renders a wall-clock duration rounded for display:
// milliseconds under a second, tenths of a second under a minute,
// whole seconds beyond that.
func Elapsed(d time.Duration) string {
	switch {
	case d < 0:
		return "0s"
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	case d < time.Minute:
		return d.Round(100 * time.Millisecond).String()
	default:
		return d.Round(time.Second).String()
	}
}

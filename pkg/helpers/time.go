package helpers

import (
	"time"

	humanize "github.com/dustin/go-humanize"
)

// Count renders an element count with thousands separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}

// Size renders the memory held by n partition elements.
func Size(n int) string {
	return humanize.IBytes(uint64(n) * 8)
}

// Elapsed rounds d to a precision that suits its magnitude for display.
func Elapsed(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.Round(time.Nanosecond * 100).String()
	case d < time.Second:
		return d.Round(time.Microsecond * 100).String()
	default:
		return d.Round(time.Millisecond).String()
	}
}

package timing

import (
	"fmt"
	"strings"
	"time"
)

const day = 24 * time.Hour

// Age returns a compact age such as "3d", "5h", "12m" or "now" for a pull
// opened at created, measured at now.
func Age(created, now time.Time) string {
	if created.IsZero() {
		return "-"
	}
	d := now.Sub(created)
	switch {
	case d >= day:
		return fmt.Sprintf("%dd", int(d/day))
	case d >= time.Hour:
		return fmt.Sprintf("%dh", int(d/time.Hour))
	case d >= time.Minute:
		return fmt.Sprintf("%dm", int(d/time.Minute))
	default:
		return "now"
	}
}

// Elapsed returns the time since start, or zero when start is unset or in the future.
func Elapsed(start, now time.Time) time.Duration {
	if start.IsZero() {
		return 0
	}
	elapsed := now.Sub(start)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// FormatDuration renders d rounded to seconds as "1h 2m 3s", omitting zero parts
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d <= 0 {
		return "0s"
	}

	units := []struct {
		size   time.Duration
		suffix string
	}{
		{time.Hour, "h"},
		{time.Minute, "m"},
		{time.Second, "s"},
	}
	parts := make([]string, 0, len(units))
	for _, u := range units {
		if n := d / u.size; n > 0 {
			parts = append(parts, fmt.Sprintf("%d%s", n, u.suffix))
			d -= n * u.size
		}
	}
	return strings.Join(parts, " ")
}

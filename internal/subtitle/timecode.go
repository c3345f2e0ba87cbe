package subtitle

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// seconds to a duration rounded to the nearest millisecond
func fromSeconds(s float64) time.Duration {
	if math.IsNaN(s) || s <= 0 {
		return 0
	}
	return time.Duration(math.Round(s*1000)) * time.Millisecond
}

func toSeconds(d time.Duration) float64 {
	return d.Seconds()
}

// clock splits d into hours, minutes, seconds and milliseconds.
func clock(d time.Duration) (h, m, s, ms int64) {
	total := max(d, 0).Milliseconds()
	return total / 3_600_000, total / 60_000 % 60, total / 1000 % 60, total % 1000
}

func formatSRTTime(d time.Duration) string {
	h, m, s, ms := clock(d)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// H:MM:SS.cc, centiseconds truncated
func formatASSTime(d time.Duration) string {
	h, m, s, ms := clock(d)
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, ms/10)
}

// truncates d to the precision of a script timestamp
func centiseconds(d time.Duration) int64 {
	return d.Milliseconds() / 10
}

var clockUnits = [...]time.Duration{time.Hour, time.Minute, time.Second}

// parseClock reads H:MM:SS with an optional fraction after '.' or ','.
// The fraction is decimal, so "5" is 500ms and "05" is 50ms; digits past
// milliseconds are dropped. It covers both SRT and script timestamps.
func parseClock(ts string) (time.Duration, error) {
	ts = strings.TrimSpace(ts)
	hms, frac, _ := strings.Cut(strings.Replace(ts, ",", ".", 1), ".")

	fields := strings.Split(hms, ":")
	if len(fields) != len(clockUnits) {
		return 0, fmt.Errorf("invalid timestamp %q", ts)
	}

	var total time.Duration
	for i, unit := range clockUnits {
		n, err := strconv.Atoi(fields[i])
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", ts)
		}
		total += time.Duration(n) * unit
	}

	if frac == "" {
		return total, nil
	}
	frac = frac[:min(len(frac), 3)]
	ms, err := strconv.Atoi(frac)
	if err != nil || ms < 0 {
		return 0, fmt.Errorf("invalid fraction in timestamp %q", ts)
	}
	for range 3 - len(frac) {
		ms *= 10
	}
	return total + time.Duration(ms)*time.Millisecond, nil
}

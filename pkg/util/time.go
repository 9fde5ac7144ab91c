package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatDuration renders a duration as HH:MM:SS or MM:SS for display.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// ParseFrameRate parses an ffprobe rational frame rate like "30000/1001"
// into a float. Returns 0 for malformed input.
func ParseFrameRate(rate string) float64 {
	num, den, ok := strings.Cut(rate, "/")
	if !ok {
		f, _ := strconv.ParseFloat(rate, 64)
		return f
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

// ParseTimestamp parses an ffmpeg timestamp of the form HH:MM:SS.ms into a
// duration. Partial forms (MM:SS, SS) are accepted.
func ParseTimestamp(ts string) (time.Duration, error) {
	parts := strings.Split(ts, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp: %s", ts)
	}

	var total float64
	for _, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp: %s", ts)
		}
		total = total*60 + v
	}
	return time.Duration(total * float64(time.Second)), nil
}

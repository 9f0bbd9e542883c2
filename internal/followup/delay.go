package followup

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// delayPattern accepts an integer plus one of s/m/h/d, e.g. "10s", "2h".
var delayPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseDelay converts a delay spec into a duration.
func ParseDelay(spec string) (time.Duration, error) {
	m := delayPattern.FindStringSubmatch(spec)
	if m == nil {
		return 0, fmt.Errorf("invalid delay %q", spec)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid delay %q: %w", spec, err)
	}
	switch m[2] {
	case "s":
		return time.Duration(n) * time.Second, nil
	case "m":
		return time.Duration(n) * time.Minute, nil
	case "h":
		return time.Duration(n) * time.Hour, nil
	default:
		return time.Duration(n) * 24 * time.Hour, nil
	}
}

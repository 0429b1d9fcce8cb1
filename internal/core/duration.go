package core

import (
	"fmt"
	"strings"
	"time"
)

// parseDurationField parses a config duration string. Empty means "unset"
// and maps to 0 so callers can apply their own default.
func parseDurationField(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	switch {
	case err != nil:
		return 0, fmt.Errorf("%s: %q is not a duration: %w", path, raw, err)
	case d < 0:
		return 0, fmt.Errorf("%s: negative duration %q", path, raw)
	}
	return d, nil
}

// parseDurationOrDefault is parseDurationField with a fallback for the
// unset/zero case.
func parseDurationOrDefault(path, raw string, def time.Duration) (time.Duration, error) {
	d, err := parseDurationField(path, raw)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		d = def
	}
	return d, nil
}

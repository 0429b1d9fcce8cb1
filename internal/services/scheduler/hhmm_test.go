package scheduler

import "testing"

func TestParseHHMM(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw    string
		hour   int
		minute int
	}{
		{raw: "08:00", hour: 8, minute: 0},
		{raw: "23:15", hour: 23, minute: 15},
		{raw: " 0:05 ", hour: 0, minute: 5},
	}
	for _, tt := range tests {
		h, m, err := parseHHMM(tt.raw)
		if err != nil {
			t.Fatalf("parseHHMM(%q) error: %v", tt.raw, err)
		}
		if h != tt.hour || m != tt.minute {
			t.Fatalf("parseHHMM(%q) = %d:%d, want %d:%d", tt.raw, h, m, tt.hour, tt.minute)
		}
	}
}

func TestParseHHMMInvalid(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"", "8", "24:00", "12:60", "ab:cd", "12:00:00"} {
		if _, _, err := parseHHMM(raw); err == nil {
			t.Fatalf("parseHHMM(%q): expected error", raw)
		}
	}
}

func TestBackoffDelayCapped(t *testing.T) {
	t.Parallel()
	opt := retryOptions{}.withDefaults(Config{RetryMax: 3})
	for retry := 1; retry <= 10; retry++ {
		d := backoffDelay(opt, retry)
		if d < 0 {
			t.Fatalf("retry %d: negative delay %v", retry, d)
		}
		// max delay plus full jitter headroom
		limit := opt.MaxDelay + opt.MaxDelay/2
		if d > limit {
			t.Fatalf("retry %d: delay %v exceeds %v", retry, d, limit)
		}
	}
}

package dispatcher

import (
	"errors"
	"testing"
	"time"
)

func TestParseSchedule(t *testing.T) {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		spec string
		next time.Time
	}{
		{"", base.Add(60 * time.Second)},
		{"60s", base.Add(60 * time.Second)},
		{" 2m ", base.Add(2 * time.Minute)},
		{"*/5 * * * *", base.Add(5 * time.Minute)},
		{"@hourly", base.Add(time.Hour)},
	}

	for _, tt := range tests {
		sched, err := ParseSchedule(tt.spec)
		if err != nil {
			t.Errorf("ParseSchedule(%q) error: %v", tt.spec, err)
			continue
		}
		if got := sched.Next(base); !got.Equal(tt.next) {
			t.Errorf("ParseSchedule(%q).Next = %v, want %v", tt.spec, got, tt.next)
		}
	}
}

func TestParseSchedule_Invalid(t *testing.T) {
	for _, spec := range []string{"500ms", "-1m", "every minute", "* * *"} {
		if _, err := ParseSchedule(spec); !errors.Is(err, ErrInvalidSchedule) {
			t.Errorf("ParseSchedule(%q) = %v, want ErrInvalidSchedule", spec, err)
		}
	}
}

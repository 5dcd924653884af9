package scheduler

import (
	"testing"
	"time"
)

func TestNextRunAfter(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"before today's slot",
			time.Date(2026, 8, 1, 9, 30, 0, 0, loc),
			time.Date(2026, 8, 1, 18, 0, 0, 0, loc),
		},
		{
			"after today's slot rolls to tomorrow",
			time.Date(2026, 8, 1, 19, 0, 0, 0, loc),
			time.Date(2026, 8, 2, 18, 0, 0, 0, loc),
		},
		{
			"exactly at the slot rolls to tomorrow",
			time.Date(2026, 8, 1, 18, 0, 0, 0, loc),
			time.Date(2026, 8, 2, 18, 0, 0, 0, loc),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextRunAfter(tt.now, 18, 0)
			if !got.Equal(tt.want) {
				t.Errorf("nextRunAfter(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

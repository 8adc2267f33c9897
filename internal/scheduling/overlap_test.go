package scheduling

import (
	"testing"
	"time"

	"evshare/pkg/model"
)

func ts(hour int) time.Time {
	return time.Date(2024, 1, 1, hour, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                           string
		startA, endA, startB, endB     time.Time
		want                           bool
	}{
		{
			name:   "partial overlap",
			startA: ts(9), endA: ts(11),
			startB: ts(10), endB: ts(12),
			want: true,
		},
		{
			name:   "contained",
			startA: ts(9), endA: ts(17),
			startB: ts(10), endB: ts(11),
			want: true,
		},
		{
			name:   "identical",
			startA: ts(9), endA: ts(11),
			startB: ts(9), endB: ts(11),
			want: true,
		},
		{
			name:   "adjacent back to back",
			startA: ts(9), endA: ts(11),
			startB: ts(11), endB: ts(13),
			want: false,
		},
		{
			name:   "disjoint",
			startA: ts(9), endA: ts(10),
			startB: ts(14), endB: ts(16),
			want: false,
		},
		{
			name:   "one minute overlap",
			startA: ts(9), endA: ts(11).Add(time.Minute),
			startB: ts(11), endB: ts(13),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(tt.startA, tt.endA, tt.startB, tt.endB)
			if got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}

			// Overlap is symmetric in its two intervals.
			mirror := Overlaps(tt.startB, tt.endB, tt.startA, tt.endA)
			if mirror != got {
				t.Errorf("Overlaps() not symmetric: %v vs %v", got, mirror)
			}
		})
	}
}

func TestFilterOverlapping(t *testing.T) {
	bookings := []*model.Booking{
		{ID: "b1", StartTime: ts(8), EndTime: ts(10)},
		{ID: "b2", StartTime: ts(10), EndTime: ts(12)},
		{ID: "b3", StartTime: ts(13), EndTime: ts(15)},
	}

	got := FilterOverlapping(bookings, ts(9), ts(13))
	if len(got) != 2 {
		t.Fatalf("expected 2 overlapping bookings, got %d", len(got))
	}
	if got[0].ID != "b1" || got[1].ID != "b2" {
		t.Errorf("expected b1,b2 in order, got %s,%s", got[0].ID, got[1].ID)
	}

	if got := FilterOverlapping(nil, ts(9), ts(13)); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

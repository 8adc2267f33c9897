package scheduling

import (
	"math"
	"testing"
	"time"

	"evshare/pkg/model"
)

const lookback30d = 30 * 24 * time.Hour

func day(d, hour int) time.Time {
	return time.Date(2024, 1, d, hour, 0, 0, 0, time.UTC)
}

func TestAggregateUsage(t *testing.T) {
	asOf := day(31, 0)

	bookings := []*model.Booking{
		// Alice: 2h ending 1 day before asOf, 4h ending 10 days before.
		{RequesterID: "alice", StartTime: day(30, 8), EndTime: day(30, 10)},
		{RequesterID: "alice", StartTime: day(21, 8), EndTime: day(21, 12)},
		// Bob: 3h ending 5 days before asOf.
		{RequesterID: "bob", StartTime: day(26, 9), EndTime: day(26, 12)},
		// Outside the window, must be ignored.
		{RequesterID: "bob", StartTime: time.Date(2023, 11, 1, 8, 0, 0, 0, time.UTC), EndTime: time.Date(2023, 11, 1, 12, 0, 0, 0, time.UTC)},
		// Ends after asOf, must be ignored.
		{RequesterID: "carol", StartTime: day(31, 8), EndTime: day(31, 10)},
	}

	usage := AggregateUsage(bookings, asOf, lookback30d)

	if len(usage) != 2 {
		t.Fatalf("expected 2 members with usage, got %d", len(usage))
	}

	alice := usage["alice"]
	if alice.TotalHours != 6 {
		t.Errorf("alice TotalHours = %v, want 6", alice.TotalHours)
	}
	if alice.Bookings != 2 {
		t.Errorf("alice Bookings = %d, want 2", alice.Bookings)
	}
	// Recency tracks the most recent booking, not the first one seen.
	wantDays := asOf.Sub(day(30, 10)).Hours() / 24
	if math.Abs(alice.DaysSinceLastBooking-wantDays) > 1e-9 {
		t.Errorf("alice DaysSinceLastBooking = %v, want %v", alice.DaysSinceLastBooking, wantDays)
	}

	bob := usage["bob"]
	if bob.TotalHours != 3 {
		t.Errorf("bob TotalHours = %v, want 3", bob.TotalHours)
	}
	if bob.Bookings != 1 {
		t.Errorf("bob Bookings = %d, want 1", bob.Bookings)
	}
}

func TestAggregateUsageEmpty(t *testing.T) {
	usage := AggregateUsage(nil, day(31, 0), lookback30d)
	if len(usage) != 0 {
		t.Errorf("expected empty map, got %d entries", len(usage))
	}
}

func TestUsageMapFor(t *testing.T) {
	usage := UsageMap{
		"alice": {TotalHours: 6, Bookings: 2, DaysSinceLastBooking: 1},
	}

	if got := usage.For("alice", lookback30d); got.TotalHours != 6 {
		t.Errorf("existing member TotalHours = %v, want 6", got.TotalHours)
	}

	// Unknown members default to zero usage at the far edge of the window.
	ghost := usage.For("ghost", lookback30d)
	if ghost.TotalHours != 0 || ghost.Bookings != 0 {
		t.Errorf("unknown member should have zero usage, got %+v", ghost)
	}
	if ghost.DaysSinceLastBooking != 30 {
		t.Errorf("unknown member DaysSinceLastBooking = %v, want 30", ghost.DaysSinceLastBooking)
	}
}

func TestUsageMapTotalHours(t *testing.T) {
	usage := UsageMap{
		"alice": {TotalHours: 6},
		"bob":   {TotalHours: 3},
	}
	if got := usage.TotalHours(); got != 9 {
		t.Errorf("TotalHours() = %v, want 9", got)
	}

	if got := (UsageMap{}).TotalHours(); got != 0 {
		t.Errorf("empty TotalHours() = %v, want 0", got)
	}
}

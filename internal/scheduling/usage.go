package scheduling

import (
	"time"

	"evshare/pkg/model"
)

// MemberUsage summarizes one member's consumption of the shared vehicle
// inside the lookback window.
type MemberUsage struct {
	TotalHours           float64
	Bookings             int
	DaysSinceLastBooking float64
}

// UsageMap maps user ID to that member's usage within the window.
type UsageMap map[string]MemberUsage

// AggregateUsage folds historical bookings into per-member usage. Only
// bookings that ended inside [asOf-lookback, asOf] count; callers are
// expected to pre-filter by status so pending and rejected requests never
// inflate anyone's usage.
func AggregateUsage(bookings []*model.Booking, asOf time.Time, lookback time.Duration) UsageMap {
	windowStart := asOf.Add(-lookback)
	usage := make(UsageMap)

	for _, b := range bookings {
		if b.EndTime.Before(windowStart) || b.EndTime.After(asOf) {
			continue
		}

		u, seen := usage[b.RequesterID]
		u.TotalHours += b.EndTime.Sub(b.StartTime).Hours()
		u.Bookings++

		days := asOf.Sub(b.EndTime).Hours() / 24
		if !seen || days < u.DaysSinceLastBooking {
			u.DaysSinceLastBooking = days
		}
		usage[b.RequesterID] = u
	}

	return usage
}

// For returns the usage entry for userID. A member with no bookings in the
// window is treated as maximally rested: their last booking sits at the far
// edge of the lookback window.
func (u UsageMap) For(userID string, lookback time.Duration) MemberUsage {
	if m, ok := u[userID]; ok {
		return m
	}
	return MemberUsage{DaysSinceLastBooking: lookback.Hours() / 24}
}

// TotalHours sums consumed hours across all members in the window.
func (u UsageMap) TotalHours() float64 {
	var total float64
	for _, m := range u {
		total += m.TotalHours
	}
	return total
}

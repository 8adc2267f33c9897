package scheduling

import (
	"time"

	"evshare/pkg/model"
)

// Overlaps reports whether the half-open intervals [startA, endA) and
// [startB, endB) intersect. Back-to-back bookings where one ends exactly
// when the other starts do not overlap.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && startB.Before(endA)
}

// BookingOverlaps reports whether the booking's interval intersects
// [start, end).
func BookingOverlaps(b *model.Booking, start, end time.Time) bool {
	return Overlaps(b.StartTime, b.EndTime, start, end)
}

// FilterOverlapping returns the bookings whose intervals intersect
// [start, end), preserving input order.
func FilterOverlapping(bookings []*model.Booking, start, end time.Time) []*model.Booking {
	var out []*model.Booking
	for _, b := range bookings {
		if BookingOverlaps(b, start, end) {
			out = append(out, b)
		}
	}
	return out
}

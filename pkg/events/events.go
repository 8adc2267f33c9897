package events

// Topic for all booking lifecycle events, keyed by booking ID so consumers
// see each booking's events in order.
const TopicBookings = "evshare.bookings"

// DLQTopicBookings receives messages that could not be delivered.
const DLQTopicBookings = "evshare.bookings.dlq"

// Booking lifecycle event types.
const (
	BookingCreated   = "booking.created"
	BookingApproved  = "booking.approved"
	BookingCancelled = "booking.cancelled"
	BookingActivated = "booking.activated"
	BookingCompleted = "booking.completed"
)

// BookingPayload is the wire payload for every booking event.
type BookingPayload struct {
	BookingID string `json:"booking_id"`
	UserID    string `json:"user_id"`
	GroupID   string `json:"group_id"`
}

package model

import (
	"time"
)

// Booking statuses. Status is mutated exclusively by the booking service;
// pending, approved and active bookings count as claims on vehicle time.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusRejected  = "rejected"
)

// ActiveStatuses are the statuses that occupy a slot on the vehicle calendar.
var ActiveStatuses = []string{StatusPending, StatusApproved, StatusActive}

// ApprovedStatuses are the statuses the availability projection exposes.
var ApprovedStatuses = []string{StatusApproved, StatusActive}

// UsageStatuses are the statuses counted when aggregating usage history.
var UsageStatuses = []string{StatusApproved, StatusActive, StatusCompleted}

type Booking struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	GroupID       string    `json:"group_id" bson:"group_id" validate:"required,mongodb"`
	VehicleID     string    `json:"vehicle_id" bson:"vehicle_id" validate:"required,min=1,max=64"`
	RequesterID   string    `json:"requester_id" bson:"requester_id" validate:"required,min=1,max=64"`
	StartTime     time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime       time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status        string    `json:"status" bson:"status" validate:"required,oneof=pending approved active completed cancelled rejected"`
	PriorityScore float64   `json:"priority_score" bson:"priority_score"`
	Notes         string    `json:"notes,omitempty" bson:"notes" validate:"omitempty,max=500"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Duration returns the claimed length of the booking.
func (b *Booking) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}

// IsTerminal reports whether the booking can no longer change state.
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

type BookingUpdate struct {
	StartTime *time.Time `json:"start_time,omitempty" validate:"omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty" validate:"omitempty"`
	Notes     *string    `json:"notes,omitempty" validate:"omitempty,max=500"`
}

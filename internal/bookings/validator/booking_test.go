package validator

import (
	"io"
	"testing"
	"time"

	"evshare/pkg/logger"
	"evshare/pkg/model"
)

func testValidator() *BookingValidator {
	return NewBookingValidator(logger.New(logger.Config{Level: "error", Output: io.Discard}))
}

func validBooking() *model.Booking {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	return &model.Booking{
		GroupID:     "507f1f77bcf86cd799439011",
		VehicleID:   "vehicle-1",
		RequesterID: "alice",
		StartTime:   start,
		EndTime:     start.Add(2 * time.Hour),
		Status:      model.StatusPending,
	}
}

func TestValidate(t *testing.T) {
	v := testValidator()

	tests := []struct {
		name    string
		mutate  func(b *model.Booking)
		wantErr bool
	}{
		{
			name:    "valid booking",
			mutate:  func(b *model.Booking) {},
			wantErr: false,
		},
		{
			name:    "missing group",
			mutate:  func(b *model.Booking) { b.GroupID = "" },
			wantErr: true,
		},
		{
			name:    "malformed group id",
			mutate:  func(b *model.Booking) { b.GroupID = "not-an-object-id" },
			wantErr: true,
		},
		{
			name:    "missing vehicle",
			mutate:  func(b *model.Booking) { b.VehicleID = "" },
			wantErr: true,
		},
		{
			name:    "missing requester",
			mutate:  func(b *model.Booking) { b.RequesterID = "" },
			wantErr: true,
		},
		{
			name:    "zero length range",
			mutate:  func(b *model.Booking) { b.EndTime = b.StartTime },
			wantErr: true,
		},
		{
			name:    "end before start",
			mutate:  func(b *model.Booking) { b.EndTime = b.StartTime.Add(-time.Hour) },
			wantErr: true,
		},
		{
			name:    "unknown status",
			mutate:  func(b *model.Booking) { b.Status = "parked" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(b)
			err := v.Validate(b)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := testValidator()
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	bad := start.Add(-time.Hour)

	tests := []struct {
		name    string
		update  *model.BookingUpdate
		wantErr bool
	}{
		{
			name:    "empty update",
			update:  &model.BookingUpdate{},
			wantErr: false,
		},
		{
			name:    "new range",
			update:  &model.BookingUpdate{StartTime: &start, EndTime: &end},
			wantErr: false,
		},
		{
			name:    "inverted range",
			update:  &model.BookingUpdate{StartTime: &start, EndTime: &bad},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpdate(tt.update)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUpdate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

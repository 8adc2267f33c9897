package model

import "time"

// BookingLock is an advisory lock serializing conflict resolution per
// vehicle. Two concurrent requests for the same vehicle cannot both pass the
// overlap check while one of them holds the lock; the TTL bounds how long a
// crashed holder can block others.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

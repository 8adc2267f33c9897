// Package scheduling holds the booking-conflict core: interval overlap
// detection, usage-history aggregation, fairness scoring and claim
// resolution. Everything here is pure computation; repositories feed it and
// the booking service acts on its decisions.
package scheduling

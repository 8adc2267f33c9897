package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "evshare/internal/bookings/errors"
	"evshare/internal/bookings/repository"
	"evshare/internal/bookings/validator"
	"evshare/internal/scheduling"
	"evshare/pkg/config"
	apperrors "evshare/pkg/errors"
	"evshare/pkg/events"
	"evshare/pkg/model"
	"evshare/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type BookingService interface {
	Request(ctx context.Context, actor model.Actor, booking *model.Booking) error
	GetByID(ctx context.Context, actor model.Actor, id string) (*model.Booking, error)
	Cancel(ctx context.Context, actor model.Actor, id string) error
	Modify(ctx context.Context, actor model.Actor, id string, updates *model.BookingUpdate) (*model.Booking, error)
	CheckIn(ctx context.Context, actor model.Actor, id string) error
	CheckOut(ctx context.Context, actor model.Actor, id string) error
	AvailableSlots(ctx context.Context, vehicleID string, from, to time.Time) ([]*model.Booking, error)
	UserHistory(ctx context.Context, actor model.Actor, userID string, from, to *time.Time, limit int, offset int64) ([]*model.Booking, int64, error)
	GroupCalendar(ctx context.Context, actor model.Actor, groupID string, from, to *time.Time, limit int, offset int64) ([]*model.Booking, int64, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	groups    repository.GroupReader
	validator *validator.BookingValidator
	resolver  *scheduling.Resolver
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	groups repository.GroupReader,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		groups:    groups,
		validator: validator,
		resolver:  scheduling.NewResolver(policyFromConfig(cfg)),
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

func policyFromConfig(cfg *config.Config) scheduling.ScoringPolicy {
	if cfg.SchedulingPolicy == config.PolicySimpleOwnership {
		return scheduling.NewSimpleOwnershipPolicy(cfg.UsageLookbackWindow)
	}
	return scheduling.NewWeightedFairnessPolicy(scheduling.Weights{
		Fairness:      cfg.FairnessWeight,
		Recency:       cfg.RecencyWeight,
		Share:         cfg.ShareWeight,
		LengthPenalty: cfg.LengthPenaltyWeight,
	}, cfg.UsageLookbackWindow, cfg.ReferenceTripHours)
}

// Request creates a booking for the authenticated actor. The requester
// identity always comes from the gateway, never from the request body. With
// no overlapping claims the booking is approved outright; otherwise the
// conflict resolver decides, and a losing request is rejected with the
// winner and ranked alternatives attached.
func (s *bookingService) Request(ctx context.Context, actor model.Actor, booking *model.Booking) error {
	booking.RequesterID = actor.UserID
	s.applyDefaults(booking)
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	group, err := s.findGroup(ctx, booking.GroupID)
	if err != nil {
		return err
	}
	if _, ok := group.Member(actor.UserID); !ok {
		return apperrors.Forbidden("Requester is not a member of the ownership group")
	}
	if booking.VehicleID != group.VehicleID {
		return apperrors.InvalidInput("Vehicle does not belong to the ownership group")
	}

	lockID, err := s.acquireVehicleLock(ctx, booking.VehicleID)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseVehicleLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release vehicle lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		overlapping, err := s.repo.FindOverlapping(sessCtx, booking.VehicleID, booking.StartTime, booking.EndTime, model.ActiveStatuses, s.cfg.MaxOverlapCheck)
		if err != nil {
			return apperrors.Internal("Failed to check existing bookings", err)
		}

		if len(overlapping) == 0 {
			booking.Status = model.StatusApproved
			if err := s.repo.Create(sessCtx, booking); err != nil {
				return apperrors.Internal("Failed to create booking", err)
			}
			return nil
		}

		self := scheduling.Candidate{
			UserID:    actor.UserID,
			StartTime: booking.StartTime,
			EndTime:   booking.EndTime,
			CreatedAt: s.now(),
		}
		resolution, err := s.resolve(sessCtx, group, self, overlapping)
		if err != nil {
			return err
		}

		if resolution.Winner.Existing {
			return s.conflictError(resolution)
		}

		booking.Status = model.StatusApproved
		booking.PriorityScore = resolution.Winner.Score
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		if apperrors.AsAppError(err).Code == apperrors.CodeInternal {
			s.cfg.Log.Error("Failed to create booking", "error", err)
		}
		return err
	}

	s.publish(ctx, booking, events.BookingCreated, events.BookingApproved)
	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"group_id", booking.GroupID,
		"vehicle_id", booking.VehicleID,
		"requester_id", booking.RequesterID,
		"start_time", booking.StartTime,
		"priority_score", booking.PriorityScore,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, actor model.Actor, id string) (*model.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	group, err := s.findGroup(ctx, booking.GroupID)
	if err != nil {
		return nil, err
	}
	if !s.canView(actor, group) {
		return nil, apperrors.Forbidden("Only group members may view this booking")
	}

	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, actor model.Actor, id string) error {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return err
	}

	group, err := s.findGroup(ctx, booking.GroupID)
	if err != nil {
		return err
	}
	if !s.canManage(actor, group, booking) {
		return apperrors.Forbidden("Only the requester or a group admin may cancel a booking")
	}

	if !CanTransition(booking.Status, model.StatusCancelled) {
		return apperrors.Validation("Booking cannot be cancelled in its current state",
			map[string]any{"status": booking.Status})
	}

	if err := s.repo.UpdateStatus(ctx, id, model.StatusCancelled); err != nil {
		return apperrors.Internal("Failed to cancel booking", err)
	}

	s.publish(ctx, booking, events.BookingCancelled)
	s.cfg.Log.Info("Booking cancelled", "id", id, "actor", actor.UserID)
	return nil
}

// Modify changes a booking's time range. The new range goes through the same
// overlap check and conflict resolution as a fresh request, with the
// booking's original creation time preserved for tiebreaks; a range that
// loses its own conflict leaves the booking untouched.
func (s *bookingService) Modify(ctx context.Context, actor model.Actor, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	group, err := s.findGroup(ctx, booking.GroupID)
	if err != nil {
		return nil, err
	}
	if !s.canManage(actor, group, booking) {
		return nil, apperrors.Forbidden("Only the requester or a group admin may modify a booking")
	}
	if booking.Status != model.StatusPending && booking.Status != model.StatusApproved {
		return nil, apperrors.Validation("Only pending or approved bookings can be modified",
			map[string]any{"status": booking.Status})
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeBookingUpdates(booking, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	lockID, err := s.acquireVehicleLock(ctx, merged.VehicleID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseVehicleLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release vehicle lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		overlapping, err := s.repo.FindOverlapping(sessCtx, merged.VehicleID, merged.StartTime, merged.EndTime, model.ActiveStatuses, s.cfg.MaxOverlapCheck)
		if err != nil {
			return apperrors.Internal("Failed to check existing bookings", err)
		}

		self := scheduling.Candidate{
			BookingID: merged.ID,
			UserID:    merged.RequesterID,
			StartTime: merged.StartTime,
			EndTime:   merged.EndTime,
			CreatedAt: merged.CreatedAt,
			Existing:  true,
		}
		if others := excludeBooking(overlapping, merged.ID); len(others) > 0 {
			resolution, err := s.resolve(sessCtx, group, self, others)
			if err != nil {
				return err
			}
			if resolution.Winner.BookingID != merged.ID {
				return s.conflictError(resolution)
			}
		}

		if err := s.repo.UpdateTimes(sessCtx, id, merged.StartTime, merged.EndTime, merged.Notes); err != nil {
			return apperrors.Internal("Failed to update booking", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking modified", "id", id, "actor", actor.UserID)
	return merged, nil
}

func (s *bookingService) CheckIn(ctx context.Context, actor model.Actor, id string) error {
	return s.transition(ctx, actor, id, model.StatusActive, events.BookingActivated, "check in")
}

func (s *bookingService) CheckOut(ctx context.Context, actor model.Actor, id string) error {
	return s.transition(ctx, actor, id, model.StatusCompleted, events.BookingCompleted, "check out")
}

// transition moves a booking to the target status on behalf of its
// requester. Check-in and check-out are physical actions, so not even group
// admins may perform them for somebody else.
func (s *bookingService) transition(ctx context.Context, actor model.Actor, id, target, eventType, action string) error {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return err
	}

	if booking.RequesterID != actor.UserID {
		return apperrors.Forbidden(fmt.Sprintf("Only the requester may %s", action))
	}
	if !CanTransition(booking.Status, target) {
		return apperrors.Validation(fmt.Sprintf("Booking cannot %s in its current state", action),
			map[string]any{"status": booking.Status})
	}

	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		return apperrors.Internal("Failed to update booking status", err)
	}

	s.publish(ctx, booking, eventType)
	s.cfg.Log.Info("Booking status changed", "id", id, "status", target)
	return nil
}

// AvailableSlots returns the approved and active bookings intersecting
// [from, to) on the vehicle; callers infer free slots as the complement.
func (s *bookingService) AvailableSlots(ctx context.Context, vehicleID string, from, to time.Time) ([]*model.Booking, error) {
	if vehicleID == "" {
		return nil, apperrors.InvalidInput("Vehicle ID cannot be empty")
	}
	if !to.After(from) {
		return nil, apperrors.InvalidInput("'to' must be after 'from'")
	}

	busy, err := s.repo.FindOverlapping(ctx, vehicleID, from, to, model.ApprovedStatuses, config.DefaultPaginationLimit)
	if err != nil {
		s.cfg.Log.Error("Failed to load vehicle availability", "vehicle_id", vehicleID, "error", err)
		return nil, apperrors.Internal("Failed to load availability", err)
	}
	return busy, nil
}

func (s *bookingService) UserHistory(ctx context.Context, actor model.Actor, userID string, from, to *time.Time, limit int, offset int64) ([]*model.Booking, int64, error) {
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("User ID cannot be empty")
	}
	if userID != actor.UserID && !actor.IsPlatformAdmin() {
		return nil, 0, apperrors.Forbidden("Users may only view their own booking history")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByRequester(ctx, userID, from, to)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count user history", "user_id", userID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByRequester(ctx, userID, from, to, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list user history", "user_id", userID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) GroupCalendar(ctx context.Context, actor model.Actor, groupID string, from, to *time.Time, limit int, offset int64) ([]*model.Booking, int64, error) {
	group, err := s.findGroup(ctx, groupID)
	if err != nil {
		return nil, 0, err
	}
	if !s.canView(actor, group) {
		return nil, 0, apperrors.Forbidden("Only group members may view the group calendar")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByGroup(ctx, groupID, from, to)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count group calendar", "group_id", groupID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByGroup(ctx, groupID, from, to, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list group calendar", "group_id", groupID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// --- Helpers ---

// resolve rebuilds the group's recent usage and scores self against every
// overlapping claim.
func (s *bookingService) resolve(ctx context.Context, group *model.OwnershipGroup, self scheduling.Candidate, overlapping []*model.Booking) (*scheduling.Resolution, error) {
	asOf := s.now()
	windowStart := asOf.Add(-s.cfg.UsageLookbackWindow)

	history, err := s.repo.FindEndingWithin(ctx, group.ID, windowStart, asOf, model.UsageStatuses)
	if err != nil {
		return nil, apperrors.Internal("Failed to load usage history", err)
	}
	usage := scheduling.AggregateUsage(history, asOf, s.cfg.UsageLookbackWindow)

	candidates := make([]scheduling.Candidate, 0, len(overlapping)+1)
	candidates = append(candidates, self)
	for _, b := range overlapping {
		candidates = append(candidates, scheduling.Candidate{
			BookingID: b.ID,
			UserID:    b.RequesterID,
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
			CreatedAt: b.CreatedAt,
			Existing:  true,
		})
	}

	resolution, err := s.resolver.Resolve(group, usage, candidates)
	if err != nil {
		return nil, apperrors.Internal("Failed to resolve booking conflict", err)
	}
	return resolution, nil
}

func (s *bookingService) conflictError(resolution *scheduling.Resolution) error {
	return apperrors.Conflict("Requested slot lost to a higher-priority claim").WithDetails(map[string]any{
		"winner":      resolution.Winner,
		"suggestions": resolution.Suggestions(s.cfg.SuggestionLimit),
	})
}

func excludeBooking(bookings []*model.Booking, id string) []*model.Booking {
	var out []*model.Booking
	for _, b := range bookings {
		if b.ID != id {
			out = append(out, b)
		}
	}
	return out
}

func (s *bookingService) canManage(actor model.Actor, group *model.OwnershipGroup, booking *model.Booking) bool {
	return actor.UserID == booking.RequesterID || group.IsAdmin(actor.UserID) || actor.IsPlatformAdmin()
}

func (s *bookingService) canView(actor model.Actor, group *model.OwnershipGroup) bool {
	if actor.IsPlatformAdmin() {
		return true
	}
	_, ok := group.Member(actor.UserID)
	return ok
}

func (s *bookingService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

func (s *bookingService) findGroup(ctx context.Context, id string) (*model.OwnershipGroup, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Group ID cannot be empty")
	}

	group, err := s.groups.FindGroupByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrGroupNotFound) {
			return nil, apperrors.NotFoundWithID("Ownership group", id)
		}
		return nil, apperrors.Internal("Failed to retrieve ownership group", err)
	}
	return group, nil
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.Notes = sanitizer.SanitizeNotes(b.Notes)
}

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.Status == "" {
		b.Status = model.StatusPending
	}
}

func (s *bookingService) mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.StartTime != nil {
		merged.StartTime = *updates.StartTime
	}
	if updates.EndTime != nil {
		merged.EndTime = *updates.EndTime
	}
	if updates.Notes != nil {
		merged.Notes = *updates.Notes
	}

	return &merged
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// publish emits lifecycle events best-effort: a broker outage never fails
// the booking operation.
func (s *bookingService) publish(ctx context.Context, booking *model.Booking, eventTypes ...string) {
	payload := events.BookingPayload{
		BookingID: booking.ID,
		UserID:    booking.RequesterID,
		GroupID:   booking.GroupID,
	}
	for _, eventType := range eventTypes {
		if err := s.publisher.Publish(ctx, eventType, payload); err != nil {
			s.cfg.Log.Warn("Failed to publish booking event",
				"event_type", eventType,
				"booking_id", booking.ID,
				"error", err,
			)
		}
	}
}

// acquireVehicleLock serializes conflict resolution per vehicle. The lock
// auto-expires via a TTL index so a crashed request cannot wedge bookings.
func (s *bookingService) acquireVehicleLock(ctx context.Context, vehicleID string) (string, error) {
	lockID := fmt.Sprintf("vehicle_lock_%s", vehicleID)

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.BookingLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("The vehicle is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire vehicle lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseVehicleLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

package service

import (
	"context"
	"errors"
	"sync"

	groupserrors "evshare/internal/groups/errors"
	"evshare/internal/groups/repository"
	"evshare/internal/groups/validator"
	"evshare/pkg/config"
	apperrors "evshare/pkg/errors"
	"evshare/pkg/model"
	"evshare/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type GroupService interface {
	Create(ctx context.Context, actor model.Actor, group *model.OwnershipGroup) error
	GetByID(ctx context.Context, actor model.Actor, id string) (*model.OwnershipGroup, error)
	List(ctx context.Context, actor model.Actor, limit int, offset int64) ([]*model.OwnershipGroup, int64, error)
	Update(ctx context.Context, actor model.Actor, id string, updates *model.OwnershipGroupUpdate) (*model.OwnershipGroup, error)
	Delete(ctx context.Context, actor model.Actor, id string) error
	AddMember(ctx context.Context, actor model.Actor, groupID string, member model.GroupMember) error
	UpdateMember(ctx context.Context, actor model.Actor, groupID, userID string, updates *model.GroupMemberUpdate) error
	RemoveMember(ctx context.Context, actor model.Actor, groupID, userID string) error
	AdjustFund(ctx context.Context, actor model.Actor, groupID string, deltaCents int64) error
}

type groupService struct {
	repo      repository.GroupRepository
	validator *validator.GroupValidator
	cfg       *config.Config
}

func NewGroupService(
	repo repository.GroupRepository,
	validator *validator.GroupValidator,
	cfg *config.Config,
) GroupService {
	return &groupService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

// Create persists a new ownership group. The creating actor must appear in
// the member list as an admin so every group starts with someone who can
// manage it.
func (s *groupService) Create(ctx context.Context, actor model.Actor, group *model.OwnershipGroup) error {
	s.sanitize(group)
	if err := s.validate(group); err != nil {
		return err
	}

	m, ok := group.Member(actor.UserID)
	if !ok || m.Role != model.RoleAdmin {
		return apperrors.InvalidInput("The creating user must be listed as a group admin")
	}

	if err := s.repo.Create(ctx, group); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("The vehicle already belongs to an ownership group")
		}
		s.cfg.Log.Error("Failed to create ownership group", "error", err)
		return apperrors.Internal("Failed to create ownership group", err)
	}

	s.warnUnderallocated(group)
	s.cfg.Log.Info("Ownership group created",
		"id", group.ID,
		"vehicle_id", group.VehicleID,
		"members", len(group.Members),
	)
	return nil
}

func (s *groupService) GetByID(ctx context.Context, actor model.Actor, id string) (*model.OwnershipGroup, error) {
	group, err := s.findGroup(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, ok := group.Member(actor.UserID); !ok && !actor.IsPlatformAdmin() {
		return nil, apperrors.Forbidden("Only group members may view this group")
	}

	return group, nil
}

// List returns the actor's groups; platform admins see every group.
func (s *groupService) List(ctx context.Context, actor model.Actor, limit int, offset int64) ([]*model.OwnershipGroup, int64, error) {
	var count int64
	var groups []*model.OwnershipGroup
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	all := actor.IsPlatformAdmin()

	go func() {
		defer wg.Done()
		if all {
			count, errCount = s.repo.Count(ctx)
		} else {
			count, errCount = s.repo.CountByMember(ctx, actor.UserID)
		}
		if errCount != nil {
			s.cfg.Log.Error("Failed to count ownership groups", "error", errCount)
			errCount = apperrors.Internal("Failed to count ownership groups", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		if all {
			groups, errFind = s.repo.FindAll(ctx, limit, offset)
		} else {
			groups, errFind = s.repo.FindByMember(ctx, actor.UserID, limit, offset)
		}
		if errFind != nil {
			s.cfg.Log.Error("Failed to list ownership groups", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve ownership groups", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return groups, count, nil
}

func (s *groupService) Update(ctx context.Context, actor model.Actor, id string, updates *model.OwnershipGroupUpdate) (*model.OwnershipGroup, error) {
	group, err := s.findGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canAdminister(actor, group) {
		return nil, apperrors.Forbidden("Only group admins may update the group")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	if updates.Name != "" {
		group.Name = sanitizer.SanitizeGroupName(updates.Name)
	}
	if updates.TimeZone != "" {
		group.TimeZone = updates.TimeZone
	}
	if err := s.validate(group); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, group); err != nil {
		if errors.Is(err, groupserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Ownership group", id)
		}
		return nil, apperrors.Internal("Failed to update ownership group", err)
	}

	s.cfg.Log.Info("Ownership group updated", "id", id, "actor", actor.UserID)
	return group, nil
}

func (s *groupService) Delete(ctx context.Context, actor model.Actor, id string) error {
	group, err := s.findGroup(ctx, id)
	if err != nil {
		return err
	}
	if !s.canAdminister(actor, group) {
		return apperrors.Forbidden("Only group admins may delete the group")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, groupserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Ownership group", id)
		}
		return apperrors.Internal("Failed to delete ownership group", err)
	}

	s.cfg.Log.Info("Ownership group deleted", "id", id, "actor", actor.UserID)
	return nil
}

// AddMember appends a member inside a transaction so concurrent membership
// changes cannot push the share total past 100.
func (s *groupService) AddMember(ctx context.Context, actor model.Actor, groupID string, member model.GroupMember) error {
	if err := s.validator.ValidateMember(&member); err != nil {
		return apperrors.Validation("Invalid member", map[string]any{"error": err.Error()})
	}

	return s.mutateMembers(ctx, actor, groupID, func(group *model.OwnershipGroup) error {
		if _, ok := group.Member(member.UserID); ok {
			return apperrors.Conflict("User is already a member of the group")
		}
		group.Members = append(group.Members, member)
		return nil
	})
}

func (s *groupService) UpdateMember(ctx context.Context, actor model.Actor, groupID, userID string, updates *model.GroupMemberUpdate) error {
	if err := s.validator.ValidateMemberUpdate(updates); err != nil {
		return apperrors.Validation("Invalid member update", map[string]any{"error": err.Error()})
	}

	return s.mutateMembers(ctx, actor, groupID, func(group *model.OwnershipGroup) error {
		m, ok := group.Member(userID)
		if !ok {
			return apperrors.NotFoundWithID("Group member", userID)
		}
		if updates.SharePercent != nil {
			m.SharePercent = *updates.SharePercent
		}
		if updates.Role != "" {
			m.Role = updates.Role
		}
		if countAdmins(group.Members) == 0 {
			return apperrors.Validation("A group must keep at least one admin", nil)
		}
		return nil
	})
}

func (s *groupService) RemoveMember(ctx context.Context, actor model.Actor, groupID, userID string) error {
	return s.mutateMembers(ctx, actor, groupID, func(group *model.OwnershipGroup) error {
		members := make([]model.GroupMember, 0, len(group.Members))
		found := false
		for _, m := range group.Members {
			if m.UserID == userID {
				found = true
				continue
			}
			members = append(members, m)
		}
		if !found {
			return apperrors.NotFoundWithID("Group member", userID)
		}
		if len(members) == 0 {
			return apperrors.Validation("A group cannot lose its last member", nil)
		}
		if countAdmins(members) == 0 {
			return apperrors.Validation("A group must keep at least one admin", nil)
		}
		group.Members = members
		return nil
	})
}

// AdjustFund credits or debits the common fund. Debits that would take the
// balance negative are rejected.
func (s *groupService) AdjustFund(ctx context.Context, actor model.Actor, groupID string, deltaCents int64) error {
	if deltaCents == 0 {
		return apperrors.InvalidInput("Fund adjustment cannot be zero")
	}

	return s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		group, err := s.findGroup(sessCtx, groupID)
		if err != nil {
			return err
		}
		if !s.canAdminister(actor, group) {
			return apperrors.Forbidden("Only group admins may adjust the fund")
		}
		if group.FundBalanceCents+deltaCents < 0 {
			return apperrors.Validation("Fund balance cannot go negative",
				map[string]any{"balance_cents": group.FundBalanceCents, "delta_cents": deltaCents})
		}

		if err := s.repo.AdjustFund(sessCtx, groupID, deltaCents); err != nil {
			return apperrors.Internal("Failed to adjust group fund", err)
		}

		s.cfg.Log.Info("Group fund adjusted", "id", groupID, "delta_cents", deltaCents, "actor", actor.UserID)
		return nil
	})
}

// --- Helpers ---

// mutateMembers runs a read-modify-write of the member list inside a
// transaction and re-validates the cross-member invariants before writing.
func (s *groupService) mutateMembers(ctx context.Context, actor model.Actor, groupID string, mutate func(group *model.OwnershipGroup) error) error {
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		group, err := s.findGroup(sessCtx, groupID)
		if err != nil {
			return err
		}
		if !s.canAdminister(actor, group) {
			return apperrors.Forbidden("Only group admins may manage members")
		}

		if err := mutate(group); err != nil {
			return err
		}

		if err := s.validator.ValidateMembers(group.Members); err != nil {
			return apperrors.Validation("Invalid member set", map[string]any{"error": err.Error()})
		}

		if err := s.repo.UpdateMembers(sessCtx, groupID, group.Members); err != nil {
			return apperrors.Internal("Failed to update group members", err)
		}

		s.warnUnderallocated(group)
		return nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Group members updated", "id", groupID, "actor", actor.UserID)
	return nil
}

func (s *groupService) canAdminister(actor model.Actor, group *model.OwnershipGroup) bool {
	return group.IsAdmin(actor.UserID) || actor.IsPlatformAdmin()
}

func (s *groupService) findGroup(ctx context.Context, id string) (*model.OwnershipGroup, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Group ID cannot be empty")
	}

	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, groupserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Ownership group", id)
		}
		if errors.Is(err, groupserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid group ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve ownership group", err)
	}
	return group, nil
}

func (s *groupService) sanitize(group *model.OwnershipGroup) {
	group.Name = sanitizer.SanitizeGroupName(group.Name)
}

func (s *groupService) validate(group *model.OwnershipGroup) error {
	if err := s.validator.Validate(group); err != nil {
		s.cfg.Log.Warn("Group validation failed", "error", err)
		return apperrors.Validation("Group validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// warnUnderallocated flags groups whose shares do not add up to 100; that is
// legal but usually a data-entry mistake worth surfacing.
func (s *groupService) warnUnderallocated(group *model.OwnershipGroup) {
	if total := group.TotalShares(); total < 100 {
		s.cfg.Log.Warn("Group shares sum below 100",
			"id", group.ID,
			"total_shares", total,
		)
	}
}

func countAdmins(members []model.GroupMember) int {
	var n int
	for _, m := range members {
		if m.Role == model.RoleAdmin {
			n++
		}
	}
	return n
}

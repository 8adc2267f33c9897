package service

import (
	"context"
	"io"
	"testing"
	"time"

	groupserrors "evshare/internal/groups/errors"
	"evshare/internal/groups/validator"
	"evshare/pkg/config"
	mongotx "evshare/pkg/db/mongo"
	apperrors "evshare/pkg/errors"
	"evshare/pkg/logger"
	"evshare/pkg/model"
)

const testGroupID = "507f1f77bcf86cd799439011"

type mockGroupRepo struct {
	createFn        func(ctx context.Context, group *model.OwnershipGroup) error
	findByIDFn      func(ctx context.Context, id string) (*model.OwnershipGroup, error)
	findAllFn       func(ctx context.Context, limit int, offset int64) ([]*model.OwnershipGroup, error)
	findByMemberFn  func(ctx context.Context, userID string, limit int, offset int64) ([]*model.OwnershipGroup, error)
	countFn         func(ctx context.Context) (int64, error)
	countByMemberFn func(ctx context.Context, userID string) (int64, error)
	updateFn        func(ctx context.Context, id string, group *model.OwnershipGroup) error
	updateMembersFn func(ctx context.Context, id string, members []model.GroupMember) error
	adjustFundFn    func(ctx context.Context, id string, deltaCents int64) error
	deleteFn        func(ctx context.Context, id string) error

	updateMembersCalls int
	adjustFundCalls    int
}

func (m *mockGroupRepo) Create(ctx context.Context, group *model.OwnershipGroup) error {
	if m.createFn != nil {
		return m.createFn(ctx, group)
	}
	group.ID = testGroupID
	return nil
}

func (m *mockGroupRepo) FindByID(ctx context.Context, id string) (*model.OwnershipGroup, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, groupserrors.ErrNotFound
}

func (m *mockGroupRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.OwnershipGroup, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockGroupRepo) FindByMember(ctx context.Context, userID string, limit int, offset int64) ([]*model.OwnershipGroup, error) {
	if m.findByMemberFn != nil {
		return m.findByMemberFn(ctx, userID, limit, offset)
	}
	return nil, nil
}

func (m *mockGroupRepo) Count(ctx context.Context) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func (m *mockGroupRepo) CountByMember(ctx context.Context, userID string) (int64, error) {
	if m.countByMemberFn != nil {
		return m.countByMemberFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockGroupRepo) Update(ctx context.Context, id string, group *model.OwnershipGroup) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, group)
	}
	return nil
}

func (m *mockGroupRepo) UpdateMembers(ctx context.Context, id string, members []model.GroupMember) error {
	m.updateMembersCalls++
	if m.updateMembersFn != nil {
		return m.updateMembersFn(ctx, id, members)
	}
	return nil
}

func (m *mockGroupRepo) AdjustFund(ctx context.Context, id string, deltaCents int64) error {
	m.adjustFundCalls++
	if m.adjustFundFn != nil {
		return m.adjustFundFn(ctx, id, deltaCents)
	}
	return nil
}

func (m *mockGroupRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockGroupRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (m *mockGroupRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

func newTestService(repo *mockGroupRepo) GroupService {
	cfg := &config.Config{
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		Log:          logger.New(logger.Config{Level: "error", Output: io.Discard}),
	}
	return NewGroupService(repo, validator.NewGroupValidator(cfg.Log), cfg)
}

func evGroup() *model.OwnershipGroup {
	return &model.OwnershipGroup{
		ID:               testGroupID,
		Name:             "Weekend EV",
		VehicleID:        "vehicle-1",
		FundBalanceCents: 5000,
		Members: []model.GroupMember{
			{UserID: "alice", SharePercent: 40, Role: model.RoleAdmin},
			{UserID: "bob", SharePercent: 30, Role: model.RoleMember},
		},
	}
}

func repoReturning(group *model.OwnershipGroup) *mockGroupRepo {
	return &mockGroupRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.OwnershipGroup, error) {
			return group, nil
		},
	}
}

func TestCreate(t *testing.T) {
	svc := newTestService(&mockGroupRepo{})

	group := evGroup()
	group.ID = ""
	if err := svc.Create(context.Background(), model.Actor{UserID: "alice"}, group); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if group.ID == "" {
		t.Error("expected group ID to be assigned")
	}
}

func TestCreateRequiresCreatorAdmin(t *testing.T) {
	svc := newTestService(&mockGroupRepo{})

	tests := []struct {
		name  string
		actor string
	}{
		{"creator not a member", "mallory"},
		{"creator not an admin", "bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group := evGroup()
			group.ID = ""
			err := svc.Create(context.Background(), model.Actor{UserID: tt.actor}, group)
			if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
				t.Errorf("error = %v, want invalid input", err)
			}
		})
	}
}

func TestCreateOverallocatedShares(t *testing.T) {
	svc := newTestService(&mockGroupRepo{})

	group := evGroup()
	group.ID = ""
	group.Members[0].SharePercent = 80
	group.Members[1].SharePercent = 30

	err := svc.Create(context.Background(), model.Actor{UserID: "alice"}, group)
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("error = %v, want validation", err)
	}
}

func TestGetByIDAuthorization(t *testing.T) {
	svc := newTestService(repoReturning(evGroup()))

	if _, err := svc.GetByID(context.Background(), model.Actor{UserID: "bob"}, testGroupID); err != nil {
		t.Errorf("member read failed: %v", err)
	}

	_, err := svc.GetByID(context.Background(), model.Actor{UserID: "mallory"}, testGroupID)
	if apperrors.AsAppError(err).Code != apperrors.CodeForbidden {
		t.Errorf("error = %v, want forbidden", err)
	}

	admin := model.Actor{UserID: "ops", Roles: []string{model.PlatformAdminRole}}
	if _, err := svc.GetByID(context.Background(), admin, testGroupID); err != nil {
		t.Errorf("platform admin read failed: %v", err)
	}
}

func TestListScopedToActor(t *testing.T) {
	var byMemberCalled, allCalled bool
	repo := &mockGroupRepo{
		findByMemberFn: func(ctx context.Context, userID string, limit int, offset int64) ([]*model.OwnershipGroup, error) {
			byMemberCalled = true
			return []*model.OwnershipGroup{evGroup()}, nil
		},
		countByMemberFn: func(ctx context.Context, userID string) (int64, error) {
			return 1, nil
		},
		findAllFn: func(ctx context.Context, limit int, offset int64) ([]*model.OwnershipGroup, error) {
			allCalled = true
			return []*model.OwnershipGroup{evGroup()}, nil
		},
	}
	svc := newTestService(repo)

	if _, _, err := svc.List(context.Background(), model.Actor{UserID: "bob"}, 10, 0); err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if !byMemberCalled || allCalled {
		t.Error("member listing should scope to the actor's groups")
	}

	allCalled = false
	admin := model.Actor{UserID: "ops", Roles: []string{model.PlatformAdminRole}}
	if _, _, err := svc.List(context.Background(), admin, 10, 0); err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if !allCalled {
		t.Error("platform admin listing should see all groups")
	}
}

func TestUpdateAdminOnly(t *testing.T) {
	svc := newTestService(repoReturning(evGroup()))

	_, err := svc.Update(context.Background(), model.Actor{UserID: "bob"}, testGroupID,
		&model.OwnershipGroupUpdate{Name: "Renamed"})
	if apperrors.AsAppError(err).Code != apperrors.CodeForbidden {
		t.Errorf("error = %v, want forbidden", err)
	}

	updated, err := svc.Update(context.Background(), model.Actor{UserID: "alice"}, testGroupID,
		&model.OwnershipGroupUpdate{Name: "Renamed"})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("name = %s, want Renamed", updated.Name)
	}
}

func TestAddMember(t *testing.T) {
	repo := repoReturning(evGroup())
	svc := newTestService(repo)

	err := svc.AddMember(context.Background(), model.Actor{UserID: "alice"}, testGroupID,
		model.GroupMember{UserID: "carol", SharePercent: 30, Role: model.RoleMember})
	if err != nil {
		t.Fatalf("AddMember() error: %v", err)
	}
	if repo.updateMembersCalls != 1 {
		t.Errorf("UpdateMembers called %d times, want 1", repo.updateMembersCalls)
	}
}

func TestAddMemberOverallocates(t *testing.T) {
	repo := repoReturning(evGroup())
	svc := newTestService(repo)

	// 40 + 30 existing; another 40 would push the total to 110.
	err := svc.AddMember(context.Background(), model.Actor{UserID: "alice"}, testGroupID,
		model.GroupMember{UserID: "carol", SharePercent: 40, Role: model.RoleMember})
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("error = %v, want validation", err)
	}
	if repo.updateMembersCalls != 0 {
		t.Error("members written despite invalid share total")
	}
}

func TestAddMemberDuplicate(t *testing.T) {
	svc := newTestService(repoReturning(evGroup()))

	err := svc.AddMember(context.Background(), model.Actor{UserID: "alice"}, testGroupID,
		model.GroupMember{UserID: "bob", SharePercent: 5, Role: model.RoleMember})
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("error = %v, want conflict", err)
	}
}

func TestRemoveMemberKeepsAdmin(t *testing.T) {
	repo := repoReturning(evGroup())
	svc := newTestService(repo)

	// Removing the only admin must fail.
	err := svc.RemoveMember(context.Background(), model.Actor{UserID: "alice"}, testGroupID, "alice")
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("error = %v, want validation", err)
	}

	if err := svc.RemoveMember(context.Background(), model.Actor{UserID: "alice"}, testGroupID, "bob"); err != nil {
		t.Errorf("RemoveMember() error: %v", err)
	}
}

func TestUpdateMemberShare(t *testing.T) {
	repo := repoReturning(evGroup())
	svc := newTestService(repo)

	newShare := 50.0
	err := svc.UpdateMember(context.Background(), model.Actor{UserID: "alice"}, testGroupID, "bob",
		&model.GroupMemberUpdate{SharePercent: &newShare})
	if err != nil {
		t.Fatalf("UpdateMember() error: %v", err)
	}

	tooMuch := 70.0
	err = svc.UpdateMember(context.Background(), model.Actor{UserID: "alice"}, testGroupID, "bob",
		&model.GroupMemberUpdate{SharePercent: &tooMuch})
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("error = %v, want validation", err)
	}
}

func TestAdjustFund(t *testing.T) {
	repo := repoReturning(evGroup())
	svc := newTestService(repo)

	if err := svc.AdjustFund(context.Background(), model.Actor{UserID: "alice"}, testGroupID, -3000); err != nil {
		t.Fatalf("AdjustFund() error: %v", err)
	}
	if repo.adjustFundCalls != 1 {
		t.Errorf("AdjustFund called %d times, want 1", repo.adjustFundCalls)
	}

	// Balance is 5000; a 6000 debit would go negative.
	err := svc.AdjustFund(context.Background(), model.Actor{UserID: "alice"}, testGroupID, -6000)
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("error = %v, want validation", err)
	}

	err = svc.AdjustFund(context.Background(), model.Actor{UserID: "bob"}, testGroupID, 1000)
	if apperrors.AsAppError(err).Code != apperrors.CodeForbidden {
		t.Errorf("error = %v, want forbidden", err)
	}

	err = svc.AdjustFund(context.Background(), model.Actor{UserID: "alice"}, testGroupID, 0)
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("error = %v, want invalid input", err)
	}
}

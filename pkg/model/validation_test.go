package model

import (
	"testing"
	"time"
)

func TestBooking_Duration(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	b := &Booking{StartTime: start, EndTime: start.Add(2 * time.Hour)}

	if got := b.Duration(); got != 2*time.Hour {
		t.Errorf("expected 2h, got %s", got)
	}
}

func TestBooking_IsTerminal(t *testing.T) {
	tests := []struct {
		status   string
		terminal bool
	}{
		{StatusPending, false},
		{StatusApproved, false},
		{StatusActive, false},
		{StatusCompleted, true},
		{StatusCancelled, true},
		{StatusRejected, true},
	}

	for _, tt := range tests {
		b := &Booking{Status: tt.status}
		if got := b.IsTerminal(); got != tt.terminal {
			t.Errorf("%s: expected terminal=%v, got %v", tt.status, tt.terminal, got)
		}
	}
}

func TestOwnershipGroup_Member(t *testing.T) {
	g := &OwnershipGroup{
		Members: []GroupMember{
			{UserID: "alice", SharePercent: 40, Role: RoleAdmin},
			{UserID: "bob", SharePercent: 30, Role: RoleMember},
		},
	}

	m, ok := g.Member("bob")
	if !ok {
		t.Fatal("expected bob to be a member")
	}
	if m.SharePercent != 30 {
		t.Errorf("expected share 30, got %g", m.SharePercent)
	}

	if _, ok := g.Member("carol"); ok {
		t.Error("expected carol to not be a member")
	}
}

func TestOwnershipGroup_IsAdmin(t *testing.T) {
	g := &OwnershipGroup{
		Members: []GroupMember{
			{UserID: "alice", Role: RoleAdmin},
			{UserID: "bob", Role: RoleMember},
		},
	}

	if !g.IsAdmin("alice") {
		t.Error("expected alice to be an admin")
	}
	if g.IsAdmin("bob") {
		t.Error("expected bob to not be an admin")
	}
	if g.IsAdmin("carol") {
		t.Error("expected non-member to not be an admin")
	}
}

func TestOwnershipGroup_TotalShares(t *testing.T) {
	g := &OwnershipGroup{
		Members: []GroupMember{
			{UserID: "alice", SharePercent: 40},
			{UserID: "bob", SharePercent: 30},
			{UserID: "carol", SharePercent: 30},
		},
	}

	if got := g.TotalShares(); got != 100 {
		t.Errorf("expected total 100, got %g", got)
	}
}

func TestActor_IsPlatformAdmin(t *testing.T) {
	admin := Actor{UserID: "ops-1", Roles: []string{"support", PlatformAdminRole}}
	if !admin.IsPlatformAdmin() {
		t.Error("expected platform admin role to be detected")
	}

	regular := Actor{UserID: "alice", Roles: []string{"user"}}
	if regular.IsPlatformAdmin() {
		t.Error("expected regular actor to not be a platform admin")
	}
}

package model

import "time"

// Group member roles.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// PlatformAdminRole marks operators who may act on any group. It arrives in
// the gateway-supplied identity, never in group membership.
const PlatformAdminRole = "platform_admin"

type GroupMember struct {
	UserID       string  `json:"user_id" bson:"user_id" validate:"required,min=1,max=64"`
	SharePercent float64 `json:"share_percent" bson:"share_percent" validate:"gte=0,lte=100"`
	Role         string  `json:"role" bson:"role" validate:"required,oneof=member admin"`
}

type OwnershipGroup struct {
	ID               string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name             string        `json:"name" bson:"name" validate:"required,min=2,max=100"`
	VehicleID        string        `json:"vehicle_id" bson:"vehicle_id" validate:"required,min=1,max=64"`
	Members          []GroupMember `json:"members" bson:"members" validate:"required,min=1,max=50,dive"`
	FundBalanceCents int64         `json:"fund_balance_cents" bson:"fund_balance_cents" validate:"gte=0"`
	TimeZone         string        `json:"time_zone,omitempty" bson:"time_zone" validate:"omitempty,timezone"`
	CreatedAt        time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Member returns the membership record for the given user, if any.
func (g *OwnershipGroup) Member(userID string) (*GroupMember, bool) {
	for i := range g.Members {
		if g.Members[i].UserID == userID {
			return &g.Members[i], true
		}
	}
	return nil, false
}

// IsAdmin reports whether the user holds the admin role within the group.
func (g *OwnershipGroup) IsAdmin(userID string) bool {
	m, ok := g.Member(userID)
	return ok && m.Role == RoleAdmin
}

// TotalShares sums all member ownership percentages.
func (g *OwnershipGroup) TotalShares() float64 {
	var total float64
	for _, m := range g.Members {
		total += m.SharePercent
	}
	return total
}

type OwnershipGroupUpdate struct {
	Name     string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	TimeZone string `json:"time_zone,omitempty" validate:"omitempty,timezone"`
}

type GroupMemberUpdate struct {
	SharePercent *float64 `json:"share_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	Role         string   `json:"role,omitempty" validate:"omitempty,oneof=member admin"`
}

// Actor is the authenticated identity the gateway attaches to each request.
// The services trust it completely and only perform group-level checks.
type Actor struct {
	UserID string
	Roles  []string
}

// IsPlatformAdmin reports whether the actor carries the platform operator role.
func (a Actor) IsPlatformAdmin() bool {
	for _, r := range a.Roles {
		if r == PlatformAdminRole {
			return true
		}
	}
	return false
}

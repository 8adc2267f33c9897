package scheduling

import (
	"testing"

	"evshare/pkg/model"
)

func testGroup() *model.OwnershipGroup {
	return &model.OwnershipGroup{
		ID:        "g1",
		Name:      "Weekend EV",
		VehicleID: "v1",
		Members: []model.GroupMember{
			{UserID: "alice", SharePercent: 40, Role: model.RoleAdmin},
			{UserID: "bob", SharePercent: 30, Role: model.RoleMember},
			{UserID: "carol", SharePercent: 30, Role: model.RoleMember},
		},
	}
}

func newTestResolver() *Resolver {
	return NewResolver(newTestPolicy())
}

func TestResolveHigherShareWins(t *testing.T) {
	// Bob holds an existing booking, Alice requests an overlapping slot.
	// With no usage on either side Alice's larger share decides it.
	resolver := newTestResolver()
	group := testGroup()

	candidates := []Candidate{
		{UserID: "alice", StartTime: ts(10), EndTime: ts(12), CreatedAt: ts(8)},
		{BookingID: "b1", UserID: "bob", StartTime: ts(9), EndTime: ts(11), CreatedAt: ts(7), Existing: true},
	}

	res, err := resolver.Resolve(group, UsageMap{}, candidates)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if res.Winner.UserID != "alice" {
		t.Errorf("winner = %s, want alice", res.Winner.UserID)
	}
	if len(res.Ranked) != 2 {
		t.Fatalf("expected 2 ranked candidates, got %d", len(res.Ranked))
	}
	if res.Ranked[0].Score <= res.Ranked[1].Score {
		t.Errorf("ranked list not descending: %v, %v", res.Ranked[0].Score, res.Ranked[1].Score)
	}
}

func TestResolveOveruseCollapsesFairness(t *testing.T) {
	resolver := newTestResolver()
	group := testGroup()
	asOf := ts(8)

	candidates := []Candidate{
		{UserID: "alice", StartTime: ts(10), EndTime: ts(12), CreatedAt: asOf},
		{BookingID: "b1", UserID: "bob", StartTime: ts(9), EndTime: ts(11), CreatedAt: ts(7), Existing: true},
	}

	noUsage, err := resolver.Resolve(group, UsageMap{}, candidates)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	// Bob consumed 20 hours over the window; his usage ratio hits 1.
	usage := UsageMap{
		"bob": {TotalHours: 20, Bookings: 3, DaysSinceLastBooking: 2},
	}
	withUsage, err := resolver.Resolve(group, usage, candidates)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if withUsage.Winner.UserID != "alice" {
		t.Fatalf("winner = %s, want alice", withUsage.Winner.UserID)
	}
	if withUsage.Ranked[0].Score <= withUsage.Ranked[1].Score {
		t.Errorf("alice should strictly outscore bob: %v vs %v",
			withUsage.Ranked[0].Score, withUsage.Ranked[1].Score)
	}

	// The margin must widen once bob's history counts against him.
	before := noUsage.Ranked[0].Score - noUsage.Ranked[1].Score
	after := withUsage.Ranked[0].Score - withUsage.Ranked[1].Score
	if after <= before {
		t.Errorf("score gap should grow with bob's usage: %v vs %v", after, before)
	}
}

func TestResolveWinnerHasMaxScore(t *testing.T) {
	resolver := newTestResolver()
	group := testGroup()
	usage := UsageMap{
		"alice": {TotalHours: 5, Bookings: 1, DaysSinceLastBooking: 3},
		"carol": {TotalHours: 15, Bookings: 2, DaysSinceLastBooking: 1},
	}

	candidates := []Candidate{
		{BookingID: "b1", UserID: "alice", StartTime: ts(9), EndTime: ts(12), CreatedAt: ts(6), Existing: true},
		{BookingID: "b2", UserID: "carol", StartTime: ts(10), EndTime: ts(14), CreatedAt: ts(7), Existing: true},
		{UserID: "bob", StartTime: ts(11), EndTime: ts(13), CreatedAt: ts(8)},
	}

	res, err := resolver.Resolve(group, usage, candidates)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	for _, c := range res.Ranked {
		if c.Score > res.Winner.Score {
			t.Errorf("candidate %s outscores winner: %v > %v", c.UserID, c.Score, res.Winner.Score)
		}
	}
	for i := 1; i < len(res.Ranked); i++ {
		if res.Ranked[i-1].Score < res.Ranked[i].Score {
			t.Errorf("ranked list not descending at %d", i)
		}
	}
}

func TestResolveTiebreakDeterministic(t *testing.T) {
	resolver := newTestResolver()
	group := &model.OwnershipGroup{
		ID:        "g1",
		VehicleID: "v1",
		Members: []model.GroupMember{
			{UserID: "alice", SharePercent: 50, Role: model.RoleMember},
			{UserID: "bob", SharePercent: 50, Role: model.RoleMember},
		},
	}

	// Equal shares, equal durations, no usage: scores tie exactly and the
	// earlier claim wins regardless of input order.
	a := Candidate{BookingID: "b1", UserID: "alice", StartTime: ts(9), EndTime: ts(11), CreatedAt: ts(6), Existing: true}
	b := Candidate{BookingID: "b2", UserID: "bob", StartTime: ts(10), EndTime: ts(12), CreatedAt: ts(7), Existing: true}

	res1, err := resolver.Resolve(group, UsageMap{}, []Candidate{a, b})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	res2, err := resolver.Resolve(group, UsageMap{}, []Candidate{b, a})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if res1.Winner.UserID != "alice" || res2.Winner.UserID != "alice" {
		t.Errorf("tie should break on earlier CreatedAt: got %s and %s",
			res1.Winner.UserID, res2.Winner.UserID)
	}
}

func TestResolveNonMemberScoresZeroShare(t *testing.T) {
	resolver := newTestResolver()
	group := testGroup()

	candidates := []Candidate{
		{UserID: "mallory", StartTime: ts(10), EndTime: ts(12), CreatedAt: ts(8)},
		{BookingID: "b1", UserID: "bob", StartTime: ts(9), EndTime: ts(11), CreatedAt: ts(7), Existing: true},
	}

	res, err := resolver.Resolve(group, UsageMap{}, candidates)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if res.Winner.UserID != "bob" {
		t.Errorf("member should beat non-member: winner = %s", res.Winner.UserID)
	}
}

func TestResolveEmptyCandidates(t *testing.T) {
	resolver := newTestResolver()
	if _, err := resolver.Resolve(testGroup(), UsageMap{}, nil); err == nil {
		t.Error("expected error for empty candidate list")
	}
}

func TestResolutionSuggestions(t *testing.T) {
	res := &Resolution{
		Ranked: []Candidate{
			{UserID: "a"}, {UserID: "b"}, {UserID: "c"}, {UserID: "d"},
		},
	}

	if got := res.Suggestions(3); len(got) != 3 {
		t.Errorf("Suggestions(3) returned %d entries", len(got))
	}
	if got := res.Suggestions(0); len(got) != 4 {
		t.Errorf("Suggestions(0) returned %d entries, want all", len(got))
	}
	if got := res.Suggestions(10); len(got) != 4 {
		t.Errorf("Suggestions(10) returned %d entries, want all", len(got))
	}
}

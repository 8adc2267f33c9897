package scheduling

import (
	"fmt"
	"sort"
	"time"

	"evshare/pkg/model"
)

// Candidate is one claim on a disputed time range: either the incoming
// request or an existing booking it collides with. A new request has no
// BookingID yet and Existing is false.
type Candidate struct {
	BookingID string    `json:"booking_id,omitempty"`
	UserID    string    `json:"user_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
	Existing  bool      `json:"existing"`
	Score     float64   `json:"score"`
}

// Resolution is the outcome of scoring a conflict set. Ranked is ordered
// best-first and always includes the winner at index 0.
type Resolution struct {
	Winner Candidate
	Ranked []Candidate
}

// Resolver scores competing claims with the configured policy and picks a
// winner deterministically.
type Resolver struct {
	policy ScoringPolicy
}

func NewResolver(policy ScoringPolicy) *Resolver {
	return &Resolver{policy: policy}
}

// Resolve scores every candidate against the group's membership and usage
// history, then orders them best-first. Ties break on earliest CreatedAt,
// then booking ID, then user ID, so two replays of the same conflict always
// agree. Claimants who are not group members score with a zero share.
func (r *Resolver) Resolve(group *model.OwnershipGroup, usage UsageMap, candidates []Candidate) (*Resolution, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no candidates to resolve")
	}

	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)

	for i := range ranked {
		member := model.GroupMember{UserID: ranked[i].UserID}
		if m, ok := group.Member(ranked[i].UserID); ok {
			member = *m
		}
		ranked[i].Score = r.policy.Score(member, usage, ranked[i].EndTime.Sub(ranked[i].StartTime))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return rankBefore(ranked[i], ranked[j])
	})

	return &Resolution{
		Winner: ranked[0],
		Ranked: ranked,
	}, nil
}

// Suggestions returns up to limit ranked candidates for presenting
// alternatives to a losing requester. A limit <= 0 returns the full list.
func (r *Resolution) Suggestions(limit int) []Candidate {
	if limit <= 0 || limit >= len(r.Ranked) {
		return r.Ranked
	}
	return r.Ranked[:limit]
}

func rankBefore(a, b Candidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	if a.BookingID != b.BookingID {
		return a.BookingID < b.BookingID
	}
	return a.UserID < b.UserID
}

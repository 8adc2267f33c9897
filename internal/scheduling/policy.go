package scheduling

import (
	"time"

	"evshare/pkg/model"
)

// ScoringPolicy assigns a priority score to a member's claim on a disputed
// time range. Higher scores win. Implementations must be deterministic:
// the same inputs always produce the same score.
type ScoringPolicy interface {
	Name() string
	Score(member model.GroupMember, usage UsageMap, claimed time.Duration) float64
}

// Weights are the component weights of the weighted fairness score.
type Weights struct {
	Fairness      float64
	Recency       float64
	Share         float64
	LengthPenalty float64
}

// DefaultWeights returns the production weighting. Fairness dominates so
// under-served members win; the length penalty keeps marathon claims from
// crowding everyone else out.
func DefaultWeights() Weights {
	return Weights{
		Fairness:      0.45,
		Recency:       0.25,
		Share:         0.20,
		LengthPenalty: 0.10,
	}
}

// WeightedFairnessPolicy scores claims by comparing each member's ownership
// share against their actual slice of recent usage, rewarding members who
// have gone longest without the vehicle and penalizing long claims.
type WeightedFairnessPolicy struct {
	weights            Weights
	lookback           time.Duration
	referenceTripHours float64
}

func NewWeightedFairnessPolicy(weights Weights, lookback time.Duration, referenceTripHours float64) *WeightedFairnessPolicy {
	if referenceTripHours <= 0 {
		referenceTripHours = 1
	}
	return &WeightedFairnessPolicy{
		weights:            weights,
		lookback:           lookback,
		referenceTripHours: referenceTripHours,
	}
}

func (p *WeightedFairnessPolicy) Name() string {
	return "weighted_fairness"
}

func (p *WeightedFairnessPolicy) Score(member model.GroupMember, usage UsageMap, claimed time.Duration) float64 {
	share := member.SharePercent / 100

	totalHours := usage.TotalHours()
	if totalHours == 0 {
		totalHours = 1
	}

	me := usage.For(member.UserID, p.lookback)
	usageRatio := me.TotalHours / totalHours

	// Positive when the member has consumed less than their share entitles
	// them to, negative when they are over-served.
	fairness := share - usageRatio

	lookbackDays := p.lookback.Hours() / 24
	if lookbackDays <= 0 {
		lookbackDays = 1
	}
	recency := clamp01(me.DaysSinceLastBooking / lookbackDays)

	lengthPenalty := clamp01(claimed.Hours() / p.referenceTripHours)

	return p.weights.Fairness*fairness +
		p.weights.Recency*recency +
		p.weights.Share*share -
		p.weights.LengthPenalty*lengthPenalty
}

// SimpleOwnershipPolicy ranks claims by ownership share alone, minus one
// point per booking the member already holds in the window. Groups that
// want plain "biggest stake wins" semantics opt into this via config.
type SimpleOwnershipPolicy struct {
	lookback time.Duration
}

func NewSimpleOwnershipPolicy(lookback time.Duration) *SimpleOwnershipPolicy {
	return &SimpleOwnershipPolicy{lookback: lookback}
}

func (p *SimpleOwnershipPolicy) Name() string {
	return "simple_ownership"
}

func (p *SimpleOwnershipPolicy) Score(member model.GroupMember, usage UsageMap, claimed time.Duration) float64 {
	me := usage.For(member.UserID, p.lookback)
	return member.SharePercent - float64(me.Bookings)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

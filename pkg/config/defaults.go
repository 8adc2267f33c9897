package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "evshare"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100

	// Scheduling policy names.
	PolicyWeightedFairness = "weighted_fairness"
	PolicySimpleOwnership  = "simple_ownership"

	DefaultSchedulingPolicy = PolicyWeightedFairness

	// Fairness scoring defaults. The weights are a product policy choice and
	// changing them changes who wins contested slots.
	DefaultUsageLookbackWindow = 30 * 24 * time.Hour
	DefaultFairnessWeight      = 0.45
	DefaultRecencyWeight       = 0.25
	DefaultShareWeight         = 0.20
	DefaultLengthPenaltyWeight = 0.10
	DefaultReferenceTripHours  = 8.0

	DefaultSuggestionLimit = 3
	DefaultBookingLockTTL  = 10 * time.Second
	DefaultMaxOverlapCheck = 50
)

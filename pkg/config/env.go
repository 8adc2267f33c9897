package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvSchedulingPolicy    = "SCHEDULING_POLICY"
	EnvUsageLookbackWindow = "USAGE_LOOKBACK_WINDOW"
	EnvFairnessWeight      = "FAIRNESS_WEIGHT"
	EnvRecencyWeight       = "RECENCY_WEIGHT"
	EnvShareWeight         = "SHARE_WEIGHT"
	EnvLengthPenaltyWeight = "LENGTH_PENALTY_WEIGHT"
	EnvReferenceTripHours  = "REFERENCE_TRIP_HOURS"
	EnvSuggestionLimit     = "SUGGESTION_LIMIT"
	EnvBookingLockTTL      = "BOOKING_LOCK_TTL"
	EnvMaxOverlapCheck     = "MAX_OVERLAP_CHECK"
)

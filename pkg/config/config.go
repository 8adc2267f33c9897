package config

import (
	"evshare/pkg/client"
	"evshare/pkg/logger"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	SchedulingPolicy    string
	UsageLookbackWindow time.Duration
	FairnessWeight      float64
	RecencyWeight       float64
	ShareWeight         float64
	LengthPenaltyWeight float64
	ReferenceTripHours  float64
	SuggestionLimit     int
	BookingLockTTL      time.Duration
	MaxOverlapCheck     int

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		SchedulingPolicy:    getEnvStr(EnvSchedulingPolicy, DefaultSchedulingPolicy),
		UsageLookbackWindow: getEnvDuration(EnvUsageLookbackWindow, DefaultUsageLookbackWindow),
		FairnessWeight:      getEnvFloat(EnvFairnessWeight, DefaultFairnessWeight),
		RecencyWeight:       getEnvFloat(EnvRecencyWeight, DefaultRecencyWeight),
		ShareWeight:         getEnvFloat(EnvShareWeight, DefaultShareWeight),
		LengthPenaltyWeight: getEnvFloat(EnvLengthPenaltyWeight, DefaultLengthPenaltyWeight),
		ReferenceTripHours:  getEnvFloat(EnvReferenceTripHours, DefaultReferenceTripHours),
		SuggestionLimit:     getEnvNum(EnvSuggestionLimit, DefaultSuggestionLimit),
		BookingLockTTL:      getEnvDuration(EnvBookingLockTTL, DefaultBookingLockTTL),
		MaxOverlapCheck:     getEnvNum(EnvMaxOverlapCheck, DefaultMaxOverlapCheck),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.New(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		problems = append(problems, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		problems = append(problems, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		problems = append(problems, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	for name, d := range map[string]time.Duration{
		"RateLimitWindow": cfg.RateLimitWindow,
		"RequestTimeout":  cfg.RequestTimeout,
		"IdempotencyTTL":  cfg.IdempotencyTTL,
		"ReadTimeout":     cfg.ReadTimeout,
		"WriteTimeout":    cfg.WriteTimeout,
		"IdleTimeout":     cfg.IdleTimeout,
		"ShutdownTimeout": cfg.ShutdownTimeout,
		"BookingLockTTL":  cfg.BookingLockTTL,
	} {
		if d <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive, got: %s", name, d))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		problems = append(problems, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		problems = append(problems, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.SchedulingPolicy != PolicyWeightedFairness && cfg.SchedulingPolicy != PolicySimpleOwnership {
		problems = append(problems, fmt.Sprintf("SchedulingPolicy must be %q or %q, got: %s",
			PolicyWeightedFairness, PolicySimpleOwnership, cfg.SchedulingPolicy))
	}
	if cfg.UsageLookbackWindow < 24*time.Hour {
		problems = append(problems, fmt.Sprintf("UsageLookbackWindow must be at least 24h, got: %s", cfg.UsageLookbackWindow))
	}
	for name, w := range map[string]float64{
		"FairnessWeight":      cfg.FairnessWeight,
		"RecencyWeight":       cfg.RecencyWeight,
		"ShareWeight":         cfg.ShareWeight,
		"LengthPenaltyWeight": cfg.LengthPenaltyWeight,
	} {
		if w < 0 || w > 1 {
			problems = append(problems, fmt.Sprintf("%s must be in [0, 1], got: %g", name, w))
		}
	}
	if cfg.ReferenceTripHours <= 0 {
		problems = append(problems, fmt.Sprintf("ReferenceTripHours must be positive, got: %g", cfg.ReferenceTripHours))
	}
	if cfg.SuggestionLimit <= 0 {
		problems = append(problems, fmt.Sprintf("SuggestionLimit must be positive, got: %d", cfg.SuggestionLimit))
	}
	if cfg.MaxOverlapCheck <= 0 {
		problems = append(problems, fmt.Sprintf("MaxOverlapCheck must be positive, got: %d", cfg.MaxOverlapCheck))
	}

	if len(problems) > 0 {
		msg := "Configuration validation failed:\n"
		for i, p := range problems {
			msg += fmt.Sprintf("  %d. %s\n", i+1, p)
		}
		return fmt.Errorf("%s", msg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"scheduling_policy", cfg.SchedulingPolicy,
		"usage_lookback_window", cfg.UsageLookbackWindow,
		"fairness_weight", cfg.FairnessWeight,
		"recency_weight", cfg.RecencyWeight,
		"share_weight", cfg.ShareWeight,
		"length_penalty_weight", cfg.LengthPenaltyWeight,
		"reference_trip_hours", cfg.ReferenceTripHours,
		"suggestion_limit", cfg.SuggestionLimit,
		"booking_lock_ttl", cfg.BookingLockTTL,
		"max_overlap_check", cfg.MaxOverlapCheck,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}

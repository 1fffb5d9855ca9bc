package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultAppName         = "RechargeX"
	defaultAppEnv          = "development"
	defaultPort            = "5002"
	defaultLogLevel        = "info"
	defaultShutdownDelay   = 10 * time.Second
	defaultIdempotencyTTL  = 24 * time.Hour
	defaultSessionTTL      = 30 * 24 * time.Hour
	defaultPlanCacheTTL    = 10 * time.Minute
	defaultLoginRateLimit  = 5
	defaultAllowedOrigins  = "http://localhost:3004,http://localhost:5173"
	defaultFirebaseJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
	defaultOperator        = "Unknown"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName           string
	Env               string
	Port              string
	LogLevel          string
	DatabaseURL       string
	RedisURL          string
	AMQPURL           string
	JWTSecret         string
	SessionTTL        time.Duration
	FirebaseProjectID string
	FirebaseJWKSURL   string
	ShutdownPeriod    time.Duration
	IdempotencyTTL    time.Duration
	PlanCacheTTL      time.Duration
	AllowedOrigins    []string
	DefaultOperator   string
	StrictMobile      bool
	AdminKeyHash      string
	LoginRateLimit    int
	AutoMigrate       bool
	SeedPlans         bool
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", defaultAppName)
	v.SetDefault("APP_ENV", defaultAppEnv)
	v.SetDefault("PORT", defaultPort)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)
	v.SetDefault("SESSION_TTL", defaultSessionTTL.String())
	v.SetDefault("FIREBASE_JWKS_URL", defaultFirebaseJWKSURL)
	v.SetDefault(shutdownDurationEnvVar, defaultShutdownDelay.String())
	v.SetDefault("IDEMPOTENCY_TTL", defaultIdempotencyTTL.String())
	v.SetDefault("PLAN_CACHE_TTL", defaultPlanCacheTTL.String())
	v.SetDefault("ALLOWED_ORIGINS", defaultAllowedOrigins)
	v.SetDefault("DEFAULT_OPERATOR", defaultOperator)
	v.SetDefault("STRICT_MOBILE", false)
	v.SetDefault("LOGIN_RATE_LIMIT", defaultLoginRateLimit)
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("SEED_PLANS", false)

	cfg := Config{
		AppName:           v.GetString("APP_NAME"),
		Env:               strings.ToLower(v.GetString("APP_ENV")),
		Port:              v.GetString("PORT"),
		LogLevel:          strings.ToLower(v.GetString("LOG_LEVEL")),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		RedisURL:          v.GetString("REDIS_URL"),
		AMQPURL:           v.GetString("AMQP_URL"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		FirebaseProjectID: v.GetString("FIREBASE_PROJECT_ID"),
		FirebaseJWKSURL:   v.GetString("FIREBASE_JWKS_URL"),
		AllowedOrigins:    splitList(v.GetString("ALLOWED_ORIGINS")),
		DefaultOperator:   v.GetString("DEFAULT_OPERATOR"),
		StrictMobile:      v.GetBool("STRICT_MOBILE"),
		AdminKeyHash:      v.GetString("ADMIN_KEY_HASH"),
		LoginRateLimit:    v.GetInt("LOGIN_RATE_LIMIT"),
		AutoMigrate:       v.GetBool("AUTO_MIGRATE"),
		SeedPlans:         v.GetBool("SEED_PLANS"),
	}

	var err error
	if cfg.SessionTTL, err = duration(v, "SESSION_TTL"); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = duration(v, "IDEMPOTENCY_TTL"); err != nil {
		return Config{}, err
	}
	if cfg.PlanCacheTTL, err = duration(v, "PLAN_CACHE_TTL"); err != nil {
		return Config{}, err
	}

	if v.IsSet(shutdownSecondsEnvVar) {
		seconds := v.GetInt(shutdownSecondsEnvVar)
		if seconds <= 0 {
			return Config{}, fmt.Errorf("invalid %s: %q", shutdownSecondsEnvVar, v.GetString(shutdownSecondsEnvVar))
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if cfg.ShutdownPeriod, err = duration(v, shutdownDurationEnvVar); err != nil {
		return Config{}, err
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}
	if cfg.FirebaseProjectID == "" {
		return Config{}, fmt.Errorf("FIREBASE_PROJECT_ID must be set")
	}

	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.Env)
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.Env)
		}
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the service runs in a local development environment.
func (c Config) IsDev() bool {
	switch c.Env {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

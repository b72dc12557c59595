package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                    string
	DatabaseURL             string
	JWTSecret               string
	DataEncryptionKey       string
	Environment             string
	MigrationsDir           string
	SeedAdminEmail          string
	SeedAdminPassword       string
	EmailFrom               string
	EmailEnabled            bool
	SMTPHost                string
	SMTPPort                int
	SMTPUser                string
	SMTPPassword            string
	SMTPUseTLS              bool
	RunMigrations           bool
	RunSeed                 bool
	MaxBodyBytes            int64
	MaxUploadBytes          int64
	RateLimitPerMinute      int
	SnapshotRefreshInterval time.Duration
	IntegritySweepInterval  time.Duration
	PayrollChunkSize        int
	TransferListLimit       int
	FailedLoginThreshold    int
	FailedLoginWindow       time.Duration
	GeofenceLat             float64
	GeofenceLng             float64
	GeofenceRadiusMeters    float64
	OfficeWifiSSIDs         []string
	MetricsEnabled          bool
}

// Load reads an optional .env file and then the process environment.
// Unparseable values fall back to their defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("dotenv load failed", "err", err)
	}
	return Config{
		Addr:                    env("APP_ADDR", ":8080", parseString),
		DatabaseURL:             env("DATABASE_URL", "", parseString),
		JWTSecret:               env("JWT_SECRET", "", parseString),
		DataEncryptionKey:       env("DATA_ENCRYPTION_KEY", "", parseString),
		Environment:             env("APP_ENV", "development", parseString),
		MigrationsDir:           env("MIGRATIONS_DIR", "migrations", parseString),
		SeedAdminEmail:          env("SEED_ADMIN_EMAIL", "", parseString),
		SeedAdminPassword:       env("SEED_ADMIN_PASSWORD", "", parseString),
		EmailFrom:               env("EMAIL_FROM", "no-reply@example.com", parseString),
		EmailEnabled:            env("EMAIL_ENABLED", false, strconv.ParseBool),
		SMTPHost:                env("SMTP_HOST", "", parseString),
		SMTPPort:                env("SMTP_PORT", 587, strconv.Atoi),
		SMTPUser:                env("SMTP_USER", "", parseString),
		SMTPPassword:            env("SMTP_PASSWORD", "", parseString),
		SMTPUseTLS:              env("SMTP_USE_TLS", true, strconv.ParseBool),
		RunMigrations:           env("RUN_MIGRATIONS", true, strconv.ParseBool),
		RunSeed:                 env("RUN_SEED", true, strconv.ParseBool),
		MaxBodyBytes:            env("MAX_BODY_BYTES", int64(1<<20), parseInt64),
		MaxUploadBytes:          env("MAX_UPLOAD_BYTES", int64(20<<20), parseInt64),
		RateLimitPerMinute:      env("RATE_LIMIT_PER_MINUTE", 120, strconv.Atoi),
		SnapshotRefreshInterval: env("SNAPSHOT_REFRESH_INTERVAL", 5*time.Minute, time.ParseDuration),
		IntegritySweepInterval:  env("INTEGRITY_SWEEP_INTERVAL", 24*time.Hour, time.ParseDuration),
		PayrollChunkSize:        env("PAYROLL_CHUNK_SIZE", 500, strconv.Atoi),
		TransferListLimit:       env("TRANSFER_LIST_LIMIT", 20, strconv.Atoi),
		FailedLoginThreshold:    env("FAILED_LOGIN_THRESHOLD", 3, strconv.Atoi),
		FailedLoginWindow:       env("FAILED_LOGIN_WINDOW", 15*time.Minute, time.ParseDuration),
		GeofenceLat:             env("GEOFENCE_LAT", 30.0444, parseFloat),
		GeofenceLng:             env("GEOFENCE_LNG", 31.2357, parseFloat),
		GeofenceRadiusMeters:    env("GEOFENCE_RADIUS_METERS", 200.0, parseFloat),
		OfficeWifiSSIDs:         env("OFFICE_WIFI_SSIDS", nil, parseList),
		MetricsEnabled:          env("METRICS_ENABLED", true, strconv.ParseBool),
	}
}

func env[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := parse(raw)
	if err != nil {
		slog.Warn("ignoring malformed setting", "key", key, "err", err)
		return fallback
	}
	return value
}

func parseString(raw string) (string, error) { return raw, nil }

func parseInt64(raw string) (int64, error) { return strconv.ParseInt(raw, 10, 64) }

func parseFloat(raw string) (float64, error) { return strconv.ParseFloat(raw, 64) }

func parseList(raw string) ([]string, error) {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out, nil
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error
	check := func(bad bool, msg string) {
		if bad {
			errs = append(errs, errors.New(msg))
		}
	}
	blank := func(s string) bool { return strings.TrimSpace(s) == "" }

	check(blank(c.DatabaseURL), "DATABASE_URL is required")
	if c.Environment == "production" {
		check(blank(c.JWTSecret), "JWT_SECRET must be set to a strong value in production")
		check(blank(c.DataEncryptionKey), "DATA_ENCRYPTION_KEY must be set in production for encryption at rest")
		check(c.RunSeed && blank(c.SeedAdminPassword), "SEED_ADMIN_PASSWORD must be changed or RUN_SEED disabled in production")
	}
	check(c.MaxBodyBytes < 1024, "MAX_BODY_BYTES must be at least 1024")
	check(c.RateLimitPerMinute <= 0, "RATE_LIMIT_PER_MINUTE must be positive")
	check(c.PayrollChunkSize <= 0, "PAYROLL_CHUNK_SIZE must be positive")
	check(c.TransferListLimit <= 0, "TRANSFER_LIST_LIMIT must be positive")
	check(c.EmailEnabled && blank(c.SMTPHost), "SMTP_HOST must be set when EMAIL_ENABLED is true")
	return errors.Join(errs...)
}

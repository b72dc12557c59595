package config

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hrdash")
	t.Setenv("OFFICE_WIFI_SSIDS", "HQ-Staff, HQ-Guest ,")

	cfg := Load()
	assert.Equal(t, 5*time.Minute, cfg.SnapshotRefreshInterval)
	assert.Equal(t, 500, cfg.PayrollChunkSize)
	assert.Equal(t, 20, cfg.TransferListLimit)
	assert.Equal(t, []string{"HQ-Staff", "HQ-Guest"}, cfg.OfficeWifiSSIDs)
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsMissingDatabase(t *testing.T) {
	cfg := Config{MaxBodyBytes: 4096, RateLimitPerMinute: 10, PayrollChunkSize: 500, TransferListLimit: 20}
	assert.Error(t, cfg.Validate())
}

func TestValidateProductionRequiresSecrets(t *testing.T) {
	cfg := Config{
		DatabaseURL:        "postgres://db",
		Environment:        "production",
		MaxBodyBytes:       4096,
		RateLimitPerMinute: 10,
		PayrollChunkSize:   500,
		TransferListLimit:  20,
	}
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")

	cfg.JWTSecret = "secret"
	assert.ErrorContains(t, cfg.Validate(), "DATA_ENCRYPTION_KEY")
}

func TestEnvFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SNAPSHOT_REFRESH_INTERVAL", "soon")
	t.Setenv("PAYROLL_CHUNK_SIZE", " 250 ")
	assert.Equal(t, time.Minute, env("SNAPSHOT_REFRESH_INTERVAL", time.Minute, time.ParseDuration))
	assert.Equal(t, 250, env("PAYROLL_CHUNK_SIZE", 500, strconv.Atoi))
}

func TestValidateReportsAllProblems(t *testing.T) {
	err := Config{}.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "DATABASE_URL")
	assert.ErrorContains(t, err, "MAX_BODY_BYTES")
	assert.ErrorContains(t, err, "PAYROLL_CHUNK_SIZE")
}

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("OTP_TTL_MINUTES", "")
	cfg := Load()

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, 10, cfg.OTPTTLMinutes)
	require.Equal(t, 168, cfg.JWTExpireHours)
	require.True(t, cfg.ExposeOTPCode)
	require.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("OTP_TTL_MINUTES", "15")
	t.Setenv("SCORER_TIMEOUT_SECONDS", "not-a-number")
	cfg := Load()

	require.True(t, cfg.IsProduction())
	require.False(t, cfg.ExposeOTPCode)
	require.Equal(t, 15, cfg.OTPTTLMinutes)
	require.Equal(t, 5, cfg.ScorerTimeoutSeconds)
}

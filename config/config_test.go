package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarujar/kantalakyykka/scoring"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/kyykka_test?sslmode=disable")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("SCORE_UNUSED_THROW_VALUE", "")
	t.Setenv("SCORE_DERIVE_TEAM_SCORES", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.LogoStorageConfigured())

	rules := cfg.Rules()
	assert.Equal(t, scoring.DefaultUnusedThrowScore, rules.UnusedThrowScore)
	assert.False(t, rules.DeriveTeamScores)
	assert.Equal(t, scoring.DefaultSingleThrowMin, rules.SingleThrowMin)
	assert.Equal(t, scoring.DefaultSingleThrowMax, rules.SingleThrowMax)
}

func TestLoadScoringOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/kyykka_test?sslmode=disable")
	t.Setenv("SCORE_UNUSED_THROW_VALUE", "0")
	t.Setenv("SCORE_DERIVE_TEAM_SCORES", "true")

	cfg, err := Load()
	require.NoError(t, err)

	rules := cfg.Rules()
	assert.Equal(t, 0, rules.UnusedThrowScore)
	assert.True(t, rules.DeriveTeamScores)
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/kyykka_test?sslmode=disable")

	for _, port := range []string{"abc", "0", "70000"} {
		t.Setenv("SERVER_PORT", port)
		_, err := Load()
		assert.Error(t, err, "port %q", port)
	}
}

func TestLoadCORSOrigins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/kyykka_test?sslmode=disable")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://kyykka.example, https://admin.kyykka.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://kyykka.example", "https://admin.kyykka.example"}, cfg.CORSAllowedOrigins)
}

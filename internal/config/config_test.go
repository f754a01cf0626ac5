package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talentflow/internal/ranking"
	"github.com/jonathan/talentflow/internal/scheduling"
)

func loadDefaults(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(NewViper())
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadDefaults(t)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "uploads", cfg.Uploads.Dir)
	assert.Equal(t, int64(16<<20), cfg.Uploads.MaxBytes)
	assert.Equal(t, 24, cfg.Auth.JWTExpirationHours)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 60, cfg.Interview.DurationMinutes)
	assert.Equal(t, ranking.DefaultConfig(), cfg.RankingConfig())
	assert.Equal(t, scheduling.DefaultOptions(), cfg.SchedulingOptions())
	assert.NoError(t, cfg.Validate(0))
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("TALENTFLOW_SERVER_PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://alias")
	t.Setenv("JWT_SECRET", "alias-secret-value-123")
	t.Setenv("TALENTFLOW_AUTH_JWT_SECRET", "prefixed-secret-value-123")
	t.Setenv("TALENTFLOW_RANKING_THRESHOLDS_STRONG", "80")
	t.Setenv("TALENTFLOW_AUTH_PASSWORD_PEPPER", "pepper")

	cfg := loadDefaults(t)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres://alias", cfg.Database.URL)
	assert.Equal(t, "prefixed-secret-value-123", cfg.Auth.JWTSecret)
	assert.Equal(t, 80.0, cfg.Ranking.Thresholds.Strong)
	assert.Equal(t, "pepper", cfg.Auth.PasswordPepper)
	assert.NoError(t, cfg.Validate(RequireDatabase|RequireAuth))
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "talentflow.yaml")
	content := `
company:
  name: Acme
ranking:
  weights:
    skills_match: 0.5
    experience_relevance: 0.25
    education_match: 0.25
    overall_fit: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := NewViper()
	require.NoError(t, ReadFile(v, path))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "Acme", cfg.Company.Name)
	assert.Equal(t, 0.5, cfg.RankingConfig().Weights.SkillsMatch)
	assert.Equal(t, 0.0, cfg.RankingConfig().Weights.OverallFit)
	assert.NoError(t, cfg.Validate(0))
}

func TestReadFile_MissingExplicitPath(t *testing.T) {
	err := ReadFile(NewViper(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		req    Requirement
	}{
		{"missing database", func(*Config) {}, RequireDatabase},
		{"missing secret", func(*Config) {}, RequireAuth},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, 0},
		{"weights off", func(c *Config) { c.Ranking.Weights.OverallFit = 0.5 }, 0},
		{"thresholds inverted", func(c *Config) { c.Ranking.Thresholds.Moderate = 90 }, 0},
		{"no parallelism", func(c *Config) { c.Ranking.Parallelism = 0 }, 0},
		{"hours too short", func(c *Config) { c.Interview.BusinessHoursEnd = 9 }, 0},
		{"no window", func(c *Config) { c.Interview.WindowDays = 0 }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadDefaults(t)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate(tt.req))
		})
	}
}

func TestNewJWTConfig(t *testing.T) {
	cfg, err := NewJWTConfig(AuthConfig{JWTSecret: "0123456789abcdef", JWTExpirationHours: 24})
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.ExpirationHours)

	_, err = NewJWTConfig(AuthConfig{JWTExpirationHours: 24})
	assert.Error(t, err)

	_, err = NewJWTConfig(AuthConfig{JWTSecret: "short", JWTExpirationHours: 24})
	assert.Error(t, err)

	_, err = NewJWTConfig(AuthConfig{JWTSecret: "0123456789abcdef", JWTExpirationHours: 0})
	assert.Error(t, err)
}

func TestPasswordConfig(t *testing.T) {
	_, err := NewPasswordConfig(AuthConfig{BcryptCost: 20})
	assert.Error(t, err)

	cfg, err := NewPasswordConfig(AuthConfig{BcryptCost: 4, PasswordPepper: "pep"})
	require.NoError(t, err)

	hash, err := cfg.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, cfg.VerifyPassword("correct horse", hash))
	assert.False(t, cfg.VerifyPassword("wrong", hash))

	noPepper := &PasswordConfig{BcryptCost: 4}
	assert.False(t, noPepper.VerifyPassword("correct horse", hash), "pepper must be part of the hash")
}

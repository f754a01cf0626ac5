// Package config loads talentflow settings from a config file, the environment and flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/talentflow/internal/ranking"
	"github.com/jonathan/talentflow/internal/scheduling"
)

// EnvPrefix is prepended to every environment key, e.g. TALENTFLOW_SERVER_PORT.
const EnvPrefix = "TALENTFLOW"

// Config is the complete application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Company   CompanyConfig   `mapstructure:"company"`
	Email     EmailConfig     `mapstructure:"email"`
	Uploads   UploadsConfig   `mapstructure:"uploads"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Ranking   RankingConfig   `mapstructure:"ranking"`
	Interview InterviewConfig `mapstructure:"interview"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type CompanyConfig struct {
	Name string `mapstructure:"name"`
}

type EmailConfig struct {
	From string `mapstructure:"from"`
}

type UploadsConfig struct {
	Dir      string `mapstructure:"dir"`
	MaxBytes int64  `mapstructure:"max_bytes"`
}

type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
	BcryptCost         int    `mapstructure:"bcrypt_cost"`
	PasswordPepper     string `mapstructure:"password_pepper"`
}

type WeightsConfig struct {
	SkillsMatch         float64 `mapstructure:"skills_match"`
	ExperienceRelevance float64 `mapstructure:"experience_relevance"`
	EducationMatch      float64 `mapstructure:"education_match"`
	OverallFit          float64 `mapstructure:"overall_fit"`
}

type ThresholdsConfig struct {
	Strong   float64 `mapstructure:"strong"`
	Moderate float64 `mapstructure:"moderate"`
}

// RankingConfig holds the recognized scoring options.
type RankingConfig struct {
	Weights                  WeightsConfig    `mapstructure:"weights"`
	Thresholds               ThresholdsConfig `mapstructure:"thresholds"`
	OverallFitBaseline       float64          `mapstructure:"overall_fit_baseline"`
	EducationPenaltyPerLevel float64          `mapstructure:"education_penalty_per_level"`
	Parallelism              int              `mapstructure:"parallelism"`
}

type InterviewConfig struct {
	DurationMinutes    int    `mapstructure:"duration_minutes"`
	BusinessHoursStart int    `mapstructure:"business_hours_start"`
	BusinessHoursEnd   int    `mapstructure:"business_hours_end"`
	SlotStepMinutes    int    `mapstructure:"slot_step_minutes"`
	LeadDays           int    `mapstructure:"lead_days"`
	WindowDays         int    `mapstructure:"window_days"`
	MeetingBaseURL     string `mapstructure:"meeting_base_url"`
}

type RateLimitConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	DefaultLimit int      `mapstructure:"default_limit"`
	Whitelist    []string `mapstructure:"whitelist"`
	Blacklist    []string `mapstructure:"blacklist"`
}

type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

var defaults = map[string]any{
	"server.port":                          8080,
	"server.cors_origins":                  []string{"http://localhost:3000"},
	"company.name":                         "Your Company",
	"email.from":                           "hr@company.com",
	"uploads.dir":                          "uploads",
	"uploads.max_bytes":                    16 << 20,
	"auth.jwt_expiration_hours":            24,
	"auth.bcrypt_cost":                     12,
	"ranking.weights.skills_match":         0.40,
	"ranking.weights.experience_relevance": 0.30,
	"ranking.weights.education_match":      0.20,
	"ranking.weights.overall_fit":          0.10,
	"ranking.thresholds.strong":            75.0,
	"ranking.thresholds.moderate":          40.0,
	"ranking.overall_fit_baseline":         50.0,
	"ranking.education_penalty_per_level":  50.0,
	"ranking.parallelism":                  ranking.DefaultParallelism,
	"interview.duration_minutes":           60,
	"interview.business_hours_start":       9,
	"interview.business_hours_end":         17,
	"interview.slot_step_minutes":          30,
	"interview.lead_days":                  3,
	"interview.window_days":                14,
	"interview.meeting_base_url":           "https://meet.company.com/interview",
	"ratelimit.enabled":                    true,
	"ratelimit.default_limit":              1000,
	"log.json":                             false,
	"log.debug":                            false,
}

// conventional aliases bound in addition to the prefixed names
var envAliases = map[string]string{
	"database.url":    "DATABASE_URL",
	"auth.jwt_secret": "JWT_SECRET",
	"server.port":     "PORT",
	"company.name":    "COMPANY_NAME",
	"email.from":      "EMAIL_FROM",
}

// NewViper returns a viper instance with defaults and environment bindings applied.
func NewViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, alias := range envAliases {
		// Prefixed name first so it wins over the alias.
		_ = v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), alias)
	}
	// Keys without a default are invisible to Unmarshal unless bound.
	for _, key := range []string{"auth.password_pepper", "ratelimit.whitelist", "ratelimit.blacklist"} {
		_ = v.BindEnv(key)
	}
	return v
}

// ReadFile merges a config file into v. An empty path looks for talentflow.yaml
// in the working directory and ignores its absence.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	v.AddConfigPath(".")
	v.SetConfigName("talentflow")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Load unmarshals v into a Config. It does not validate.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Requirement selects which optional settings must be present.
type Requirement int

const (
	RequireDatabase Requirement = 1 << iota
	RequireAuth
)

// Validate checks value ranges and the settings named by req.
func (c *Config) Validate(req Requirement) error {
	var errs []error
	if req&RequireDatabase != 0 && c.Database.URL == "" {
		errs = append(errs, fmt.Errorf("config error: 'database.url' (or DATABASE_URL) is required"))
	}
	if req&RequireAuth != 0 && c.Auth.JWTSecret == "" {
		errs = append(errs, fmt.Errorf("config error: 'auth.jwt_secret' (or JWT_SECRET) is required"))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("config error: 'server.port' must be 1-65535, got %d", c.Server.Port))
	}
	if c.Uploads.MaxBytes <= 0 {
		errs = append(errs, fmt.Errorf("config error: 'uploads.max_bytes' must be positive"))
	}
	if err := c.RankingConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("config error: %w", err))
	}
	if c.Ranking.Parallelism < 1 {
		errs = append(errs, fmt.Errorf("config error: 'ranking.parallelism' must be at least 1"))
	}
	iv := c.Interview
	if iv.DurationMinutes < 1 || iv.SlotStepMinutes < 1 {
		errs = append(errs, fmt.Errorf("config error: interview duration and slot step must be positive"))
	}
	if iv.BusinessHoursStart < 0 || iv.BusinessHoursEnd > 24 ||
		(iv.BusinessHoursEnd-iv.BusinessHoursStart)*60 < iv.DurationMinutes {
		errs = append(errs, fmt.Errorf("config error: business hours %d-%d cannot fit a %d minute interview",
			iv.BusinessHoursStart, iv.BusinessHoursEnd, iv.DurationMinutes))
	}
	if iv.LeadDays < 0 || iv.WindowDays < 1 {
		errs = append(errs, fmt.Errorf("config error: 'interview.lead_days' must be >= 0 and 'interview.window_days' >= 1"))
	}
	return errors.Join(errs...)
}

// RankingConfig converts the scoring options into the engine configuration.
func (c *Config) RankingConfig() ranking.Config {
	r := c.Ranking
	return ranking.Config{
		Weights: ranking.Weights{
			SkillsMatch:         r.Weights.SkillsMatch,
			ExperienceRelevance: r.Weights.ExperienceRelevance,
			EducationMatch:      r.Weights.EducationMatch,
			OverallFit:          r.Weights.OverallFit,
		},
		Thresholds: ranking.Thresholds{
			Strong:   r.Thresholds.Strong,
			Moderate: r.Thresholds.Moderate,
		},
		OverallFitBaseline:       r.OverallFitBaseline,
		EducationPenaltyPerLevel: r.EducationPenaltyPerLevel,
	}
}

// SchedulingOptions converts the interview section into slot options in UTC.
func (c *Config) SchedulingOptions() scheduling.Options {
	iv := c.Interview
	return scheduling.Options{
		Duration:       time.Duration(iv.DurationMinutes) * time.Minute,
		DayStart:       iv.BusinessHoursStart,
		DayEnd:         iv.BusinessHoursEnd,
		Step:           time.Duration(iv.SlotStepMinutes) * time.Minute,
		LeadDays:       iv.LeadDays,
		WindowDays:     iv.WindowDays,
		MeetingBaseURL: iv.MeetingBaseURL,
		Location:       time.UTC,
	}
}

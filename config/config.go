// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/padraicbc/dotawatch/opendota"
	"github.com/padraicbc/dotawatch/scoring"
)

// Config holds all application configuration.
type Config struct {
	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	// With neither, SQLitePath is used.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string
	SQLitePath  string

	// JWT signing secret, required by the API server.
	JWTSecret string
	// AdminUsers may issue password hashes for new users.
	AdminUsers []string

	// Server
	Debug      bool
	Port       string
	TLSDomains []string

	// OpenDota feed
	OpenDotaBaseURL string
	OpenDotaAPIKey  string
	FetchLimit      int
	FetchTiers      []string
	ExcludeLeague   string
	TeamsLimit      int

	// Ranking and refresh
	TopN              int
	CacheDaysLimit    int
	RefreshEvery      time.Duration
	TeamsRefreshEvery time.Duration
	RunTrackerFile    string

	// Scoring knobs
	TeamsILike         []string
	DurationUpperScore float64

	// Optional raw response cache.
	RedisURL    string
	RawCacheTTL time.Duration

	// Optional Google Sheets export.
	GoogleCredentialsFile string
	SheetURL              string
	SheetName             string

	// MySQL – used only by cmd/migrate.
	MySQLDSN string
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	v := newViper()
	setDefaults(v)

	cfg := &Config{
		DatabaseURL: v.GetString("DATABASE_URL"),
		DBUser:      v.GetString("DB_USER"),
		DBPass:      v.GetString("DB_PASS"),
		DBHost:      v.GetString("DB_HOST"),
		DBPort:      v.GetString("DB_PORT"),
		DBName:      v.GetString("DB_NAME"),
		DBSSLMode:   v.GetString("DB_SSLMODE"),
		SQLitePath:  v.GetString("SQLITE_PATH"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		AdminUsers:  splitTrimmed(v.GetString("ADMIN_USERS")),
		Debug:       v.GetBool("DEBUG"),
		Port:        v.GetString("PORT"),
		TLSDomains:  splitTrimmed(v.GetString("TLS_DOMAINS")),

		OpenDotaBaseURL: v.GetString("OPENDOTA_BASE_URL"),
		OpenDotaAPIKey:  v.GetString("OPENDOTA_API_KEY"),
		FetchLimit:      v.GetInt("FETCH_LIMIT"),
		FetchTiers:      splitTrimmed(v.GetString("FETCH_TIERS")),
		ExcludeLeague:   v.GetString("EXCLUDE_LEAGUE_PATTERN"),
		TeamsLimit:      v.GetInt("TEAMS_LIMIT"),

		TopN:              v.GetInt("TOP_N"),
		CacheDaysLimit:    v.GetInt("CACHE_DAYS_LIMIT"),
		RefreshEvery:      hours(v.GetFloat64("REFRESH_EVERY_HOURS")),
		TeamsRefreshEvery: hours(v.GetFloat64("TEAMS_REFRESH_EVERY_HOURS")),
		RunTrackerFile:    v.GetString("RUN_TRACKER_FILE"),

		DurationUpperScore: v.GetFloat64("DURATION_UPPER_SCORE"),

		RedisURL:    v.GetString("REDIS_URL"),
		RawCacheTTL: v.GetDuration("RAW_CACHE_TTL"),

		GoogleCredentialsFile: v.GetString("GOOGLE_CREDENTIALS_FILE"),
		SheetURL:              v.GetString("SHEET_URL"),
		SheetName:             v.GetString("SHEET_NAME"),

		MySQLDSN: v.GetString("MYSQL_DSN"),
	}
	if teams := v.GetString("TEAMS_I_LIKE"); teams != "" {
		cfg.TeamsILike = splitTrimmed(teams)
	} else {
		cfg.TeamsILike = append([]string(nil), scoring.DefaultTeamsILike...)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ADMIN_USERS", "admin")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "dotawatch")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "./dota_ratings.db")
	v.SetDefault("PORT", ":9000")
	v.SetDefault("DEBUG", false)

	v.SetDefault("OPENDOTA_BASE_URL", opendota.DefaultBaseURL)
	v.SetDefault("FETCH_LIMIT", 1000)
	v.SetDefault("FETCH_TIERS", "professional,premium")
	v.SetDefault("EXCLUDE_LEAGUE_PATTERN", "Division II")
	v.SetDefault("TEAMS_LIMIT", 200)

	v.SetDefault("TOP_N", 100)
	v.SetDefault("CACHE_DAYS_LIMIT", 30)
	v.SetDefault("REFRESH_EVERY_HOURS", 1)
	v.SetDefault("TEAMS_REFRESH_EVERY_HOURS", 1)
	v.SetDefault("RUN_TRACKER_FILE", "./last_run.json")

	v.SetDefault("DURATION_UPPER_SCORE", 1.0)
	v.SetDefault("RAW_CACHE_TTL", "15m")
	v.SetDefault("SHEET_NAME", "Scores")
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	var errs []error
	if c.TopN < 0 {
		errs = append(errs, fmt.Errorf("config: TOP_N must not be negative, got %d", c.TopN))
	}
	if c.FetchLimit <= 0 {
		errs = append(errs, fmt.Errorf("config: FETCH_LIMIT must be positive, got %d", c.FetchLimit))
	}
	if c.CacheDaysLimit <= 0 {
		errs = append(errs, fmt.Errorf("config: CACHE_DAYS_LIMIT must be positive, got %d", c.CacheDaysLimit))
	}
	if c.RefreshEvery <= 0 {
		errs = append(errs, errors.New("config: REFRESH_EVERY_HOURS must be positive"))
	}
	if c.DurationUpperScore < 0 || c.DurationUpperScore > 1 {
		errs = append(errs, fmt.Errorf("config: DURATION_UPPER_SCORE must be within [0,1], got %v", c.DurationUpperScore))
	}
	return errors.Join(errs...)
}

// RequireServer checks the settings only the API server needs.
func (c *Config) RequireServer() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET must be set")
	}
	return nil
}

// PostgresDSN returns the PostgreSQL connection string, or "" when the
// SQLite fallback should be used. DATABASE_URL takes precedence over
// individual fields.
func (c *Config) PostgresDSN() string {
	if strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		return c.DatabaseURL
	}
	if c.DatabaseURL != "" || c.DBPass == "" || c.DBUser == "" {
		return ""
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// SQLiteFile returns the SQLite database path, honouring a sqlite:/// DATABASE_URL.
func (c *Config) SQLiteFile() string {
	if path, ok := strings.CutPrefix(c.DatabaseURL, "sqlite:///"); ok && path != "" {
		return path
	}
	return c.SQLitePath
}

// JWTKey returns the JWT signing key as a byte slice.
func (c *Config) JWTKey() []byte {
	return []byte(c.JWTSecret)
}

// Scoring builds the scoring model from the defaults and the configured knobs.
func (c *Config) Scoring() scoring.Config {
	sc := scoring.DefaultConfig().WithDurationCeiling(c.DurationUpperScore)
	sc.TeamsILike = append([]string(nil), c.TeamsILike...)
	sc.TopN = c.TopN
	return sc
}

// Query builds the OpenDota match query for matches newer than the cache window.
func (c *Config) Query(now time.Time) opendota.Query {
	return opendota.Query{
		Tiers:         c.FetchTiers,
		ExcludeLeague: c.ExcludeLeague,
		Since:         now.AddDate(0, 0, -c.CacheDaysLimit),
		Limit:         c.FetchLimit,
	}
}

// MaskedDSN returns the active database location with any password hidden.
func (c *Config) MaskedDSN() string {
	dsn := c.PostgresDSN()
	if dsn == "" {
		return "sqlite:" + c.SQLiteFile()
	}
	return maskURL(dsn)
}

func maskURL(u string) string {
	scheme, rest, ok := strings.Cut(u, "://")
	if !ok {
		return u
	}
	creds, host, ok := strings.Cut(rest, "@")
	if !ok {
		return u
	}
	if user, _, hasPass := strings.Cut(creds, ":"); hasPass {
		creds = user + ":***"
	}
	return scheme + "://" + creds + "@" + host
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

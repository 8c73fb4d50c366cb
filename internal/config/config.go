package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeCloud Mode = "cloud"
)

type StorageBackend string

// DefaultLocalJWTSecret is the development-only signing secret used when
// STUDYBUDDY_LOCAL_JWT_SECRET is unset.
const DefaultLocalJWTSecret = "studybuddy-local-dev"

const (
	StorageMemory    StorageBackend = "memory"
	StoragePostgres  StorageBackend = "postgres"
	StorageFirestore StorageBackend = "firestore"
)

type Config struct {
	Mode     Mode   `env:"STUDYBUDDY_MODE" envDefault:"local"`
	Port     string `env:"STUDYBUDDY_PORT" envDefault:"8080"`
	LogLevel string `env:"STUDYBUDDY_LOG_LEVEL" envDefault:"info"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	ModelName    string `env:"STUDYBUDDY_MODEL_NAME" envDefault:"gemini-2.0-flash"`
	UseMockLLM   bool   `env:"STUDYBUDDY_USE_MOCK_LLM"`

	VisionAPIKey   string `env:"VISION_API_KEY"`
	VisionEndpoint string `env:"STUDYBUDDY_VISION_ENDPOINT"`

	SupabaseURL       string `env:"SUPABASE_URL"`
	SupabaseAnonKey   string `env:"SUPABASE_ANON_KEY"`
	SupabaseJWTSecret string `env:"SUPABASE_JWT_SECRET"`
	// SupabaseServiceKey authorizes storage writes; the anon key is used when unset.
	SupabaseServiceKey string `env:"SUPABASE_SERVICE_ROLE_KEY"`
	AvatarBucket       string `env:"STUDYBUDDY_AVATAR_BUCKET" envDefault:"profile-pictures"`

	StorageBackend StorageBackend `env:"STUDYBUDDY_STORAGE_BACKEND" envDefault:"memory"`
	DatabaseURL    string         `env:"STUDYBUDDY_DATABASE_URL"`
	AutoMigrate    bool           `env:"STUDYBUDDY_AUTO_MIGRATE"`
	GCPProjectID   string         `env:"STUDYBUDDY_GCP_PROJECT"`

	SettingsDir string `env:"STUDYBUDDY_SETTINGS_DIR"`
	// LocalJWTSecret signs tokens of the in-process identity provider.
	LocalJWTSecret string `env:"STUDYBUDDY_LOCAL_JWT_SECRET"`
	PublicBaseURL  string `env:"STUDYBUDDY_PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`

	SessionIdleTimeout time.Duration `env:"STUDYBUDDY_SESSION_IDLE_TIMEOUT" envDefault:"2h"`
	JanitorInterval    time.Duration `env:"STUDYBUDDY_JANITOR_INTERVAL" envDefault:"5m"`

	SubmitRatePerSecond float64 `env:"STUDYBUDDY_SUBMIT_RPS" envDefault:"1"`
	SubmitBurst         int     `env:"STUDYBUDDY_SUBMIT_BURST" envDefault:"5"`
}

// Load reads all env vars and builds the config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.LocalJWTSecret == "" {
		cfg.LocalJWTSecret = DefaultLocalJWTSecret
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the combinations that cannot work at runtime.
func (c *Config) Validate() error {
	var errs []error

	switch c.Mode {
	case ModeLocal, ModeCloud:
	default:
		errs = append(errs, fmt.Errorf("unknown STUDYBUDDY_MODE %q", c.Mode))
	}

	switch c.StorageBackend {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("STUDYBUDDY_DATABASE_URL is required for the postgres backend"))
		}
	case StorageFirestore:
		if c.GCPProjectID == "" {
			errs = append(errs, errors.New("STUDYBUDDY_GCP_PROJECT is required for the firestore backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STUDYBUDDY_STORAGE_BACKEND %q", c.StorageBackend))
	}

	if c.Mode == ModeCloud {
		if c.SupabaseURL == "" || c.SupabaseAnonKey == "" || c.SupabaseJWTSecret == "" {
			errs = append(errs, errors.New("SUPABASE_URL, SUPABASE_ANON_KEY and SUPABASE_JWT_SECRET must be set in cloud mode"))
		}
	}

	if c.SubmitRatePerSecond <= 0 || c.SubmitBurst <= 0 {
		errs = append(errs, errors.New("submit rate limit must be positive"))
	}

	return errors.Join(errs...)
}

// InsecureLocalSecret reports whether local mode signs tokens with the
// built-in development secret.
func (c *Config) InsecureLocalSecret() bool {
	return c.Mode == ModeLocal && c.LocalJWTSecret == DefaultLocalJWTSecret
}

// MockLLM reports whether the mock text generator should be used.
func (c *Config) MockLLM() bool {
	return c.UseMockLLM || (c.Mode == ModeLocal && c.GeminiAPIKey == "")
}

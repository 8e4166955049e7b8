package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the process configuration, read once at startup.
type Config struct {
	Env        string
	HTTPAddr   string
	AppName    string
	LogLevel   string
	CORSOrigin []string

	DatabaseURL  string
	StoreTimeout time.Duration

	JWTSecret        string
	JWTIssuer        string
	AccessTokenTTL   time.Duration
	PasswordResetTTL time.Duration
	PasswordHashCost int

	AdminRegistrationCode string
	DeterministicUserIDs  bool
	DefaultPhoneRegion    string

	SuperAdminEmail    string
	SuperAdminName     string
	SuperAdminPassword string

	ResetCleanupSchedule string
	ResetLinkBase        string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string
}

// Load reads an optional .env file and then the environment.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load env file").
				WithMetadata(map[string]any{"file": f})
		}
	}

	cfg := &Config{
		Env:        strings.ToLower(getenv("APP_ENV", EnvDevelopment)),
		HTTPAddr:   getenv("HTTP_ADDR", ":8001"),
		AppName:    getenv("APP_NAME", "enroll"),
		LogLevel:   getenv("LOG_LEVEL", "INFO"),
		CORSOrigin: getenvList("CORS_ORIGINS", []string{"*"}),

		DatabaseURL:  getenv("DATABASE_URL", "file:enroll.db?cache=shared"),
		StoreTimeout: getenvDuration("STORE_TIMEOUT", 10*time.Second),

		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTIssuer:        getenv("JWT_ISSUER", "enroll"),
		AccessTokenTTL:   getenvDuration("ACCESS_TOKEN_TTL", 30*24*time.Hour),
		PasswordResetTTL: getenvDuration("PASSWORD_RESET_TTL", time.Hour),
		PasswordHashCost: getenvInt("PASSWORD_HASH_COST", 12),

		AdminRegistrationCode: os.Getenv("ADMIN_REGISTRATION_CODE"),
		DeterministicUserIDs:  getenvBool("DETERMINISTIC_USER_IDS", false),
		DefaultPhoneRegion:    getenv("DEFAULT_PHONE_REGION", "US"),

		SuperAdminEmail:    os.Getenv("SUPER_ADMIN_EMAIL"),
		SuperAdminName:     getenv("SUPER_ADMIN_NAME", "Super Admin"),
		SuperAdminPassword: os.Getenv("SUPER_ADMIN_PASSWORD"),

		ResetCleanupSchedule: getenv("RESET_CLEANUP_SCHEDULE", "@every 15m"),
		ResetLinkBase:        getenv("RESET_LINK_BASE", "http://localhost:3000/reset-password"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getenvInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		EmailFrom:    getenv("EMAIL_FROM", "no-reply@localhost"),
	}

	return cfg, nil
}

// Validate reports configuration the process cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return goerrors.New("JWT_SECRET must be set", goerrors.CategoryValidation).
			WithTextCode("MISSING_JWT_SECRET")
	}
	if c.AccessTokenTTL <= 0 {
		return goerrors.New("ACCESS_TOKEN_TTL must be positive", goerrors.CategoryValidation)
	}
	if c.PasswordResetTTL <= 0 {
		return goerrors.New("PASSWORD_RESET_TTL must be positive", goerrors.CategoryValidation)
	}
	if c.SuperAdminEmail != "" && c.SuperAdminPassword == "" {
		return goerrors.New("SUPER_ADMIN_PASSWORD must be set with SUPER_ADMIN_EMAIL", goerrors.CategoryValidation)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}

func (c *Config) GetSigningKey() string              { return c.JWTSecret }
func (c *Config) GetIssuer() string                  { return c.JWTIssuer }
func (c *Config) GetTokenTTL() time.Duration         { return c.AccessTokenTTL }
func (c *Config) GetPasswordResetTTL() time.Duration { return c.PasswordResetTTL }
func (c *Config) GetAdminRegistrationCode() string   { return c.AdminRegistrationCode }

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

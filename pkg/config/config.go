package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env  string
	Port int

	Database DatabaseConfig
	Redis    RedisConfig
	Security SecurityConfig
	Drive    DriveConfig
	CORS     CORSConfig
	Log      LogConfig
	Purge    PurgeConfig
	Courses  CoursesConfig
}

// DatabaseConfig carries the Postgres connection string and pool tuning.
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig is optional; an empty Addr disables Redis entirely.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SecurityConfig groups the secrets every deployment must provide.
type SecurityConfig struct {
	Salt          string
	AdminPassword string
	SessionSecret string
	SessionTTL    time.Duration
}

// DriveConfig locates the Google service-account credential. Both fields
// are optional: without a usable credential, file removals report
// unavailable instead of failing the request.
type DriveConfig struct {
	CredentialsJSON string
	CredentialsFile string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// PurgeConfig tunes the streaming cohort deletion.
type PurgeConfig struct {
	RowDelay time.Duration
}

// CoursesConfig tunes the available-course badge cache.
type CoursesConfig struct {
	CacheTTL time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Database = DatabaseConfig{
		URL:          v.GetString("DATABASE_URL"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Addr:     v.GetString("REDIS_ADDR"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Security = SecurityConfig{
		Salt:          v.GetString("SECURITY_SALT"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
		SessionSecret: v.GetString("SESSION_SECRET"),
		SessionTTL:    parseDuration(v.GetString("SESSION_TTL"), 12*time.Hour),
	}

	cfg.Drive = DriveConfig{
		CredentialsJSON: v.GetString("GOOGLE_CREDENTIALS_JSON"),
		CredentialsFile: v.GetString("GOOGLE_CREDENTIALS_FILE"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Purge = PurgeConfig{
		RowDelay: parseDuration(v.GetString("PURGE_ROW_DELAY"), 50*time.Millisecond),
	}

	cfg.Courses = CoursesConfig{
		CacheTTL: parseDuration(v.GetString("COURSES_CACHE_TTL"), time.Minute),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces the values the process cannot run without.
func (c *Config) Validate() error {
	missing := make([]string, 0, 4)
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.Security.Salt == "" {
		missing = append(missing, "SECURITY_SALT")
	}
	if c.Security.AdminPassword == "" {
		missing = append(missing, "ADMIN_PASSWORD")
	}
	if c.Security.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment values: %s", strings.Join(missing, ", "))
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("GOOGLE_CREDENTIALS_FILE", "credenciais_drive.json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Package config loads and validates the application configuration.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache"    validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Mail     MailConfig     `mapstructure:"mail"`
	Task     TaskConfig     `mapstructure:"task"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// CacheConfig contains the Redis connection settings and the agenda TTL
// policy. The default TTL applies to the unfiltered agenda view; filtered
// views get the shorter TTL since their reuse likelihood is lower.
type CacheConfig struct {
	Addr               string `mapstructure:"addr"                 validate:"required"`
	DB                 int    `mapstructure:"db"                   validate:"gte=0"`
	Password           string `mapstructure:"password"`
	AgendaTTLMinutes   int    `mapstructure:"agenda_ttl_minutes"   validate:"required,gt=0"`
	FilteredTTLMinutes int    `mapstructure:"filtered_ttl_minutes" validate:"required,gt=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// MailConfig contains the SMTP settings for outgoing mail. When Host is
// empty, mail sending is disabled and welcome emails are logged instead.
type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// TaskConfig contains settings for the background job runner.
type TaskConfig struct {
	QueueSize           int `mapstructure:"queue_size"             validate:"gte=0"`
	WorkerCount         int `mapstructure:"worker_count"           validate:"gte=0"`
	StuckTaskAgeMinutes int `mapstructure:"stuck_task_age_minutes" validate:"gte=0"`
}

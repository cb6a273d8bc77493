package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"    validate:"required"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// Host is the externally visible host name used when building
	// links embedded in invitation emails.
	Host string `mapstructure:"host" validate:"required"`
}

// DatabaseConfig contains all database related settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
// Token lifetimes are expressed in minutes and reported verbatim in
// token-pair responses.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	AccessTokenLifetimeMinutes  int `mapstructure:"access_token_lifetime_minutes"  validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
	InviteTokenLifetimeMinutes  int `mapstructure:"invite_token_lifetime_minutes"  validate:"required,gt=0"`
}

// RedisConfig contains the notification broker and cache settings.
type RedisConfig struct {
	Addr                 string `mapstructure:"addr"                   validate:"required"`
	DB                   int    `mapstructure:"db"                     validate:"gte=0"`
	CacheLifetimeMinutes int    `mapstructure:"cache_lifetime_minutes" validate:"gt=0"`
}

// SMTPConfig contains outgoing mail settings used by the worker binary.
// The server binary never touches SMTP; it only enqueues jobs.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// WorkerConfig contains settings for the background email worker.
type WorkerConfig struct {
	Concurrency int `mapstructure:"concurrency" validate:"gte=0"`
}

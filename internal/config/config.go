package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret  string `mapstructure:"jwt_secret"  validate:"required,min=32"`
	BcryptCost int    `mapstructure:"bcrypt_cost" validate:"omitempty,gte=4,lte=31"`
}

// SMTPConfig contains outbound email settings. The section is optional: when
// Host is empty the application falls back to a logging no-op mailer, so
// local development works without a mail relay.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"     validate:"omitempty,gt=0,lt=65536"`
	From     string `mapstructure:"from"     validate:"required_with=Host,omitempty,email"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// JobsConfig contains background job runner settings.
type JobsConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"omitempty,gt=0"`
	QueueSize   int `mapstructure:"queue_size"   validate:"omitempty,gt=0"`
}

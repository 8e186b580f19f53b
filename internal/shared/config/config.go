package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Host          string
	User          string
	Password      string
	Name          string
	Port          string
	SSLMode       string
	MaxRetries    int
	RunMigrations bool
}

type DispatchConfig struct {
	Interval           time.Duration
	LeaseTTL           time.Duration
	OutboxPollInterval time.Duration
}

type MailConfig struct {
	Enabled     bool
	From        string
	Institution string
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	UseTLS      bool
}

// Config holds process configuration shared by the api, worker and seed binaries.
type Config struct {
	Port        string
	Env         string
	JWTSecret   string
	RedisAddr   string
	KafkaBroker string

	Database DatabaseConfig
	Dispatch DispatchConfig
	Mail     MailConfig
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_RETRIES", 5)
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("KAFKA_BROKER", "")
	v.SetDefault("DISPATCH_INTERVAL", "5s")
	v.SetDefault("DISPATCH_LEASE_TTL", "1m")
	v.SetDefault("OUTBOX_POLL_INTERVAL", "3s")
	v.SetDefault("EMAIL_ENABLED", false)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USE_TLS", true)
	v.SetDefault("MAIL_INSTITUTION", "Enterprise Resource Planning")
}

// Load reads configuration from the environment, after loading .env if one
// is present. Real environment variables win over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	cfg := &Config{
		Port:        v.GetString("PORT"),
		Env:         v.GetString("APP_ENV"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		RedisAddr:   v.GetString("REDIS_ADDR"),
		KafkaBroker: v.GetString("KAFKA_BROKER"),
		Database: DatabaseConfig{
			Host:          v.GetString("DB_HOST"),
			User:          v.GetString("DB_USER"),
			Password:      v.GetString("DB_PASSWORD"),
			Name:          v.GetString("DB_NAME"),
			Port:          v.GetString("DB_PORT"),
			SSLMode:       v.GetString("DB_SSLMODE"),
			MaxRetries:    v.GetInt("DB_MAX_RETRIES"),
			RunMigrations: v.GetBool("RUN_MIGRATIONS"),
		},
		Mail: MailConfig{
			Enabled:     v.GetBool("EMAIL_ENABLED"),
			From:        v.GetString("EMAIL_FROM"),
			Institution: v.GetString("MAIL_INSTITUTION"),
			SMTPHost:    v.GetString("SMTP_HOST"),
			SMTPPort:    v.GetInt("SMTP_PORT"),
			SMTPUser:    v.GetString("SMTP_USER"),
			SMTPPass:    v.GetString("SMTP_PASSWORD"),
			UseTLS:      v.GetBool("SMTP_USE_TLS"),
		},
	}

	var err error
	if cfg.Dispatch.Interval, err = parseDuration(v, "DISPATCH_INTERVAL"); err != nil {
		return nil, err
	}
	if cfg.Dispatch.LeaseTTL, err = parseDuration(v, "DISPATCH_LEASE_TTL"); err != nil {
		return nil, err
	}
	if cfg.Dispatch.OutboxPollInterval, err = parseDuration(v, "OUTBOX_POLL_INTERVAL"); err != nil {
		return nil, err
	}

	if cfg.Database.MaxRetries < 1 {
		cfg.Database.MaxRetries = 1
	}

	if cfg.Mail.Enabled {
		if cfg.Mail.SMTPHost == "" {
			return nil, fmt.Errorf("SMTP_HOST is required when EMAIL_ENABLED is true")
		}
		if cfg.Mail.From == "" {
			return nil, fmt.Errorf("EMAIL_FROM is required when EMAIL_ENABLED is true")
		}
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, raw)
	}
	return d, nil
}

// DSN renders a libpq keyword/value connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

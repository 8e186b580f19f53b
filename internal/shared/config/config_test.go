package config_test

import (
	"testing"
	"time"

	"go-payroll/internal/shared/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Empty(t, cfg.KafkaBroker)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 5, cfg.Database.MaxRetries)
	assert.True(t, cfg.Database.RunMigrations)
	assert.Equal(t, 5*time.Second, cfg.Dispatch.Interval)
	assert.Equal(t, time.Minute, cfg.Dispatch.LeaseTTL)
	assert.Equal(t, 3*time.Second, cfg.Dispatch.OutboxPollInterval)
	assert.False(t, cfg.Mail.Enabled)
	assert.Equal(t, 587, cfg.Mail.SMTPPort)
	assert.Equal(t, "Enterprise Resource Planning", cfg.Mail.Institution)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("PORT", "8081")
	v.Set("APP_ENV", "production")
	v.Set("DISPATCH_INTERVAL", "250ms")
	v.Set("DB_HOST", "db")
	v.Set("DB_USER", "payroll")
	v.Set("DB_PASSWORD", "secret")
	v.Set("DB_NAME", "payroll")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 250*time.Millisecond, cfg.Dispatch.Interval)
	assert.Equal(t,
		"host=db user=payroll password=secret dbname=payroll port=5432 sslmode=disable",
		cfg.Database.DSN(),
	)
}

func TestFromViper_InvalidDuration(t *testing.T) {
	v := viper.New()
	v.Set("DISPATCH_INTERVAL", "soon")

	_, err := config.FromViper(v)
	assert.ErrorContains(t, err, "DISPATCH_INTERVAL")
}

func TestFromViper_EmailEnabledRequiresSMTP(t *testing.T) {
	v := viper.New()
	v.Set("EMAIL_ENABLED", true)

	_, err := config.FromViper(v)
	assert.ErrorContains(t, err, "SMTP_HOST")

	v.Set("SMTP_HOST", "smtp.example.com")
	_, err = config.FromViper(v)
	assert.ErrorContains(t, err, "EMAIL_FROM")

	v.Set("EMAIL_FROM", "payroll@example.com")
	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.True(t, cfg.Mail.Enabled)
}

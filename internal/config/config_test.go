package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8460", cfg.Port)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("PORT", "9999")
	t.Setenv("DB_NAME", "board_test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "board_test", cfg.DBName)
}

func TestValidateProductionRequiresStrongPassword(t *testing.T) {
	cfg := &Config{Port: "8460", Env: "production", DBPassword: "password"}
	assert.Error(t, cfg.Validate())

	cfg.DBPassword = "s3cure-value"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRequiresPort(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate())
}

func TestMailEnabled(t *testing.T) {
	cfg := &Config{SMTPUser: "u", SMTPPass: "p", SMTPDest: "d"}
	assert.True(t, cfg.MailEnabled())

	for _, clear := range []func(*Config){
		func(c *Config) { c.SMTPUser = "" },
		func(c *Config) { c.SMTPPass = "" },
		func(c *Config) { c.SMTPDest = "" },
	} {
		c := *cfg
		clear(&c)
		assert.False(t, c.MailEnabled())
	}
}

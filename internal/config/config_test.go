package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	c := Load()

	assert.Equal(t, "8080", c.ServerPort)
	assert.Equal(t, "debug", c.GinMode)
	assert.Equal(t, 10*time.Minute, c.EmailTokenTTL)
	assert.Equal(t, 12*time.Hour, c.APITokenTTL)
	assert.Equal(t, 30, c.LoginRateLimit)
	assert.Equal(t, time.Minute, c.LoginRateWindow)
	assert.Equal(t, time.Hour, c.TokenCleanupInterval)
	assert.Nil(t, c.AllowedOrigins, "empty origins mean allow-all")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("EMAIL_TOKEN_TTL_MINUTES", "5")
	t.Setenv("API_TOKEN_TTL_HOURS", "1")
	t.Setenv("LOGIN_RATE_LIMIT", "3")

	c := Load()

	assert.Equal(t, "9000", c.ServerPort)
	assert.Equal(t, 5*time.Minute, c.EmailTokenTTL)
	assert.Equal(t, time.Hour, c.APITokenTTL)
	assert.Equal(t, 3, c.LoginRateLimit)
}

func TestLoadEnvMalformedIntFallsBack(t *testing.T) {
	t.Setenv("LOGIN_RATE_LIMIT", "not-a-number")
	c := Load()
	assert.Equal(t, 30, c.LoginRateLimit)
}

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		parseOrigins("https://a.example, https://b.example"))
	assert.Equal(t, []string{"https://a.example"}, parseOrigins("https://a.example,,"))
}

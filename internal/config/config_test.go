package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 168*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "zar", cfg.Payment.Currency)
	assert.Equal(t, "https://api.apilayer.com/whois/check", cfg.Whois.APIURL)
	assert.Equal(t, "@every 1h", cfg.DomainSweepSchedule)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("WHOIS_CACHE_TTL", "30s")
	t.Setenv("RATE_LIMIT_BURST", "3")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 30*time.Second, cfg.Whois.CacheTTL)
	assert.Equal(t, 3, cfg.RateLimit.Burst)
}

func TestValidate(t *testing.T) {
	cfg := Config{JWT: JWTConfig{TTL: time.Hour}}
	assert.Error(t, cfg.Validate())

	cfg.JWT.Secret = "short"
	assert.Error(t, cfg.Validate())

	cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, cfg.Validate())
}

func TestAllowedOrigins(t *testing.T) {
	assert.Nil(t, Config{CORSOrigins: "*"}.AllowedOrigins())
	assert.Equal(t,
		[]string{"http://a.test", "http://b.test"},
		Config{CORSOrigins: " http://a.test, ,http://b.test"}.AllowedOrigins(),
	)
}

package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	assert.True(t, cfg.Business.MRFSuperadminThreshold.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, "uploads", cfg.Storage.UploadDir)
}

func TestNew_FromEnv(t *testing.T) {
	t.Setenv("AUTH_LOCKOUT_DURATION", "30m")
	t.Setenv("MRF_SUPERADMIN_THRESHOLD", "5000.50")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := New()

	assert.Equal(t, 30*time.Minute, cfg.Auth.LockoutDuration)
	assert.Equal(t, "5000.5", cfg.Business.MRFSuperadminThreshold.String())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 0, cfg.Redis.DB)
}

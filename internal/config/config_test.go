package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 1, cfg.App.BodyLimitMB)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, 120*time.Second, cfg.Ai.AgentTimeout)
}

func TestLoadReadsEnvironmentOverrides(t *testing.T) {
	t.Setenv("BODY_LIMIT_MB", "4")
	t.Setenv("SESSION_TTL", "30m")

	cfg := Load()

	assert.Equal(t, 4, cfg.App.BodyLimitMB)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
}

func TestNonNumericBodyLimitFallsBack(t *testing.T) {
	t.Setenv("BODY_LIMIT_MB", "not-a-number")

	cfg := Load()

	assert.Equal(t, 1, cfg.App.BodyLimitMB)
}

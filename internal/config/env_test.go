package config

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_MAX_OPEN_CONNS", "42")
	t.Setenv("AUTH_SECURE_COOKIES", "true")

	cfg := &Config{}
	setDefaults(cfg)

	require.NoError(t, applyEnvOverrides(cfg))

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 42, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Auth.SecureCookies)
}

func TestApplyEnvOverridesLeavesUnsetFieldsAlone(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	mode := cfg.Server.Mode

	require.NoError(t, applyEnvOverrides(cfg))

	assert.Equal(t, mode, cfg.Server.Mode)
}

func TestApplyEnvOverridesRejectsMalformedValues(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "plenty")

	cfg := &Config{}
	err := applyEnvOverrides(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_MAX_OPEN_CONNS")
}

func TestAssignFromStringParsesDurations(t *testing.T) {
	var holder struct {
		Timeout time.Duration
	}
	field := reflect.ValueOf(&holder).Elem().Field(0)

	require.NoError(t, assignFromString(field, "90s"))
	assert.Equal(t, 90*time.Second, holder.Timeout)

	assert.Error(t, assignFromString(field, "90"), "plain integers are not durations")
}

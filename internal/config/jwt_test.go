package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig_DefaultExpiration(t *testing.T) {
	cfg, err := NewJWTConfig("test-secret-key", 0)
	require.NoError(t, err)
	assert.Equal(t, "test-secret-key", cfg.Secret)
	assert.Equal(t, 24, cfg.ExpirationHours, "should use default expiration of 24 hours")
}

func TestNewJWTConfig_CustomExpiration(t *testing.T) {
	cfg, err := NewJWTConfig("s", 48)
	require.NoError(t, err)
	assert.Equal(t, 48, cfg.ExpirationHours)
}

func TestNewJWTConfig_Errors(t *testing.T) {
	_, err := NewJWTConfig("", 24)
	assert.Error(t, err)

	_, err = NewJWTConfig("s", -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 1 hour")
}

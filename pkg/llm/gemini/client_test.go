package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurel42/zonepoi/pkg/config"
)

func TestHealthCheck_NoAPIKey(t *testing.T) {
	c, err := NewClient(config.LLMConfig{}, nil, nil)
	require.NoError(t, err)
	err = c.HealthCheck(context.Background())
	assert.Error(t, err)
}

func TestHealthCheck_WithAPIKeyTestMode(t *testing.T) {
	t.Setenv("TEST_MODE", "true")
	c, err := NewClient(config.LLMConfig{APIKey: "dummy_key", Model: "gemini-2.5-flash-lite"}, nil, nil)
	require.NoError(t, err)
	err = c.HealthCheck(context.Background())
	assert.NoError(t, err)
}

func TestGenerateText_NotConfigured(t *testing.T) {
	c, err := NewClient(config.LLMConfig{}, nil, nil)
	require.NoError(t, err)
	_, err = c.GenerateText(context.Background(), "rewrite", "hello")
	assert.Error(t, err)
}

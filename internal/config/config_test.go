package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	base := func() *Config {
		c := defaults()
		c.JWTSecret = "secret"
		return c
	}

	assert.NoError(t, base().Validate())

	c := base()
	c.JWTSecret = ""
	assert.Error(t, c.Validate())

	c = base()
	c.StorageBackend = "postgres"
	assert.Error(t, c.Validate(), "postgres without a DSN")
	c.PostgresDSN = "postgres://localhost/stackhabit"
	assert.NoError(t, c.Validate())

	c = base()
	c.StorageBackend = "redis"
	assert.Error(t, c.Validate())

	c = base()
	c.Env = "prod"
	assert.Error(t, c.Validate())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("JWT_KEY", "from-env")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	c := defaults()
	overrideFromEnv(c)

	assert.Equal(t, "9999", c.Port)
	assert.Equal(t, "from-env", c.JWTSecret)
	require.True(t, c.OpenAI.Enabled())
	assert.Equal(t, "gpt-3.5-turbo", c.OpenAI.Model)
}

func TestOpenAIDisabledByDefault(t *testing.T) {
	assert.False(t, defaults().OpenAI.Enabled())
}

package chatexchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("CHATEXCHANGE_SITE", "MSE")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, SiteMetaStackExchange, cfg.Site)
	assert.NotNil(t, cfg.sleep)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, SiteStackExchange, cfg.Site)
	assert.NotNil(t, cfg.sleep)
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv("CHATEXCHANGE_EMAIL", "bot@example.com")
	t.Setenv("CHATEXCHANGE_PASSWORD", "hunter2")

	creds, err := CredentialsFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "bot@example.com", creds.Email)
	assert.Equal(t, "hunter2", creds.Password)
}

func TestSiteNormalize(t *testing.T) {
	site, aliased, err := Site("SO").normalize()
	require.NoError(t, err)
	assert.False(t, aliased)
	assert.Equal(t, SiteStackOverflow, site)

	site, aliased, err = Site("MSO").normalize()
	require.NoError(t, err)
	assert.True(t, aliased)
	assert.Equal(t, SiteMetaStackExchange, site)

	_, _, err = Site("fidonet").normalize()
	require.Error(t, err)
	assert.True(t, IsPrecondition(err))
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", c.Server.Port)
	assert.Equal(t, uint64(2048), c.Chain.ChunkSize)
	assert.Equal(t, "https://gateway.pinata.cloud/ipfs/", c.Pinata.GatewayURL)
	assert.Equal(t, 24*time.Hour, c.Auth.SessionTTL)
	assert.Equal(t, 5*time.Minute, c.Auth.ChallengeTTL)
	assert.Equal(t, "chain", c.Catalog.Source)
	assert.Equal(t, 8, c.Catalog.Fanout)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("CATALOG_SOURCE", "pins")
	t.Setenv("CHAIN_RPCURL", "http://localhost:8545")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", c.Server.Port)
	assert.Equal(t, "pins", c.Catalog.Source)
	assert.Equal(t, "http://localhost:8545", c.Chain.RPCURL)
}

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/observable-snapshots-go/example/shared/config"
)

func Test_PostgresPGXPoolConfig_AppliesPoolSettings(t *testing.T) {
	// act
	cfg, err := config.PostgresPGXPoolConfig(config.PostgresDefaultDSN())

	// assert
	require.NoError(t, err)
	assert.Equal(t, int32(5), cfg.MaxConns)
	assert.Equal(t, int32(1), cfg.MinConns)
	assert.Equal(t, 5*time.Second, cfg.ConnConfig.ConnectTimeout)
	assert.Equal(t, "snapshots", cfg.ConnConfig.Database)
}

func Test_PostgresPGXPoolConfig_RejectsInvalidDSN(t *testing.T) {
	// act
	_, err := config.PostgresPGXPoolConfig("postgres://localhost:notaport/db")

	// assert
	assert.Error(t, err)
}

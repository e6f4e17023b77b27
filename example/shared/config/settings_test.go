package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/observable-snapshots-go/example/shared/config"
)

func Test_NewViper_Defaults(t *testing.T) {
	// act
	v := config.NewViper()

	// assert
	assert.Equal(t, config.PostgresDefaultDSN(), v.GetString(config.KeyPostgresDSN))
	assert.Equal(t, config.DriverPGX, v.GetString(config.KeyPostgresDriver))
	assert.Equal(t, "tasks", v.GetString(config.KeyPostgresTable))
	assert.Equal(t, time.Second, v.GetDuration(config.KeyPollInterval))
	assert.False(t, v.GetBool(config.KeyObservability))
}

func Test_NewViper_EnvironmentOverridesDefaults(t *testing.T) {
	// arrange
	t.Setenv("SNAPSHOTWATCH_POSTGRES_TABLE", "chores")
	t.Setenv("SNAPSHOTWATCH_POLL_INTERVAL", "250ms")
	t.Setenv("SNAPSHOTWATCH_OBSERVABILITY_ENABLED", "true")

	// act
	v := config.NewViper()

	// assert
	assert.Equal(t, "chores", v.GetString(config.KeyPostgresTable))
	assert.Equal(t, 250*time.Millisecond, v.GetDuration(config.KeyPollInterval))
	assert.True(t, v.GetBool(config.KeyObservability))
}

func Test_ParseLogLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "debug", expected: "DEBUG"},
		{input: "WARN", expected: "WARN"},
		{input: "error", expected: "ERROR"},
		{input: "warn+2", expected: "WARN+2"},
		{input: "INFO", expected: "INFO"},
		{input: "", expected: "INFO"},
		{input: "verbose", expected: "INFO"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, config.ParseLogLevel(tc.input).String())
		})
	}
}

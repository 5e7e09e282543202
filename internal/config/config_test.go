package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "frontdesk.db", c.DatabaseDSN)
	assert.Equal(t, "Europe/Rome", c.Location)
	assert.Equal(t, "06:30", c.Cutoff)
	assert.Equal(t, 60*time.Second, c.TickInterval)
	assert.Equal(t, 10*time.Minute, c.UpcomingWindow)
	assert.Equal(t, 2, c.PassFollowUpDays)
	assert.Equal(t, "[NO RECUPERO]", c.ExcludedNoteMarker)
	require.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty dsn", func(c *Config) { c.DatabaseDSN = "" }},
		{"bad cutoff", func(c *Config) { c.Cutoff = "6.30" }},
		{"zero tick", func(c *Config) { c.TickInterval = 0 }},
		{"negative window", func(c *Config) { c.UpcomingWindow = -time.Minute }},
		{"negative days", func(c *Config) { c.PassFollowUpDays = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			require.Error(t, c.Validate())
		})
	}
}

func TestLoadConfig_UsesDefaultsWithoutOverrides(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"desk"}

	cfg := LoadConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "06:30", cfg.Cutoff)
	assert.Equal(t, 60*time.Second, cfg.TickInterval)
}

func TestLoadConfig_PanicsOnInvalidResult(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"desk", "-t", "0"}

	require.Panics(t, func() { LoadConfig() })
}

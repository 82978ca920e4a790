package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"seats": 5,
		"dealer_fee_cents": 250,
		"salvo_threshold_cents": 2000,
		"stake_mode": "all"
	}`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 5, cfg.Seats)
	require.Equal(t, int64(250), cfg.DealerFee)
	require.Equal(t, int64(2000), cfg.SalvoThreshold)
	require.Equal(t, StakeAll, cfg.StakeMode)
	require.Equal(t, 2, cfg.MaxExchange, "unset fields keep their defaults")
	require.True(t, cfg.AllowSocieta)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"seats": 14}`), 0644))
	_, err = LoadConfig(path)
	var malformed *MalformedConfigurationError
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, "seats", malformed.Field)
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name  string
		tweak func(*Config)
		field string
	}{
		{"too few seats", func(c *Config) { c.Seats = 1 }, "seats"},
		{"deal does not fit the deck", func(c *Config) { c.Seats = 14 }, "seats"},
		{"unknown suit set", func(c *Config) { c.DeckVariant = "poker" }, "deck_variant"},
		{"negative fee", func(c *Config) { c.DealerFee = -1 }, "dealer_fee_cents"},
		{"negative threshold", func(c *Config) { c.SalvoThreshold = -5 }, "salvo_threshold_cents"},
		{"negative buco cap", func(c *Config) { c.MaxBucoEntries = -1 }, "max_buco_entries"},
		{"exchange above hand size", func(c *Config) { c.MaxExchange = 4 }, "max_exchange"},
		{"unknown stake mode", func(c *Config) { c.StakeMode = "house" }, "stake_mode"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.tweak(&cfg)
			err := cfg.Validate()
			var malformed *MalformedConfigurationError
			require.ErrorAs(t, err, &malformed)
			require.Equal(t, tc.field, malformed.Field)
		})
	}

	require.NoError(t, DefaultConfig().Validate())

	ten := DefaultConfig()
	ten.Seats = 10
	require.NoError(t, ten.Validate(), "ten seats still fit: thirty dealt cards plus the carta in mezzo")
}

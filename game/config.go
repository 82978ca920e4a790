package game

import (
	"encoding/json"
	"fmt"
	"os"
)

// StakeMode selects who seeds the opening pot of a table's first hand.
type StakeMode string

const (
	StakeDealer StakeMode = "dealer" // only the dealer antes the fee
	StakeAll    StakeMode = "all"    // every seat antes the fee
)

// Config holds the table rules for a hand. Amounts are integer cents.
type Config struct {
	Seats               int       `json:"seats"`
	DeckVariant         string    `json:"deck_variant"`
	DealerFee           int64     `json:"dealer_fee_cents"`
	SalvoThreshold      int64     `json:"salvo_threshold_cents"`   // 0 disables forced payout
	SalvoOnFourWithZero bool      `json:"salvo_on_four_with_zero"` // 1-1-1-0 rollover by table agreement
	AllowSocieta        bool      `json:"allow_societa"`
	MaxBucoEntries      int       `json:"max_buco_entries"`
	MaxExchange         int       `json:"max_exchange"`
	StakeMode           StakeMode `json:"stake_mode"`
}

func DefaultConfig() Config {
	return Config{
		Seats:               4,
		DeckVariant:         VariantItaliana,
		DealerFee:           100,
		SalvoThreshold:      0,
		SalvoOnFourWithZero: false,
		AllowSocieta:        true,
		MaxBucoEntries:      2,
		MaxExchange:         2,
		StakeMode:           StakeDealer,
	}
}

// LoadConfig reads a JSON config file. Missing fields keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every field and returns a MalformedConfigurationError
// naming the first offending one.
func (c Config) Validate() error {
	if 3*c.Seats+1 > 40 {
		return &MalformedConfigurationError{Field: "seats", Reason: fmt.Sprintf("deal of %d seats does not fit a 40 card deck", c.Seats)}
	}
	if c.Seats < 2 || c.Seats > 10 {
		return &MalformedConfigurationError{Field: "seats", Reason: fmt.Sprintf("want 2..10, got %d", c.Seats)}
	}
	if _, ok := suitNames[c.DeckVariant]; !ok {
		return &MalformedConfigurationError{Field: "deck_variant", Reason: fmt.Sprintf("unsupported suit set %q", c.DeckVariant)}
	}
	if c.DealerFee < 0 {
		return &MalformedConfigurationError{Field: "dealer_fee_cents", Reason: "must not be negative"}
	}
	if c.SalvoThreshold < 0 {
		return &MalformedConfigurationError{Field: "salvo_threshold_cents", Reason: "must not be negative"}
	}
	if c.MaxBucoEntries < 0 {
		return &MalformedConfigurationError{Field: "max_buco_entries", Reason: "must not be negative"}
	}
	if c.MaxExchange < 0 || c.MaxExchange > 3 {
		return &MalformedConfigurationError{Field: "max_exchange", Reason: fmt.Sprintf("want 0..3, got %d", c.MaxExchange)}
	}
	if c.StakeMode != StakeDealer && c.StakeMode != StakeAll {
		return &MalformedConfigurationError{Field: "stake_mode", Reason: fmt.Sprintf("unknown mode %q", c.StakeMode)}
	}
	return nil
}

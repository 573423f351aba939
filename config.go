package hookchain

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds engine-wide configuration.
type Config struct {
	// StrictKinds enables defense-in-depth validation of registration
	// targets: when a target implements hook.Kinded and its kind differs
	// from the descriptor's declared target kind, registration fails
	// with ErrKindMismatch. Off by default — a mismatched resolver is a
	// caller error, not a runtime-checked one.
	StrictKinds bool `env:"HOOKCHAIN_STRICT_KINDS"`

	// LogBindings emits a debug log line for every primitive
	// subscription the registration runtime installs or removes.
	LogBindings bool `env:"HOOKCHAIN_LOG_BINDINGS"`

	// DefaultKeywordArgs makes new chains deliver keyword-mapped
	// argument bundles unless overridden per chain.
	DefaultKeywordArgs bool `env:"HOOKCHAIN_KEYWORD_ARGS"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		StrictKinds:        false,
		LogBindings:        true,
		DefaultKeywordArgs: false,
	}
}

// ConfigFromEnv builds a Config from HOOKCHAIN_* environment variables,
// starting from DefaultConfig.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("hookchain: parse env config: %w", err)
	}
	return cfg, nil
}

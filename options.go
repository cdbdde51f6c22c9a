package risc0

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/bouewnm/risc0/wireformat"
)

// validate is a package-level singleton; constructing a validator per
// call is expensive.
var validate = validator.New()

// Limits bounds the per-segment resources a guest may consume. Zero
// means unbounded, which is the default: the host ABI itself imposes no
// bound, so any limit is a local policy choice.
type Limits struct {
	// MaxJournalBytes caps the number of bytes committed to the journal
	// in one segment. Exceeding it panics, since bytes already sent to
	// the host cannot be taken back.
	MaxJournalBytes int `validate:"gte=0"`

	// MaxAssumptions caps the number of verify calls in one segment.
	// Exceeding it returns a typed error before any state changes.
	MaxAssumptions int `validate:"gte=0"`
}

type envConfig struct {
	codec  wireformat.Codec
	limits Limits
}

func defaultEnvConfig() envConfig {
	return envConfig{codec: wireformat.JSONCodec{}}
}

// Option configures an Env.
type Option func(*envConfig)

// WithCodec selects the structured-serialization codec used by the typed
// read/write paths. The default is the JSON codec.
func WithCodec(c wireformat.Codec) Option {
	return func(cfg *envConfig) {
		if c != nil {
			cfg.codec = c
		}
	}
}

// WithMaxJournalBytes caps per-segment journal growth.
func WithMaxJournalBytes(n int) Option {
	return func(cfg *envConfig) {
		cfg.limits.MaxJournalBytes = n
	}
}

// WithMaxAssumptions caps per-segment verify calls.
func WithMaxAssumptions(n int) Option {
	return func(cfg *envConfig) {
		cfg.limits.MaxAssumptions = n
	}
}

func applyOptions(opts ...Option) (envConfig, error) {
	cfg := defaultEnvConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := validate.Struct(&cfg.limits); err != nil {
		return cfg, fmt.Errorf("risc0: invalid limits: %w", err)
	}
	return cfg, nil
}

package wire

import (
	"os"
	"strconv"

	"github.com/rs/zerolog"
)

// DefaultMaxDepth bounds dictionary nesting unless Config.MaxDepth says otherwise
const DefaultMaxDepth = 512

// Config controls optional decoder and encoder behaviors.
// The zero value is usable: MaxDepth <= 0 means DefaultMaxDepth.
type Config struct {
	// MaxDepth is the deepest dictionary nesting accepted on decode and encode.
	// Untrusted input could otherwise recurse until the stack is exhausted.
	MaxDepth int

	// StrictPadding rejects String payloads whose padding bytes are not zero.
	// The engine always writes zeros; the default accepts anything.
	StrictPadding bool

	// Logger receives debug events, e.g. dictionary entries dropped for a null key.
	Logger zerolog.Logger
}

// envConfig is read once from the environment and never modified.
var envConfig = loadEnvConfig()

func loadEnvConfig() Config {
	c := Config{
		MaxDepth: DefaultMaxDepth,
		Logger:   zerolog.Nop(),
	}
	// Optional env toggles for test harnesses and the CLI.
	if v := os.Getenv("GDVARIANT_STRICT_PADDING"); v == "1" || v == "true" {
		c.StrictPadding = true
	}
	if v := os.Getenv("GDVARIANT_MAX_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxDepth = n
		}
	}
	return c
}

// DefaultConfig returns the defaults, including any environment overrides
func DefaultConfig() Config {
	return envConfig
}

func (c Config) maxDepth() int {
	if c.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.MaxDepth
}

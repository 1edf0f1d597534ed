package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the tunables history.Options and the recorder's grouping
// rule need. Zero-value fields left unset by a loaded file keep
// Default's values, since Load starts from Default and unmarshals on
// top of it.
type Config struct {
	// Depth is how many undo-able events a branch retains: once a branch
	// holds more than Depth+20 events, the oldest are evicted until Depth
	// remain.
	Depth int `toml:"depth"`
	// NewGroupDelay is, in milliseconds, how long a gap between two
	// transforms must be before they start a new undo event rather than
	// joining the previous one.
	NewGroupDelay int64 `toml:"new_group_delay_ms"`
	// PreserveItems keeps individual items instead of merging adjacent
	// steps, trading memory for exact collaborative rebasing fidelity.
	PreserveItems bool `toml:"preserve_items"`
}

// Default is the configuration used when no file is present, matching
// ProseMirror's own history plugin defaults (depth 100, a half-second
// grouping window).
func Default() Config {
	return Config{Depth: 100, NewGroupDelay: 500, PreserveItems: false}
}

// Load reads and parses a TOML file at path into a Config seeded with
// Default's values. A missing file is not an error: Default is
// returned unchanged.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return LoadBytes(data)
}

// LoadBytes parses TOML data into a Config seeded with Default's values.
func LoadBytes(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing history config: %w", err)
	}
	return cfg, nil
}

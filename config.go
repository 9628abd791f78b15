package udc

import (
	"fmt"
	"os"
	"time"

	"github.com/dealcipher/udc/money"
	"gopkg.in/yaml.v3"
)

// Config governs cross-cutting engine behavior: how strict validation is,
// a named default rounding mode, and what "today" means for profile
// effective-date resolution when the caller does not supply a deal date.
// DefaultRoundingMode is resolved by RoundingMode() but is not read by the
// pipeline: P5/P6 round payments half-even unless a ProgramProfile selects
// round-up or round-down.
type Config struct {
	StrictMode         bool         `yaml:"strict_mode"`
	DefaultRoundingMode string      `yaml:"default_rounding_mode"` // "half_even", "half_up", "half_down", "ceiling", "floor"
	EffectiveDate      *time.Time  `yaml:"effective_date,omitempty"`
}

// DefaultConfig returns the engine's out-of-the-box configuration: lenient
// (warnings only), banker's rounding, effective date resolved at run time.
func DefaultConfig() Config {
	return Config{StrictMode: false, DefaultRoundingMode: "half_even"}
}

// RoundingMode resolves the configured rounding-mode name to a money.RoundingMode.
func (c Config) RoundingMode() money.RoundingMode {
	switch c.DefaultRoundingMode {
	case "half_up":
		return money.RoundHalfUp
	case "half_down":
		return money.RoundHalfDown
	case "ceiling":
		return money.RoundCeiling
	case "floor":
		return money.RoundFloor
	default:
		return money.RoundHalfEven
	}
}

// LoadConfig reads a YAML configuration file from path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

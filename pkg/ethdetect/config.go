package ethdetect

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/ethdetect/pkg/chip"
	"github.com/OpenTraceLab/ethdetect/pkg/mdio"
	"github.com/OpenTraceLab/ethdetect/pkg/regio"
)

// Backend names accepted in Config.Backend.
const (
	BackendDevMem = "devmem"
	BackendSim    = "sim"
)

// Config controls a detection run.
type Config struct {
	// Chip is the SoC generation, found by the caller's identification step.
	Chip chip.Generation `yaml:"chip"`

	// Register access
	Backend string `yaml:"backend"` // devmem or sim
	DevMem  string `yaml:"devmem"`  // device path for the devmem backend

	// MDIO readiness polling
	PollAttempts int           `yaml:"poll_attempts"`
	PollInterval time.Duration `yaml:"poll_interval"`

	// Section is the document section the parameters go under.
	Section string `yaml:"section"`
}

// DefaultConfig returns the settings used on real hardware.
func DefaultConfig() *Config {
	return &Config{
		Chip:         chip.Unknown,
		Backend:      BackendDevMem,
		DevMem:       regio.DevMemPath,
		PollAttempts: mdio.DefaultPollAttempts,
		PollInterval: mdio.DefaultPollInterval,
		Section:      "ethernet",
	}
}

// Validate checks the configuration and fills in zero values.
func (c *Config) Validate() error {
	switch c.Backend {
	case "":
		c.Backend = BackendDevMem
	case BackendDevMem, BackendSim:
	default:
		return fmt.Errorf("unknown backend %q (supported: %s, %s)", c.Backend, BackendDevMem, BackendSim)
	}
	if c.DevMem == "" {
		c.DevMem = regio.DevMemPath
	}
	if c.PollAttempts < 0 {
		return fmt.Errorf("poll attempts must not be negative, got %d", c.PollAttempts)
	}
	if c.PollAttempts == 0 {
		c.PollAttempts = mdio.DefaultPollAttempts
	}
	if c.PollInterval < 0 {
		return fmt.Errorf("poll interval must not be negative, got %v", c.PollInterval)
	}
	if c.PollInterval == 0 {
		c.PollInterval = mdio.DefaultPollInterval
	}
	if c.Chip != chip.Unknown && !c.Chip.Known() {
		return fmt.Errorf("unsupported chip generation %v", c.Chip)
	}
	return nil
}

// MDIOOptions converts the polling settings.
func (c *Config) MDIOOptions() mdio.Options {
	return mdio.Options{
		PollAttempts: c.PollAttempts,
		PollInterval: c.PollInterval,
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

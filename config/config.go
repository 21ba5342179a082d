// Package config loads the mtc configuration: embedded defaults, an
// optional YAML file on top, then environment overrides.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/mtc/mtcerr"
)

// ErrInvalidConfig is returned for configuration that fails to parse or
// validate.
var ErrInvalidConfig = fmt.Errorf("%w: config: invalid configuration", mtcerr.ErrConfiguration)

//go:embed default.yaml
var DefaultYAML []byte

// Environment variables that override file settings.
const (
	EnvLogLevel = "MTC_LOG_LEVEL"
	EnvBackend  = "MTC_BACKEND"
	EnvChains   = "MTC_CHAINS"
)

// Config is the complete mtc configuration.
type Config struct {
	Logging          Logging          `yaml:"logging" json:"logging"`
	Sampler          Sampler          `yaml:"sampler" json:"sampler"`
	Convergence      Convergence      `yaml:"convergence" json:"convergence"`
	Parameterization Parameterization `yaml:"parameterization" json:"parameterization"`
}

// Logging selects the slog level and handler.
type Logging struct {
	Level  string `yaml:"level" json:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" json:"format" validate:"oneof=text json"`
}

// Sampler holds the backend and chain settings used by "mtc run" and the
// chain count used by "mtc diagnose".
type Sampler struct {
	Backend              string `yaml:"backend" json:"backend" validate:"oneof=synthetic replay"`
	Chains               int    `yaml:"chains" json:"chains" validate:"min=2"`
	TuningIterations     int    `yaml:"tuning_iterations" json:"tuning_iterations" validate:"min=0"`
	SimulationIterations int    `yaml:"simulation_iterations" json:"simulation_iterations" validate:"min=4"`
	Seed                 uint64 `yaml:"seed" json:"seed"`
}

// Convergence holds the PSRF threshold; a parameter is converged when its
// PSRF does not exceed it.
type Convergence struct {
	PSRFThreshold float64 `yaml:"psrf_threshold" json:"psrf_threshold" validate:"gt=1"`
}

// Parameterization holds the default model and the spanning-tree search
// settings. A node-split model also needs a split comparison, which is
// only given on the command line.
type Parameterization struct {
	Model         string `yaml:"model" json:"model" validate:"oneof=consistency inconsistency node-split"`
	Strategy      string `yaml:"strategy" json:"strategy" validate:"oneof=dfs bfs"`
	MaxExpansions int    `yaml:"max_expansions" json:"max_expansions" validate:"min=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default parses the embedded defaults.
func Default() (*Config, error) {
	return parse(DefaultYAML, nil)
}

// Load reads path over the embedded defaults. An empty path yields the
// defaults. Environment overrides are not applied; see ApplyEnv.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return parse(DefaultYAML, data)
}

func parse(layers ...[]byte) (*Config, error) {
	cfg := &Config{}
	for _, data := range layers {
		if len(data) == 0 {
			continue
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parsing: %v", ErrInvalidConfig, err)
		}
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Sampler.Backend = strings.ToLower(strings.TrimSpace(c.Sampler.Backend))
	c.Parameterization.Model = strings.ToLower(strings.TrimSpace(c.Parameterization.Model))
	c.Parameterization.Strategy = strings.ToLower(strings.TrimSpace(c.Parameterization.Strategy))
}

// Validate checks every field constraint.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ApplyEnv overrides settings from MTC_LOG_LEVEL, MTC_BACKEND and
// MTC_CHAINS, using lookup to read the environment, and revalidates.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvBackend); ok && v != "" {
		c.Sampler.Backend = v
	}
	if v, ok := lookup(EnvChains); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, EnvChains, v)
		}
		c.Sampler.Chains = n
	}
	c.normalize()
	return c.Validate()
}

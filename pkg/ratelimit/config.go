package ratelimit

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LimitConfig describes the admission thresholds for one protected resource.
// A LimitConfig is a value and never mutated after registration.
type LimitConfig struct {
	// CallsPerMinute is the maximum number of calls admitted per minute window
	CallsPerMinute int `yaml:"calls_per_minute"`

	// CallsPerHour is the maximum number of calls admitted per hour window
	CallsPerHour int `yaml:"calls_per_hour"`

	// BurstSize is reserved for a future burst allowance. It is parsed and
	// validated but not consulted by the admission algorithm.
	BurstSize int `yaml:"burst_size,omitempty"`
}

// Validate checks if a LimitConfig is valid.
func (c LimitConfig) Validate() error {
	if c.CallsPerMinute <= 0 {
		return ErrNonPositiveMinuteLimit
	}
	if c.CallsPerHour <= 0 {
		return ErrNonPositiveHourLimit
	}
	if c.CallsPerHour < c.CallsPerMinute {
		return ErrHourBelowMinute
	}
	if c.BurstSize < 0 {
		return ErrNegativeBurstSize
	}
	return nil
}

// Config holds limits for a set of named resources, usually loaded from a
// YAML file at process startup.
type Config struct {
	// Resources maps a resource name (e.g. "openai-chat") to its limits
	Resources map[string]LimitConfig `yaml:"resources"`
}

// NewConfig creates an empty Config.
func NewConfig() *Config {
	return &Config{
		Resources: make(map[string]LimitConfig),
	}
}

// LoadConfigFromFile loads limits from a YAML file.
//
// Example:
//
//	resources:
//	  openai-chat:
//	    calls_per_minute: 60
//	    calls_per_hour: 1000
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrInvalidConfig, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %v", ErrInvalidConfig, err)
	}

	if config.Resources == nil {
		config.Resources = make(map[string]LimitConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	for resource, limits := range c.Resources {
		if resource == "" {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, ErrEmptyResource)
		}
		if err := limits.Validate(); err != nil {
			return fmt.Errorf("%w: invalid limits for resource %s: %v", ErrInvalidConfig, resource, err)
		}
	}
	return nil
}

// NewRegistryFromConfig builds a registry with every resource in the config
// registered at full capacity. Intended for the register-then-serve startup
// pattern: call this before concurrent traffic begins.
func NewRegistryFromConfig(config *Config, opts ...Option) (*Registry, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config cannot be nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	registry, err := NewRegistry(opts...)
	if err != nil {
		return nil, err
	}

	for resource, limits := range config.Resources {
		if err := registry.Register(resource, limits); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

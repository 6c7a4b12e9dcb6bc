package ratelimit

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLimitConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  LimitConfig
		wantErr bool
		errType error
	}{
		{
			name:    "valid config",
			config:  LimitConfig{CallsPerMinute: 60, CallsPerHour: 1000},
			wantErr: false,
		},
		{
			name:    "equal minute and hour limits",
			config:  LimitConfig{CallsPerMinute: 60, CallsPerHour: 60},
			wantErr: false,
		},
		{
			name:    "valid with burst size",
			config:  LimitConfig{CallsPerMinute: 60, CallsPerHour: 1000, BurstSize: 10},
			wantErr: false,
		},
		{
			name:    "zero calls per minute",
			config:  LimitConfig{CallsPerMinute: 0, CallsPerHour: 1000},
			wantErr: true,
			errType: ErrNonPositiveMinuteLimit,
		},
		{
			name:    "negative calls per minute",
			config:  LimitConfig{CallsPerMinute: -10, CallsPerHour: 1000},
			wantErr: true,
			errType: ErrNonPositiveMinuteLimit,
		},
		{
			name:    "zero calls per hour",
			config:  LimitConfig{CallsPerMinute: 60, CallsPerHour: 0},
			wantErr: true,
			errType: ErrNonPositiveHourLimit,
		},
		{
			name:    "hour limit below minute limit",
			config:  LimitConfig{CallsPerMinute: 100, CallsPerHour: 50},
			wantErr: true,
			errType: ErrHourBelowMinute,
		},
		{
			name:    "negative burst size",
			config:  LimitConfig{CallsPerMinute: 60, CallsPerHour: 1000, BurstSize: -5},
			wantErr: true,
			errType: ErrNegativeBurstSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Error("Validate() expected error, got nil")
				}
				if err != tt.errType {
					t.Errorf("Validate() error = %v, want %v", err, tt.errType)
				}
			} else {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			}
		})
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := writeConfigFile(t, `
resources:
  openai-chat:
    calls_per_minute: 60
    calls_per_hour: 1000
  anthropic-messages:
    calls_per_minute: 50
    calls_per_hour: 800
    burst_size: 10
`)
		config, err := LoadConfigFromFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFromFile() failed: %v", err)
		}
		if len(config.Resources) != 2 {
			t.Fatalf("len(Resources) = %d, want 2", len(config.Resources))
		}
		openai := config.Resources["openai-chat"]
		if openai.CallsPerMinute != 60 || openai.CallsPerHour != 1000 {
			t.Errorf("openai-chat limits = %+v, want 60/1000", openai)
		}
		anthropic := config.Resources["anthropic-messages"]
		if anthropic.BurstSize != 10 {
			t.Errorf("anthropic-messages burst size = %d, want 10", anthropic.BurstSize)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfigFromFile("nonexistent.yaml")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("LoadConfigFromFile() error = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfigFile(t, "resources: [not a map")
		_, err := LoadConfigFromFile(path)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("LoadConfigFromFile() error = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("invalid limits", func(t *testing.T) {
		path := writeConfigFile(t, `
resources:
  openai-chat:
    calls_per_minute: 0
    calls_per_hour: 1000
`)
		_, err := LoadConfigFromFile(path)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("LoadConfigFromFile() error = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeConfigFile(t, "")
		config, err := LoadConfigFromFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFromFile() failed: %v", err)
		}
		if config.Resources == nil {
			t.Error("Resources map should be initialized")
		}
	})
}

func TestNewRegistryFromConfig(t *testing.T) {
	t.Run("registers all resources", func(t *testing.T) {
		config := &Config{
			Resources: map[string]LimitConfig{
				"openai-chat":        {CallsPerMinute: 60, CallsPerHour: 1000},
				"anthropic-messages": {CallsPerMinute: 50, CallsPerHour: 800},
			},
		}

		registry, err := NewRegistryFromConfig(config)
		if err != nil {
			t.Fatalf("NewRegistryFromConfig() failed: %v", err)
		}
		for name := range config.Resources {
			if _, ok := registry.Get(name); !ok {
				t.Errorf("resource %s should be registered", name)
			}
		}
	})

	t.Run("nil config", func(t *testing.T) {
		_, err := NewRegistryFromConfig(nil)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("NewRegistryFromConfig() error = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("invalid limits", func(t *testing.T) {
		config := &Config{
			Resources: map[string]LimitConfig{
				"openai-chat": {CallsPerMinute: 60, CallsPerHour: 1},
			},
		}
		_, err := NewRegistryFromConfig(config)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("NewRegistryFromConfig() error = %v, want ErrInvalidConfig", err)
		}
	})
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "limits.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/DrDelphi/LuckeeBot/data"
	"github.com/DrDelphi/LuckeeBot/utils"
)

var (
	mu      sync.Mutex
	cfgPath string

	validate = validator.New()
)

// NewConfig - reads the application configuration from the provided path,
// fills in defaults and validates it
func NewConfig(configPath string) (*data.AppConfig, error) {
	bytes, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(bytes)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	cfgPath = configPath
	mu.Unlock()

	return cfg, nil
}

// Parse decodes, defaults and validates a configuration document
func Parse(bytes []byte) (*data.AppConfig, error) {
	cfg := &data.AppConfig{}
	if err := json.Unmarshal(bytes, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyDefaults fills every optional field left empty
func ApplyDefaults(cfg *data.AppConfig) {
	if cfg.Network.Backend == "" {
		cfg.Network.Backend = "wasm"
	}
	if cfg.Network.AddressPrefix == "" {
		if cfg.Network.Backend == "erd" {
			cfg.Network.AddressPrefix = "erd"
		} else {
			cfg.Network.AddressPrefix = "luckee"
		}
	}
	if cfg.Network.TimeoutSeconds == 0 {
		cfg.Network.TimeoutSeconds = int(utils.DefaultHTTPTimeout.Seconds())
	}
	if cfg.BetDenom == "" {
		cfg.BetDenom = utils.DefaultDenom
	}
	if cfg.Storage.Kind == "" {
		cfg.Storage.Kind = "file"
	}
	if cfg.Phases.CommitmentSeconds == 0 && cfg.Phases.RevealSeconds == 0 && cfg.Phases.SettlementSeconds == 0 {
		cfg.Phases.CommitmentSeconds = 6
		cfg.Phases.RevealSeconds = 3
		cfg.Phases.SettlementSeconds = 1
	}
	if cfg.Polling.SessionSeconds == 0 {
		cfg.Polling.SessionSeconds = 5
	}
	if cfg.Polling.StatusSeconds == 0 {
		cfg.Polling.StatusSeconds = 30
	}
}

// Validate checks the struct tags of cfg
func Validate(cfg *data.AppConfig) error {
	if err := validate.Struct(cfg); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return fmt.Errorf("invalid config: %s failed on %s", errs[0].Namespace(), errs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// Save writes cfg back to the path it was loaded from
func Save(cfg *data.AppConfig) error {
	bytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	mu.Lock()
	path := cfgPath
	mu.Unlock()

	if path == "" {
		path = utils.DefaultConfigPath
	}

	return os.WriteFile(path, bytes, 0644)
}

package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/florianilch/seedrine/internal/statestore"
)

// LogFormat represents the logging output format.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// StateStorageType represents the different storage backends supported for
// the credential state record.
type StateStorageType string

const (
	StateStorageTypeFile    StateStorageType = "file"
	StateStorageTypeKeyring StateStorageType = "keyring"
	StateStorageTypeMem     StateStorageType = "mem"
)

// Default configuration values
const (
	DefaultConfigLogFormat    = LogFormatText
	DefaultConfigStateStorage = StateStorageTypeFile
	DefaultConfigOTLPProtocol = "http"
)

// APIConfig holds authentication service configuration.
type APIConfig struct {
	// BaseURL overrides the default service endpoints; empty means the
	// public Seedr endpoints.
	BaseURL string `json:"base_url,omitempty" validate:"omitempty,url"`
}

// StateConfig describes where the credential state record is persisted.
type StateConfig struct {
	Storage StateStorageType `json:"storage" validate:"required,oneof=file keyring mem"`

	// Storage-specific settings (mutually exclusive based on Storage type)
	File        string `json:"file,omitempty"`         // For file storage: path to state file
	KeyringUser string `json:"keyring_user,omitempty"` // For keyring storage: user identifier
}

// NewStateStore creates a state store from the configuration.
func (s *StateConfig) NewStateStore() (statestore.Store, error) {
	switch s.Storage {
	case StateStorageTypeFile:
		return statestore.NewFileStore(s.File)
	case StateStorageTypeKeyring:
		return statestore.NewKeyringStore("seedrine-state", s.KeyringUser)
	case StateStorageTypeMem:
		return statestore.NewMemStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", s.Storage)
	}
}

// OTLPConfig holds optional OTLP log export configuration.
type OTLPConfig struct {
	Endpoint string `json:"endpoint,omitempty"`
	Protocol string `json:"protocol,omitempty" validate:"omitempty,oneof=grpc http stdout"`
	Insecure bool   `json:"insecure,omitempty"`
}

// Config holds the application's configuration.
type Config struct {
	// LogLevel for logging output (defaults to Info if unset).
	LogLevel  slog.Level  `json:"log_level"`
	LogFormat LogFormat   `json:"log_format" validate:"oneof=text json"`
	OTLP      OTLPConfig  `json:"otlp"`
	API       APIConfig   `json:"api"`
	State     StateConfig `json:"state"`
}

// Default creates a new Config with default values applied.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills unset config fields with sensible defaults.
func (c *Config) ApplyDefaults() error {
	if c.LogFormat == "" {
		c.LogFormat = DefaultConfigLogFormat
	}
	if c.State.Storage == "" {
		c.State.Storage = DefaultConfigStateStorage
	}
	if c.OTLP.Endpoint != "" && c.OTLP.Protocol == "" {
		c.OTLP.Protocol = DefaultConfigOTLPProtocol
	}

	// Dynamic defaults based on storage type
	switch c.State.Storage {
	case StateStorageTypeFile:
		if c.State.File == "" {
			configDir, err := os.UserConfigDir()
			if err != nil {
				return fmt.Errorf("state.file required (auto-detect failed: %w)", err)
			}
			c.State.File = filepath.Join(configDir, "seedrine", "state.json")
		}
	case StateStorageTypeKeyring:
		if c.State.KeyringUser == "" {
			currentUser, err := user.Current()
			if err != nil {
				return fmt.Errorf("state.keyring_user required (auto-detect failed: %w)", err)
			}
			c.State.KeyringUser = currentUser.Username
		}
	case StateStorageTypeMem:
		// nothing to configure
	}

	return nil
}

// Validate validates the configuration using struct tags and enum values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	switch c.State.Storage {
	case StateStorageTypeFile:
		if c.State.File == "" {
			return errors.New("file path required for file storage")
		}
	case StateStorageTypeKeyring:
		if c.State.KeyringUser == "" {
			return errors.New("keyring_user required for keyring storage")
		}
	}

	return nil
}

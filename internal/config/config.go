// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-seedkeeper.
//
// go-seedkeeper is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jeremyhahn/go-seedkeeper/pkg/kdf"
	"gopkg.in/yaml.v3"
)

// Device backends
const (
	BackendMemory = "memory"
	BackendFile   = "file"
)

// Identity sources
const (
	IdentityStatic    = "static"
	IdentityMachineID = "machine-id"
)

// Config represents the complete seed keeper configuration
type Config struct {
	Device   DeviceConfig   `yaml:"device" toml:"device"`
	Identity IdentityConfig `yaml:"identity" toml:"identity"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics" toml:"metrics"`
	Password PasswordConfig `yaml:"password" toml:"password"`
}

// DeviceConfig selects the byte device backing the store
type DeviceConfig struct {
	Backend string `yaml:"backend" toml:"backend"` // memory, file
	Path    string `yaml:"path" toml:"path"`       // image path for the file backend
	Size    int    `yaml:"size" toml:"size"`       // device and store size in bytes
}

// IdentityConfig selects the hardware id source
type IdentityConfig struct {
	Source        string `yaml:"source" toml:"source"` // static, machine-id
	ID            string `yaml:"id" toml:"id"`         // 16 hex characters, static source only
	MachineIDPath string `yaml:"machine_id_path" toml:"machine_id_path"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// MetricsConfig controls metrics collection
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled" toml:"enabled"`
	Textfile string `yaml:"textfile" toml:"textfile"`
}

// PasswordConfig holds derivation defaults for the CLI
type PasswordConfig struct {
	DefaultLength  int    `yaml:"default_length" toml:"default_length"`
	DefaultCharset string `yaml:"default_charset" toml:"default_charset"`
}

// Default returns a configuration usable without a config file
func Default() *Config {
	return &Config{
		Device: DeviceConfig{
			Backend: BackendFile,
			Path:    DefaultDevicePath(),
			Size:    4096,
		},
		Identity: IdentityConfig{
			Source:        IdentityMachineID,
			MachineIDPath: "/etc/machine-id",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Password: PasswordConfig{
			DefaultLength:  32,
			DefaultCharset: "base62",
		},
	}
}

// DefaultDevicePath returns the device image location under the user
// config directory
func DefaultDevicePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "seedkeeper.img"
	}
	return filepath.Join(dir, "seedkeeper", "device.img")
}

// Load reads configuration from a YAML or TOML file, chosen by extension,
// on top of Default. An empty path skips the file. Environment variable
// overrides are applied next, then each override in order, and the result
// is validated.
func Load(path string, overrides ...func(*Config)) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)
	for _, override := range overrides {
		override(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	case ".yaml", ".yml", "":
		// #nosec G304 - Config file path is provided by admin/user
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file extension %q (use .yaml, .yml or .toml)", ext)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) {
	// Device
	if backend := os.Getenv("SEEDKEEPER_DEVICE_BACKEND"); backend != "" {
		cfg.Device.Backend = backend
	}
	if path := os.Getenv("SEEDKEEPER_DEVICE_PATH"); path != "" {
		cfg.Device.Path = path
	}
	if size := os.Getenv("SEEDKEEPER_DEVICE_SIZE"); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil {
			log.Printf("Warning: invalid SEEDKEEPER_DEVICE_SIZE value %q, using %d: %v",
				size, cfg.Device.Size, err)
		} else {
			cfg.Device.Size = n
		}
	}

	// Identity
	if source := os.Getenv("SEEDKEEPER_IDENTITY_SOURCE"); source != "" {
		cfg.Identity.Source = source
	}
	if id := os.Getenv("SEEDKEEPER_HWID"); id != "" {
		cfg.Identity.Source = IdentityStatic
		cfg.Identity.ID = id
	}
	if path := os.Getenv("SEEDKEEPER_MACHINE_ID_PATH"); path != "" {
		cfg.Identity.MachineIDPath = path
	}

	// Logging
	if level := os.Getenv("SEEDKEEPER_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("SEEDKEEPER_LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}

	// Metrics
	if enabled := os.Getenv("SEEDKEEPER_METRICS_ENABLED"); enabled != "" {
		b, err := strconv.ParseBool(enabled)
		if err != nil {
			log.Printf("Warning: invalid SEEDKEEPER_METRICS_ENABLED value %q, using %t: %v",
				enabled, cfg.Metrics.Enabled, err)
		} else {
			cfg.Metrics.Enabled = b
		}
	}
	if textfile := os.Getenv("SEEDKEEPER_METRICS_TEXTFILE"); textfile != "" {
		cfg.Metrics.Textfile = textfile
	}

	// Password defaults
	if length := os.Getenv("SEEDKEEPER_PASSWORD_LENGTH"); length != "" {
		n, err := strconv.Atoi(length)
		if err != nil {
			log.Printf("Warning: invalid SEEDKEEPER_PASSWORD_LENGTH value %q, using %d: %v",
				length, cfg.Password.DefaultLength, err)
		} else {
			cfg.Password.DefaultLength = n
		}
	}
	if charset := os.Getenv("SEEDKEEPER_PASSWORD_CHARSET"); charset != "" {
		cfg.Password.DefaultCharset = charset
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate device
	switch c.Device.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Device.Path == "" {
			return fmt.Errorf("device path is required for the file backend")
		}
	default:
		return fmt.Errorf("invalid device backend: %s (must be memory or file)", c.Device.Backend)
	}
	if c.Device.Size < 4 || c.Device.Size > 65535 {
		return fmt.Errorf("invalid device size: %d (must be 4-65535)", c.Device.Size)
	}

	// Validate identity
	switch c.Identity.Source {
	case IdentityStatic:
		if c.Identity.ID == "" {
			return fmt.Errorf("identity id is required for the static source")
		}
	case IdentityMachineID:
		if c.Identity.MachineIDPath == "" {
			return fmt.Errorf("identity machine_id_path is required for the machine-id source")
		}
	default:
		return fmt.Errorf("invalid identity source: %s (must be static or machine-id)", c.Identity.Source)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"json": true, "text": true,
	}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Logging.Format)
	}

	// Validate password defaults
	if c.Password.DefaultLength < kdf.MinPasswordLength || c.Password.DefaultLength > kdf.MaxPasswordLength {
		return fmt.Errorf("invalid password default_length: %d (must be %d-%d)",
			c.Password.DefaultLength, kdf.MinPasswordLength, kdf.MaxPasswordLength)
	}
	if _, err := kdf.ParseCharset(c.Password.DefaultCharset); err != nil {
		return fmt.Errorf("invalid password default_charset: %s (must be base62, base94, letters, or digits)",
			c.Password.DefaultCharset)
	}

	return nil
}

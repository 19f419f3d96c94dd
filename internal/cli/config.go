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

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/jeremyhahn/go-seedkeeper/internal/config"
	"github.com/jeremyhahn/go-seedkeeper/pkg/engine"
	"github.com/jeremyhahn/go-seedkeeper/pkg/hwid"
	"github.com/jeremyhahn/go-seedkeeper/pkg/logging"
	"github.com/jeremyhahn/go-seedkeeper/pkg/metrics"
	"github.com/jeremyhahn/go-seedkeeper/pkg/storage"
	"github.com/jeremyhahn/go-seedkeeper/pkg/storage/file"
	"github.com/jeremyhahn/go-seedkeeper/pkg/storage/memory"
	"github.com/spf13/viper"
)

// Config holds global CLI configuration
type Config struct {
	// ConfigFile is the path to the configuration file
	ConfigFile string

	// Backend is the device backend (memory, file)
	Backend string

	// DevicePath is the device image path for the file backend
	DevicePath string

	// DeviceSize is the device size in bytes
	DeviceSize int

	// HWID is a static hardware id as 16 hex characters
	HWID string

	// OutputFormat controls output formatting (json, text, table)
	OutputFormat string

	// Verbose enables verbose logging
	Verbose bool

	// MetricsTextfile is written after every command when set
	MetricsTextfile string

	v *viper.Viper
}

// NewConfig creates a new Config with default values. SEEDKEEPER_CONFIG
// names the config file when --config is not given.
func NewConfig() *Config {
	v := viper.New()
	v.SetEnvPrefix("SEEDKEEPER")
	_ = v.BindEnv("config")

	return &Config{
		OutputFormat: "text",
		v:            v,
	}
}

// sync copies the bound flag and environment values into c
func (c *Config) sync() {
	c.ConfigFile = c.v.GetString("config")
	c.Backend = c.v.GetString("backend")
	c.DevicePath = c.v.GetString("device")
	c.DeviceSize = c.v.GetInt("device-size")
	c.HWID = c.v.GetString("hwid")
	c.OutputFormat = c.v.GetString("output")
	c.Verbose = c.v.GetBool("verbose")
	c.MetricsTextfile = c.v.GetString("metrics-textfile")
}

// Settings loads the seed keeper configuration. Flags given on the command
// line take precedence over the environment and the config file.
func (c *Config) Settings() (*config.Config, error) {
	return config.Load(c.ConfigFile, func(s *config.Config) {
		if c.v.IsSet("backend") {
			s.Device.Backend = c.Backend
		}
		if c.v.IsSet("device") {
			s.Device.Path = c.DevicePath
		}
		if c.v.IsSet("device-size") {
			s.Device.Size = c.DeviceSize
		}
		if c.v.IsSet("hwid") {
			s.Identity.Source = config.IdentityStatic
			s.Identity.ID = c.HWID
		}
		if c.v.IsSet("metrics-textfile") {
			s.Metrics.Enabled = true
			s.Metrics.Textfile = c.MetricsTextfile
		}
		if c.Verbose {
			s.Logging.Level = "debug"
		}
	})
}

// session is an engine opened for a single command
type session struct {
	settings *config.Config
	engine   *engine.Engine
	device   storage.Device
}

// open builds the device, identity provider and engine described by the
// settings. Log records go to logOut.
func (c *Config) open(logOut io.Writer) (*session, error) {
	settings, err := c.Settings()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:  settings.Logging.Level,
		Format: settings.Logging.Format,
		Output: logOut,
	})
	if err != nil {
		return nil, err
	}

	if settings.Metrics.Enabled {
		metrics.Enable()
	} else {
		metrics.Disable()
	}

	provider, err := CreateProvider(settings.Identity)
	if err != nil {
		return nil, err
	}

	dev, err := CreateDevice(settings.Device)
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(dev, provider,
		engine.WithLogger(logger),
		engine.WithCapacity(settings.Device.Size))
	if err != nil {
		_ = dev.Close()
		return nil, err
	}

	return &session{
		settings: settings,
		engine:   eng,
		device:   dev,
	}, nil
}

// Close writes the metrics textfile when configured and closes the device
func (s *session) Close() error {
	var errs []error
	if s.settings.Metrics.Enabled && s.settings.Metrics.Textfile != "" {
		errs = append(errs, metrics.WriteTextfile(s.settings.Metrics.Textfile))
	}
	errs = append(errs, s.device.Close())
	return errors.Join(errs...)
}

// CreateDevice opens the byte device for the configured backend
func CreateDevice(cfg config.DeviceConfig) (storage.Device, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		dev, err := memory.New(cfg.Size)
		if err != nil {
			return nil, fmt.Errorf("failed to create memory device: %w", err)
		}
		return dev, nil
	case config.BackendFile:
		dev, err := file.Open(cfg.Path, cfg.Size)
		if err != nil {
			return nil, fmt.Errorf("failed to open device: %w", err)
		}
		return dev, nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}

// CreateProvider returns the hardware id provider for the configured source
func CreateProvider(cfg config.IdentityConfig) (hwid.Provider, error) {
	switch cfg.Source {
	case config.IdentityStatic:
		id, err := hwid.FromHex(cfg.ID)
		if err != nil {
			return nil, err
		}
		return id, nil
	case config.IdentityMachineID:
		return hwid.MachineID{Path: cfg.MachineIDPath}, nil
	default:
		return nil, fmt.Errorf("unknown identity source: %s", cfg.Source)
	}
}

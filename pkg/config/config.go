// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/suggestd/pkg/defaults"
	apperrors "github.com/NVIDIA/suggestd/pkg/errors"
	"github.com/NVIDIA/suggestd/pkg/logging"
	"github.com/NVIDIA/suggestd/pkg/source"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvConfigFile      = "SUGGESTD_CONFIG"
	EnvPort            = "PORT"
	EnvAdminPort       = "ADMIN_PORT"
	EnvSource          = "SUGGEST_SOURCE"
	EnvRefreshInterval = "REFRESH_INTERVAL"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT_SECONDS"
)

// Config is the complete runtime configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Data    DataConfig    `yaml:"data"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	Port            int           `yaml:"port"`
	AdminPort       int           `yaml:"admin_port"`
	RateLimit       float64       `yaml:"rate_limit"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DataConfig configures where suggestions come from and how often they
// are reloaded.
type DataConfig struct {
	// Dir holds suggestions.json when Source is empty.
	Dir string `yaml:"dir"`
	// Source overrides Dir with any supported location.
	Source          string        `yaml:"source"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	LoadTimeout     time.Duration `yaml:"load_timeout"`
	LockTimeout     time.Duration `yaml:"lock_timeout"`
	NormalizeIDs    bool          `yaml:"normalize_ids"`
	Kubeconfig      string        `yaml:"kubeconfig"`
	OCI             OCIConfig     `yaml:"oci"`
}

// OCIConfig configures registry access for oci:// sources.
type OCIConfig struct {
	PlainHTTP   bool `yaml:"plain_http"`
	InsecureTLS bool `yaml:"insecure_tls"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			RateLimit:       1000,
			RateLimitBurst:  2000,
			MaxBodyBytes:    defaults.MaxRequestBodyBytes,
			ShutdownTimeout: defaults.ServerShutdownTimeout,
		},
		Data: DataConfig{
			Dir:             ".",
			RefreshInterval: defaults.RefreshInterval,
			LoadTimeout:     defaults.SourceLoadTimeout,
			LockTimeout:     defaults.FileLockTimeout,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path (when path
// is not empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			code := apperrors.ErrCodeInternal
			if errors.Is(err, os.ErrNotExist) {
				code = apperrors.ErrCodeNotFound
			}
			return nil, apperrors.WrapWithContext(code, "failed to open config file", err,
				map[string]any{"path": path})
		}
		defer f.Close()

		if err := cfg.decode(f); err != nil {
			return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest, "failed to parse config file", err,
				map[string]any{"path": path})
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse overlays the YAML document data onto the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(bytes.NewReader(data)); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "failed to parse config", err)
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overlays environment variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return envError(EnvPort, v, err)
		}
		c.Server.Port = port
	}

	if v, ok := lookup(EnvAdminPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return envError(EnvAdminPort, v, err)
		}
		c.Server.AdminPort = port
	}

	if v, ok := lookup(logging.EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}

	if v, ok := lookup(EnvSource); ok && v != "" {
		c.Data.Source = v
	}

	if v, ok := lookup(EnvRefreshInterval); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return envError(EnvRefreshInterval, v, err)
		}
		c.Data.RefreshInterval = d
	}

	if v, ok := lookup(EnvShutdownTimeout); ok && v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			return envError(EnvShutdownTimeout, v, err)
		}
		c.Server.ShutdownTimeout = time.Duration(seconds) * time.Second
	}

	return nil
}

func envError(name, value string, cause error) error {
	if cause == nil {
		cause = fmt.Errorf("must be positive")
	}
	return apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest,
		fmt.Sprintf("invalid value for %s", name), cause, map[string]any{"value": value})
}

// DataLocation returns the location suggestions are loaded from.
func (c *Config) DataLocation() string {
	if s := strings.TrimSpace(c.Data.Source); s != "" {
		return s
	}
	return source.ResolveDataPath(c.Data.Dir)
}

// Validate checks the configuration after all layers are applied.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "port out of range",
			map[string]any{"port": c.Server.Port})
	}
	if c.Server.AdminPort < 0 || c.Server.AdminPort > 65535 {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "admin port out of range",
			map[string]any{"adminPort": c.Server.AdminPort})
	}
	if c.Server.AdminPort != 0 && c.Server.AdminPort == c.Server.Port {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "admin port must differ from port",
			map[string]any{"port": c.Server.Port})
	}
	if c.Server.RateLimit < 0 || c.Server.RateLimitBurst < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "rate limit must not be negative")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "max body bytes must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "shutdown timeout must be positive")
	}
	if c.Data.RefreshInterval < defaults.MinRefreshInterval {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "refresh interval too short",
			map[string]any{"interval": c.Data.RefreshInterval.String(), "minimum": defaults.MinRefreshInterval.String()})
	}
	if c.Data.Source == "" && c.Data.Dir == "" {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "data dir or source is required")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "unknown log level",
			map[string]any{"level": c.Logging.Level})
	}
	return nil
}

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

package server

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/NVIDIA/suggestd/pkg/defaults"
	apperrors "github.com/NVIDIA/suggestd/pkg/errors"
)

// Config holds server configuration
type Config struct {
	// Server configuration
	Address string
	Port    int

	// AdminPort serves /health, /ready and /metrics on Address. Zero
	// disables the admin listener.
	AdminPort int

	// Rate limiting configuration. A zero RateLimit disables limiting.
	RateLimit      rate.Limit // requests per second
	RateLimitBurst int        // burst size

	// Request limits
	MaxBodyBytes int64

	// Timeouts
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// NewConfig returns a new Config with built-in defaults. Environment
// overrides are applied by the caller's configuration layer.
func NewConfig() *Config {
	return &Config{
		Address:           "",
		Port:              8080,
		RateLimit:         1000,
		RateLimitBurst:    2000,
		MaxBodyBytes:      defaults.MaxRequestBodyBytes,
		ReadTimeout:       defaults.ServerReadTimeout,
		ReadHeaderTimeout: defaults.ServerReadHeaderTimeout,
		WriteTimeout:      defaults.ServerWriteTimeout,
		IdleTimeout:       defaults.ServerIdleTimeout,
		ShutdownTimeout:   defaults.ServerShutdownTimeout,
	}
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Address, strconv.Itoa(c.Port))
}

// AdminAddr returns the admin listen address, or "" when disabled.
func (c *Config) AdminAddr() string {
	if c.AdminPort == 0 {
		return ""
	}
	return net.JoinHostPort(c.Address, strconv.Itoa(c.AdminPort))
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("port %d out of range", c.Port), map[string]any{"port": c.Port})
	}
	if c.AdminPort < 0 || c.AdminPort > 65535 {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("admin port %d out of range", c.AdminPort), map[string]any{"adminPort": c.AdminPort})
	}
	if c.AdminPort != 0 && c.AdminPort == c.Port {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"admin port must differ from port", map[string]any{"port": c.Port})
	}
	if c.RateLimit < 0 || c.RateLimitBurst < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "rate limit must not be negative")
	}
	if c.MaxBodyBytes <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "max body bytes must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "shutdown timeout must be positive")
	}
	return nil
}

func (c *Config) limiter() *rate.Limiter {
	if c.RateLimit == 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(c.RateLimit, c.RateLimitBurst)
}

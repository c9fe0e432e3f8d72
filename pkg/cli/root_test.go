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

package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/suggestd/pkg/config"
	"github.com/NVIDIA/suggestd/pkg/defaults"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "ADMIN_PORT", "LOG_LEVEL", "SUGGEST_SOURCE", "REFRESH_INTERVAL",
		"SHUTDOWN_TIMEOUT_SECONDS", config.EnvConfigFile} {
		t.Setenv(k, "")
	}
}

// runRoot executes the root command and returns the config the runner saw.
func runRoot(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	var got *config.Config
	cmd := newRootCmd(func(_ context.Context, cfg *config.Config) error {
		got = cfg
		return nil
	})
	err := cmd.Run(context.Background(), append([]string{name}, args...))
	return got, err
}

func TestRootCmd_CommandStructure(t *testing.T) {
	cmd := newRootCmd(nil)

	assert.Equal(t, "suggestd", cmd.Name)
	assert.NotEmpty(t, cmd.Usage)
	assert.NotEmpty(t, cmd.Description)
	assert.NotNil(t, cmd.Action)

	for _, flagName := range []string{"config", "admin-port", "log-level", "source", "refresh-interval", "normalize-ids", "kubeconfig"} {
		found := false
		for _, flag := range cmd.Flags {
			if hasName(flag, flagName) {
				found = true
				break
			}
		}
		assert.True(t, found, "flag %q not found", flagName)
	}
}

func TestRootCmd_PositionalArgs(t *testing.T) {
	clearEnv(t)

	cfg, err := runRoot(t, "127.0.0.1", "9000", "/srv/data")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "127.0.0.1", cfg.Server.Address)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/srv/data/suggestions.json", cfg.DataLocation())
	assert.Equal(t, defaults.RefreshInterval, cfg.Data.RefreshInterval)
	assert.False(t, cfg.Data.NormalizeIDs)
}

func TestRootCmd_RootDir(t *testing.T) {
	clearEnv(t)

	cfg, err := runRoot(t, "0.0.0.0", "8080", "/")
	require.NoError(t, err)
	assert.Equal(t, "suggestions.json", cfg.DataLocation())
}

func TestRootCmd_Flags(t *testing.T) {
	clearEnv(t)

	cfg, err := runRoot(t,
		"--log-level", "debug",
		"--source", "cm://prod/suggestions",
		"--refresh-interval", "30s",
		"--normalize-ids",
		"--admin-port", "9090",
		"localhost", "8080", ".")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "cm://prod/suggestions", cfg.DataLocation())
	assert.Equal(t, 30*time.Second, cfg.Data.RefreshInterval)
	assert.True(t, cfg.Data.NormalizeIDs)
	assert.Equal(t, 9090, cfg.Server.AdminPort)
	assert.Equal(t, "localhost", cfg.Server.Address)
}

func TestRootCmd_ConfigFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "suggestd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 1111
  rate_limit: 5
data:
  refresh_interval: 2m
logging:
  level: warn
`), 0o600))

	t.Run("flag", func(t *testing.T) {
		cfg, err := runRoot(t, "--config", path, "", "8080", "/data")
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.Port, "positional port wins over file")
		assert.Empty(t, cfg.Server.Address)
		assert.InDelta(t, 5, cfg.Server.RateLimit, 0)
		assert.Equal(t, 2*time.Minute, cfg.Data.RefreshInterval)
		assert.Equal(t, "warn", cfg.Logging.Level)
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv(config.EnvConfigFile, path)
		cfg, err := runRoot(t, "--log-level", "error", "", "8080", "/data")
		require.NoError(t, err)

		assert.Equal(t, 2*time.Minute, cfg.Data.RefreshInterval)
		assert.Equal(t, "error", cfg.Logging.Level, "flag wins over file")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := runRoot(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "", "8080", "/data")
		assert.Error(t, err)
	})
}

func TestRootCmd_InvalidArgs(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"two args", []string{"127.0.0.1", "8080"}},
		{"four args", []string{"127.0.0.1", "8080", "/", "extra"}},
		{"port zero", []string{"127.0.0.1", "0", "/"}},
		{"port too large", []string{"127.0.0.1", "65536", "/"}},
		{"port not numeric", []string{"127.0.0.1", "http", "/"}},
		{"bad address", []string{"not an address", "8080", "/"}},
		{"empty dir", []string{"127.0.0.1", "8080", ""}},
		{"bad log level", []string{"--log-level", "loud", "127.0.0.1", "8080", "/"}},
		{"admin port equals port", []string{"--admin-port", "8080", "127.0.0.1", "8080", "/"}},
		{"short interval", []string{"--refresh-interval", "1ms", "127.0.0.1", "8080", "/"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := runRoot(t, tt.args...)
			assert.Error(t, err)
			assert.Nil(t, cfg, "runner must not be invoked")
		})
	}
}

func TestRootCmd_RunnerError(t *testing.T) {
	clearEnv(t)

	want := errors.New("startup failed")
	cmd := newRootCmd(func(context.Context, *config.Config) error { return want })

	err := cmd.Run(context.Background(), []string{name, "127.0.0.1", "8080", "/"})
	assert.ErrorIs(t, err, want)
}

func TestParseAddress(t *testing.T) {
	valid := []string{"", "0.0.0.0", "127.0.0.1", "::", "::1", "localhost", "api.example.com", "My-Host"}
	for _, a := range valid {
		_, err := parseAddress(a)
		assert.NoError(t, err, a)
	}

	invalid := []string{"host name", "bad_host", "-leading", "http://x"}
	for _, a := range invalid {
		_, err := parseAddress(a)
		assert.Error(t, err, a)
	}
}

func hasName(flag cli.Flag, name string) bool {
	if flag == nil {
		return false
	}
	for _, n := range flag.Names() {
		if n == name {
			return true
		}
	}
	return false
}

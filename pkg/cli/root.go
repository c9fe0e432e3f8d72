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
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"
	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/NVIDIA/suggestd/pkg/api"
	"github.com/NVIDIA/suggestd/pkg/config"
	apperrors "github.com/NVIDIA/suggestd/pkg/errors"
)

const (
	name           = "suggestd"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Runner starts the server with a fully resolved configuration.
type Runner func(ctx context.Context, cfg *config.Config) error

// Execute runs the root command with os.Args and exits non-zero on failure.
func Execute() {
	if err := newRootCmd(api.Serve).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(run Runner) *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Usage:                 "Suggestion lookup server",
		ArgsUsage:             "<address> <port> <dir>",
		EnableShellCompletion: true,
		Description: `Serves ranked suggestions for an identifier over HTTP.

Clients POST {"input": "<id>"} to /v1/api/suggest and receive the
precomputed suggestions for that id ordered by ascending cost. Suggestions
are loaded from <dir>/suggestions.json (or --source) and reloaded on a
fixed interval.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to a YAML config file",
				Sources: cli.EnvVars(config.EnvConfigFile),
			},
			&cli.IntFlag{
				Name:  "admin-port",
				Usage: "Port serving /health, /ready and /metrics on <address> (0 disables)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name: "source",
				Usage: `Data location overriding <dir>.
	Supports: file paths, HTTP/HTTPS URLs, ConfigMap URIs (cm://namespace/name[#key])
	and OCI artifacts (oci://registry/repository:tag[#file]).`,
			},
			&cli.DurationFlag{
				Name:  "refresh-interval",
				Usage: "Interval between data reloads (e.g. 15m)",
			},
			&cli.BoolFlag{
				Name:  "normalize-ids",
				Usage: "Apply Unicode NFC normalization to identifiers",
			},
			&cli.StringFlag{
				Name:  "kubeconfig",
				Usage: "Kubeconfig used by ConfigMap sources (default: KUBECONFIG, ~/.kube/config or in-cluster)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			return run(ctx, cfg)
		},
	}
}

// buildConfig layers the config file, environment, positional arguments
// and flags.
func buildConfig(cmd *cli.Command) (*config.Config, error) {
	args := cmd.Args()
	if args.Len() != 3 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("expected 3 arguments <address> <port> <dir>, got %d", args.Len()))
	}

	address, err := parseAddress(args.Get(0))
	if err != nil {
		return nil, err
	}
	port, err := parsePort(args.Get(1))
	if err != nil {
		return nil, err
	}
	dir := args.Get(2)
	if dir == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "dir must not be empty")
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	cfg.Server.Address = address
	cfg.Server.Port = port
	cfg.Data.Dir = dir

	if cmd.IsSet("admin-port") {
		cfg.Server.AdminPort = cmd.Int("admin-port")
	}
	if cmd.IsSet("log-level") {
		cfg.Logging.Level = cmd.String("log-level")
	}
	if cmd.IsSet("source") {
		cfg.Data.Source = cmd.String("source")
	}
	if cmd.IsSet("refresh-interval") {
		cfg.Data.RefreshInterval = cmd.Duration("refresh-interval")
	}
	if cmd.IsSet("normalize-ids") {
		cfg.Data.NormalizeIDs = cmd.Bool("normalize-ids")
	}
	if cmd.IsSet("kubeconfig") {
		cfg.Data.Kubeconfig = cmd.String("kubeconfig")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseAddress accepts an empty string (all interfaces), an IP literal or
// a DNS host name.
func parseAddress(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || net.ParseIP(s) != nil {
		return s, nil
	}
	if errs := validation.IsDNS1123Subdomain(strings.ToLower(s)); len(errs) > 0 {
		return "", apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "invalid address",
			map[string]any{"address": s, "reason": strings.Join(errs, "; ")})
	}
	return s, nil
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || port < 1 || port > 65535 {
		return 0, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "port must be between 1 and 65535",
			map[string]any{"port": s})
	}
	return port, nil
}

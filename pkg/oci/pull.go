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

package oci

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/NVIDIA/suggestd/pkg/defaults"
	apperrors "github.com/NVIDIA/suggestd/pkg/errors"
)

// maxManifestBytes bounds the manifest fetch.
const maxManifestBytes = 4 << 20

// PullOptions configures registry access.
type PullOptions struct {
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
	// MaxBytes caps the extracted file size. Zero uses defaults.MaxDocumentBytes.
	MaxBytes int64
}

// Pull resolves ref against its remote registry and returns the content of
// the selected file.
func Pull(ctx context.Context, ref *Reference, opts PullOptions) ([]byte, error) {
	repo, err := remote.NewRepository(ref.RepositoryName())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "failed to initialize remote repository", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = createAuthClient(opts.PlainHTTP, opts.InsecureTLS)

	slog.Debug("pulling OCI artifact", "reference", ref.String())

	return FetchFile(ctx, repo, ref.Target(), ref.File, opts.MaxBytes)
}

// FetchFile reads the manifest tagged reference from target and returns the
// content of the layer titled name.
func FetchFile(ctx context.Context, target oras.ReadOnlyTarget, reference, name string, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = defaults.MaxDocumentBytes
	}

	fetchOpts := oras.DefaultFetchBytesOptions
	fetchOpts.MaxBytes = maxManifestBytes
	_, raw, err := oras.FetchBytes(ctx, target, reference, fetchOpts)
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeUnavailable, "failed to fetch OCI manifest", err,
			map[string]any{"reference": reference})
	}

	var manifest ociv1.Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "failed to decode OCI manifest", err)
	}

	layer, err := selectLayer(manifest.Layers, name)
	if err != nil {
		return nil, err
	}
	if layer.Size > maxBytes {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "OCI layer too large",
			map[string]any{"size": layer.Size, "limit": maxBytes})
	}

	data, err := content.FetchAll(ctx, target, layer)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeUnavailable, "failed to fetch OCI layer", err)
	}
	return data, nil
}

func selectLayer(layers []ociv1.Descriptor, name string) (ociv1.Descriptor, error) {
	if name == "" {
		if len(layers) == 1 {
			return layers[0], nil
		}
		return ociv1.Descriptor{}, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"artifact has multiple layers, file name required", map[string]any{"layers": len(layers)})
	}

	for _, l := range layers {
		if l.Annotations[ociv1.AnnotationTitle] == name {
			return l, nil
		}
	}
	return ociv1.Descriptor{}, apperrors.NewWithContext(apperrors.ErrCodeNotFound,
		fmt.Sprintf("file %q not found in artifact", name), map[string]any{"layers": len(layers)})
}

// createAuthClient creates an HTTP client with optional TLS configuration
// and Docker credential support.
func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		slog.Debug("docker credential store unavailable", "error", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	client := &auth.Client{
		Client: &http.Client{Transport: transport},
		Cache:  auth.NewCache(),
	}
	if credStore != nil {
		client.Credential = credentials.Credential(credStore)
	}
	return client
}

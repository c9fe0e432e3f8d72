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
	"fmt"
	"strings"

	"github.com/distribution/reference"

	apperrors "github.com/NVIDIA/suggestd/pkg/errors"
)

// URIScheme is the URI scheme for OCI data locations.
const URIScheme = "oci://"

// DefaultTag is applied when a reference carries neither tag nor digest.
const DefaultTag = "latest"

// Reference is a parsed oci:// data location.
type Reference struct {
	// Registry is the OCI registry host (e.g., "ghcr.io", "localhost:5000").
	Registry string
	// Repository is the repository path (e.g., "nvidia/suggestions").
	Repository string
	// Tag is the image tag. Empty when Digest is set.
	Tag string
	// Digest pins the manifest when present.
	Digest string
	// File is the layer title to extract; empty selects the only layer.
	File string
}

// IsOCI reports whether location uses the oci:// scheme.
func IsOCI(location string) bool {
	return strings.HasPrefix(location, URIScheme)
}

// ParseReference parses oci://registry/repository[:tag|@digest][#file].
func ParseReference(location string) (*Reference, error) {
	if !IsOCI(location) {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"not an OCI reference", map[string]any{"location": location})
	}

	raw := strings.TrimPrefix(location, URIScheme)
	var file string
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw, file = raw[:i], raw[i+1:]
	}
	if raw == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "empty OCI reference")
	}

	named, err := reference.ParseNormalizedNamed(raw)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}

	ref := &Reference{
		Registry:   reference.Domain(named),
		Repository: reference.Path(named),
		File:       file,
	}

	if tagged, ok := named.(reference.Tagged); ok {
		ref.Tag = tagged.Tag()
	}
	if digested, ok := named.(reference.Digested); ok {
		ref.Digest = digested.Digest().String()
	}
	if ref.Tag == "" && ref.Digest == "" {
		ref.Tag = DefaultTag
	}

	return ref, nil
}

// Target returns the tag or digest used to resolve the manifest.
// A digest takes precedence over a tag.
func (r *Reference) Target() string {
	if r.Digest != "" {
		return r.Digest
	}
	return r.Tag
}

// RepositoryName returns registry/repository.
func (r *Reference) RepositoryName() string {
	return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
}

// ImageReference returns the Docker-style image reference (without scheme or file).
func (r *Reference) ImageReference() string {
	if r.Digest != "" {
		return fmt.Sprintf("%s@%s", r.RepositoryName(), r.Digest)
	}
	return fmt.Sprintf("%s:%s", r.RepositoryName(), r.Tag)
}

// String returns the full oci:// location.
func (r *Reference) String() string {
	s := URIScheme + r.ImageReference()
	if r.File != "" {
		s += "#" + r.File
	}
	return s
}

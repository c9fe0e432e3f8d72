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

package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/NVIDIA/suggestd/pkg/defaults"
	apperrors "github.com/NVIDIA/suggestd/pkg/errors"
	"github.com/NVIDIA/suggestd/pkg/k8s/client"
	"github.com/NVIDIA/suggestd/pkg/oci"
	"github.com/NVIDIA/suggestd/pkg/serializer"
	"github.com/NVIDIA/suggestd/pkg/suggestion"
)

const (
	// DataFileName is the document read from the data directory.
	DataFileName = "suggestions.json"

	FileURIScheme      = "file://"
	HTTPURIScheme      = "http://"
	HTTPSURIScheme     = "https://"
	ConfigMapURIScheme = "cm://"
)

// Source loads the complete set of suggestion records.
type Source interface {
	Load(ctx context.Context) ([]suggestion.Input, error)
	String() string
}

// Option configures sources created by New.
type Option func(*options)

type options struct {
	kubeClient  client.Interface
	httpReader  *serializer.HttpReader
	ociOptions  oci.PullOptions
	lockTimeout time.Duration
}

// WithKubeClient sets the client used by ConfigMap sources.
func WithKubeClient(c client.Interface) Option {
	return func(o *options) {
		o.kubeClient = c
	}
}

// WithHTTPReader sets the reader used by HTTP sources.
func WithHTTPReader(r *serializer.HttpReader) Option {
	return func(o *options) {
		o.httpReader = r
	}
}

// WithOCIOptions sets registry access options for OCI sources.
func WithOCIOptions(opts oci.PullOptions) Option {
	return func(o *options) {
		o.ociOptions = opts
	}
}

// WithLockTimeout bounds how long a file source waits for its shared lock.
func WithLockTimeout(d time.Duration) Option {
	return func(o *options) {
		o.lockTimeout = d
	}
}

// ResolveDataPath returns the data document path for dir. A root directory
// yields the bare file name, matching the historical behavior.
func ResolveDataPath(dir string) string {
	if dir == "/" || dir == "" {
		return DataFileName
	}
	return filepath.Join(dir, DataFileName)
}

// New returns the Source for location, selected by its scheme.
func New(location string, opts ...Option) (Source, error) {
	o := &options{
		lockTimeout: defaults.FileLockTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}

	location = strings.TrimSpace(location)
	if location == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "data location is empty")
	}

	switch {
	case strings.HasPrefix(location, HTTPURIScheme), strings.HasPrefix(location, HTTPSURIScheme):
		return NewHTTPSource(location, o.httpReader), nil

	case strings.HasPrefix(location, ConfigMapURIScheme):
		namespace, name, key, err := ParseConfigMapURI(location)
		if err != nil {
			return nil, err
		}
		return NewConfigMapSource(namespace, name, key, o.kubeClient), nil

	case oci.IsOCI(location):
		ref, err := oci.ParseReference(location)
		if err != nil {
			return nil, err
		}
		return NewOCISource(ref, o.ociOptions), nil

	case strings.HasPrefix(location, FileURIScheme):
		return NewFileSource(strings.TrimPrefix(location, FileURIScheme), o.lockTimeout), nil

	case strings.Contains(location, "://"):
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"unsupported data location scheme", map[string]any{"location": location})

	default:
		return NewFileSource(location, o.lockTimeout), nil
	}
}

// rawInput mirrors suggestion.Input with presence tracking.
type rawInput struct {
	ID   *string `json:"id" yaml:"id"`
	Name *string `json:"name" yaml:"name"`
	Cost *int    `json:"cost" yaml:"cost"`
}

// Decode parses a data document in the given format into records.
func Decode(format serializer.Format, data []byte, origin string) ([]suggestion.Input, error) {
	raw, err := serializer.Decode[[]rawInput](format, data)
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest, "failed to parse suggestion data", err,
			map[string]any{"source": origin, "format": string(format)})
	}

	records := make([]suggestion.Input, 0, len(raw))
	for i, r := range raw {
		if r.ID == nil || r.Name == nil || r.Cost == nil {
			return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
				fmt.Sprintf("record %d: id, name and cost are required", i),
				map[string]any{"source": origin})
		}
		records = append(records, suggestion.Input{ID: *r.ID, Name: *r.Name, Cost: *r.Cost})
	}
	return records, nil
}

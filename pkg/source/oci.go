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

	"github.com/NVIDIA/suggestd/pkg/defaults"
	"github.com/NVIDIA/suggestd/pkg/oci"
	"github.com/NVIDIA/suggestd/pkg/serializer"
	"github.com/NVIDIA/suggestd/pkg/suggestion"
)

// OCISource pulls the data document out of an OCI artifact.
type OCISource struct {
	ref  *oci.Reference
	opts oci.PullOptions
	pull func(context.Context, *oci.Reference, oci.PullOptions) ([]byte, error)
}

// NewOCISource creates an OCI source.
func NewOCISource(ref *oci.Reference, opts oci.PullOptions) *OCISource {
	return &OCISource{ref: ref, opts: opts, pull: oci.Pull}
}

func (s *OCISource) String() string {
	return s.ref.String()
}

// Load pulls and decodes the document.
func (s *OCISource) Load(ctx context.Context) ([]suggestion.Input, error) {
	pullCtx, cancel := context.WithTimeout(ctx, defaults.OCIPullTimeout)
	defer cancel()

	data, err := s.pull(pullCtx, s.ref, s.opts)
	if err != nil {
		return nil, err
	}

	name := s.ref.File
	if name == "" {
		name = DataFileName
	}
	return Decode(serializer.FormatFromPath(name), data, s.String())
}

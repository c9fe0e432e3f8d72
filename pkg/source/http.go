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
	"errors"
	"net/http"
	"net/url"

	apperrors "github.com/NVIDIA/suggestd/pkg/errors"
	"github.com/NVIDIA/suggestd/pkg/serializer"
	"github.com/NVIDIA/suggestd/pkg/suggestion"
)

// HTTPSource fetches the data document over HTTP(S).
type HTTPSource struct {
	url    string
	reader *serializer.HttpReader
}

// NewHTTPSource creates an HTTP source. A nil reader uses the defaults.
func NewHTTPSource(rawURL string, reader *serializer.HttpReader) *HTTPSource {
	if reader == nil {
		reader = serializer.NewHttpReader()
	}
	return &HTTPSource{url: rawURL, reader: reader}
}

func (s *HTTPSource) String() string {
	return s.url
}

// Load fetches and decodes the document.
func (s *HTTPSource) Load(ctx context.Context) ([]suggestion.Input, error) {
	data, err := s.reader.ReadWithContext(ctx, s.url)
	if err != nil {
		var se *serializer.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, apperrors.WrapWithContext(apperrors.ErrCodeNotFound, "data document not found", err,
				map[string]any{"url": s.url})
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.WrapWithContext(apperrors.ErrCodeTimeout, "data document fetch timed out", err,
				map[string]any{"url": s.url})
		}
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeUnavailable, "failed to fetch data document", err,
			map[string]any{"url": s.url})
	}

	format := serializer.FormatJSON
	if u, perr := url.Parse(s.url); perr == nil {
		format = serializer.FormatFromPath(u.Path)
	}

	return Decode(format, data, s.url)
}

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

package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format represents a document encoding.
type Format string

const (
	// FormatJSON decodes JSON documents.
	FormatJSON Format = "json"
	// FormatYAML decodes YAML documents.
	FormatYAML Format = "yaml"
)

// IsUnknown returns true if the format is not supported.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML:
		return false
	default:
		return true
	}
}

// SupportedFormats returns the list of supported formats.
func SupportedFormats() []string {
	return []string{
		string(FormatJSON),
		string(FormatYAML),
	}
}

// FormatFromPath determines the format based on the file extension of a
// path or URL path. Extension matching is case-insensitive; anything that is
// not .yaml or .yml is treated as JSON.
func FormatFromPath(filePath string) Format {
	switch strings.ToLower(path.Ext(filePath)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json", "":
		return FormatJSON
	default:
		slog.Debug("unknown file extension, defaulting to JSON", "filePath", filePath)
		return FormatJSON
	}
}

// Reader handles deserialization of structured data from JSON or YAML.
// Close must be called when the input was opened by the caller-facing
// constructor and implements io.Closer.
type Reader struct {
	format Format
	input  io.Reader
	closer io.Closer
}

// NewReader creates a new Reader for deserializing data from an io.Reader source.
// If input implements io.Closer, it will be closed by Reader.Close().
func NewReader(format Format, input io.Reader) (*Reader, error) {
	if format.IsUnknown() {
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	r := &Reader{
		format: format,
		input:  input,
	}

	if closer, ok := input.(io.Closer); ok {
		r.closer = closer
	}

	return r, nil
}

// Deserialize reads data from the input source and unmarshals it into v.
func (r *Reader) Deserialize(v any) error {
	if r == nil {
		return fmt.Errorf("reader is nil")
	}

	if r.input == nil {
		return fmt.Errorf("input source is nil")
	}

	switch r.format {
	case FormatJSON:
		decoder := json.NewDecoder(r.input)
		if err := decoder.Decode(v); err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
		return nil

	case FormatYAML:
		decoder := yaml.NewDecoder(r.input)
		if err := decoder.Decode(v); err != nil {
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unsupported format for deserialization: %s", r.format)
	}
}

// Close releases any resources held by the Reader. Safe to call multiple
// times and on a nil Reader.
func (r *Reader) Close() error {
	if r == nil {
		return nil
	}

	if r.closer != nil {
		err := r.closer.Close()
		r.closer = nil
		return err
	}
	return nil
}

// Decode is a generic convenience function that deserializes an in-memory
// document in one call.
func Decode[T any](format Format, data []byte) (T, error) {
	var out T

	r, err := NewReader(format, bytes.NewReader(data))
	if err != nil {
		return out, err
	}
	defer r.Close()

	if err := r.Deserialize(&out); err != nil {
		return out, err
	}
	return out, nil
}

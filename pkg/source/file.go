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
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/gofrs/flock"

	"github.com/NVIDIA/suggestd/pkg/defaults"
	apperrors "github.com/NVIDIA/suggestd/pkg/errors"
	"github.com/NVIDIA/suggestd/pkg/serializer"
	"github.com/NVIDIA/suggestd/pkg/suggestion"
)

// FileSource reads a local data document under a shared advisory lock, so a
// writer holding the exclusive lock is never observed mid-write.
type FileSource struct {
	path        string
	lockTimeout time.Duration
}

// NewFileSource creates a file source. A non-positive lockTimeout disables
// locking.
func NewFileSource(path string, lockTimeout time.Duration) *FileSource {
	return &FileSource{path: path, lockTimeout: lockTimeout}
}

func (s *FileSource) String() string {
	return s.path
}

// Path returns the document path.
func (s *FileSource) Path() string {
	return s.path
}

// Load reads and decodes the document.
func (s *FileSource) Load(ctx context.Context) ([]suggestion.Input, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.WrapWithContext(apperrors.ErrCodeNotFound, "data file not found", err,
				map[string]any{"path": s.path})
		}
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal, "failed to stat data file", err,
			map[string]any{"path": s.path})
	}
	if info.IsDir() {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "data path is a directory",
			map[string]any{"path": s.path})
	}

	unlock := s.lock(ctx)
	defer unlock()

	f, err := os.Open(s.path)
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal, "failed to open data file", err,
			map[string]any{"path": s.path})
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, defaults.MaxDocumentBytes+1))
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal, "failed to read data file", err,
			map[string]any{"path": s.path})
	}
	if int64(len(data)) > defaults.MaxDocumentBytes {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "data file too large",
			map[string]any{"path": s.path, "limit": defaults.MaxDocumentBytes})
	}

	return Decode(serializer.FormatFromPath(s.path), data, s.path)
}

// lock takes the shared lock, returning the release func. Lock failures are
// logged and the read proceeds unlocked.
func (s *FileSource) lock(ctx context.Context) func() {
	if s.lockTimeout <= 0 {
		return func() {}
	}

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	fl := flock.New(s.path)
	locked, err := fl.TryRLockContext(lockCtx, defaults.FileLockRetryDelay)
	if err != nil || !locked {
		slog.Warn("reading data file without shared lock", "path", s.path, "error", err)
		return func() {}
	}

	return func() {
		if err := fl.Unlock(); err != nil {
			slog.Warn("failed to release data file lock", "path", s.path, "error", err)
		}
	}
}

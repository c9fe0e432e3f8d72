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

package suggestion

import "sync/atomic"

// Store is the process-wide suggestion table. Lookups are lock free; the
// single writer replaces the whole Index at once.
type Store struct {
	current atomic.Pointer[Index]
}

// NewStore returns a store holding an empty index.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(NewIndex(nil, nil))
	return s
}

// Get returns the ordered entries for id from the current snapshot.
// Unknown identifiers yield an empty slice.
func (s *Store) Get(id string) []Entry {
	return s.current.Load().Lookup(id)
}

// Replace publishes idx to subsequent lookups. A nil index is ignored.
func (s *Store) Replace(idx *Index) {
	if idx == nil {
		return
	}
	s.current.Store(idx)
}

// Snapshot returns the index currently served.
func (s *Store) Snapshot() *Index {
	return s.current.Load()
}

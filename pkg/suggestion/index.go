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

import (
	"cmp"
	"slices"

	"golang.org/x/text/unicode/norm"
)

// Normalizer maps an identifier to its lookup key.
type Normalizer func(string) string

// NFC normalizes identifiers to Unicode Normalization Form C so that
// canonically equivalent spellings share one key.
func NFC(id string) string {
	return norm.NFC.String(id)
}

// Compare orders entries by ascending cost, then by name.
func Compare(a, b Entry) int {
	if c := cmp.Compare(a.Cost, b.Cost); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}

// Index is an immutable identifier to ordered entries mapping.
type Index struct {
	entries   map[string][]Entry
	normalize Normalizer
	total     int
}

// NewIndex groups records by identifier and orders every group with Compare.
// Records repeating an identical (name, cost) pair for the same identifier
// are kept once. A nil normalizer leaves identifiers untouched.
func NewIndex(records []Input, normalize Normalizer) *Index {
	idx := &Index{
		entries:   make(map[string][]Entry),
		normalize: normalize,
	}

	for _, r := range records {
		key := idx.key(r.ID)
		idx.entries[key] = append(idx.entries[key], NewEntry(r.Name, r.Cost))
	}

	for key, group := range idx.entries {
		slices.SortFunc(group, Compare)
		group = slices.CompactFunc(group, func(a, b Entry) bool {
			return Compare(a, b) == 0
		})
		idx.entries[key] = slices.Clip(group)
		idx.total += len(group)
	}

	return idx
}

func (idx *Index) key(id string) string {
	if idx.normalize == nil {
		return id
	}
	return idx.normalize(id)
}

// Lookup returns the ordered entries for id, or an empty slice.
// The returned slice is shared and must not be modified.
func (idx *Index) Lookup(id string) []Entry {
	if idx == nil {
		return []Entry{}
	}
	if e, ok := idx.entries[idx.key(id)]; ok {
		return e
	}
	return []Entry{}
}

// Len returns the number of identifiers.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}

// Entries returns the number of entries across all identifiers.
func (idx *Index) Entries() int {
	if idx == nil {
		return 0
	}
	return idx.total
}

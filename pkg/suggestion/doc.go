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

// Package suggestion holds the suggestion data model, its ordering rules and
// the concurrently read Store that the HTTP handlers query.
//
// The Store publishes an immutable Index through a single atomic pointer.
// Readers load the pointer once per lookup and never take a lock; the
// refresher builds a complete new Index off to the side and swaps it in, so
// a lookup observes either the previous data set or the new one in full.
//
//	store := suggestion.NewStore()
//	store.Replace(suggestion.NewIndex(records, nil))
//	resp := suggestion.NewResponse(store.Get("a"))
package suggestion

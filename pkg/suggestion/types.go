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

// NoPosition marks an Entry that has not been ranked yet.
const NoPosition = -1

// Input is one raw record of the suggestion data document.
type Input struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Cost int    `json:"cost" yaml:"cost"`
}

// Entry is a suggestion stored under an identifier.
type Entry struct {
	Name     string
	Cost     int
	Position int
}

// NewEntry returns an unranked entry.
func NewEntry(name string, cost int) Entry {
	return Entry{Name: name, Cost: cost, Position: NoPosition}
}

// Suggestion is the wire form of a ranked entry.
type Suggestion struct {
	Text     string `json:"text"`
	Position int    `json:"position"`
}

// Response is the body of a successful suggest call.
type Response struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// Request is the body of a suggest call.
type Request struct {
	Input string `json:"input"`
}

// Rank assigns each entry its 0-based position in the given order.
// The input is not modified; positions are recomputed on every call.
func Rank(entries []Entry) []Suggestion {
	out := make([]Suggestion, len(entries))
	for i, e := range entries {
		out[i] = Suggestion{Text: e.Name, Position: i}
	}
	return out
}

// NewResponse ranks entries into a Response. The suggestions list is never
// nil so an unknown identifier serializes as an empty JSON array.
func NewResponse(entries []Entry) Response {
	return Response{Suggestions: Rank(entries)}
}

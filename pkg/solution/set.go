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

package solution

import "iter"

// Set is a deduplicated collection of solutions keyed by ID. Iteration
// follows first-insertion order so results are reproducible.
type Set struct {
	seen  map[ID]struct{}
	items []*Solution
}

// NewSet returns a set holding sols.
func NewSet(sols ...*Solution) *Set {
	s := &Set{seen: make(map[ID]struct{}, len(sols))}
	for _, sol := range sols {
		s.Insert(sol)
	}
	return s
}

// Insert adds sol unless it is nil or already present. It reports whether
// the set changed.
func (s *Set) Insert(sol *Solution) bool {
	if sol == nil {
		return false
	}
	if _, ok := s.seen[sol.ID]; ok {
		return false
	}
	s.seen[sol.ID] = struct{}{}
	s.items = append(s.items, sol)
	return true
}

// Union inserts every member of other.
func (s *Set) Union(other *Set) {
	if other == nil {
		return
	}
	for _, sol := range other.items {
		s.Insert(sol)
	}
}

// Contains reports whether a solution with the same ID is present.
func (s *Set) Contains(sol *Solution) bool {
	if sol == nil {
		return false
	}
	_, ok := s.seen[sol.ID]
	return ok
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.items)
}

// IsSubsetOf reports whether every member of s is in other.
func (s *Set) IsSubsetOf(other *Set) bool {
	for _, sol := range s.items {
		if !other.Contains(sol) {
			return false
		}
	}
	return true
}

// Slice returns the members in insertion order.
func (s *Set) Slice() []*Solution {
	out := make([]*Solution, len(s.items))
	copy(out, s.items)
	return out
}

// All yields members in insertion order.
func (s *Set) All() iter.Seq[*Solution] {
	return func(yield func(*Solution) bool) {
		for _, sol := range s.items {
			if !yield(sol) {
				return
			}
		}
	}
}

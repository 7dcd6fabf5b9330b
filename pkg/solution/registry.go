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

import (
	"fmt"
	"iter"
)

// Registry is the arena that owns every Solution of a catalog. It assigns
// stable IDs on Add and is read-only once the catalog is built.
type Registry struct {
	items   []*Solution
	byIndex map[int]*Solution
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byIndex: make(map[int]*Solution)}
}

// Add copies s into the arena, assigns its ID and returns the shared pointer.
// Provenance indices must be unique within a registry.
func (r *Registry) Add(s Solution) (*Solution, error) {
	if s.Name == "" {
		return nil, fmt.Errorf("solution at index %d has no name", s.Index)
	}
	if _, exists := r.byIndex[s.Index]; exists {
		return nil, fmt.Errorf("duplicate solution index %d (%s)", s.Index, s.Name)
	}
	s.ID = ID(len(r.items) + 1)
	sol := &s
	r.items = append(r.items, sol)
	r.byIndex[s.Index] = sol
	return sol, nil
}

// ByID returns the solution with the given identity.
func (r *Registry) ByID(id ID) (*Solution, bool) {
	if id < 1 || int(id) > len(r.items) {
		return nil, false
	}
	return r.items[id-1], true
}

// ByIndex returns the solution with the given provenance index.
func (r *Registry) ByIndex(index int) (*Solution, bool) {
	s, ok := r.byIndex[index]
	return s, ok
}

// Len returns the number of registered solutions.
func (r *Registry) Len() int {
	return len(r.items)
}

// All yields solutions in registration order.
func (r *Registry) All() iter.Seq[*Solution] {
	return func(yield func(*Solution) bool) {
		for _, s := range r.items {
			if !yield(s) {
				return
			}
		}
	}
}

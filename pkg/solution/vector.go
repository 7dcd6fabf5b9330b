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

// Vector is a ranked sequence of solutions, best first.
type Vector []*Solution

// IDs returns the identities in rank order.
func (v Vector) IDs() []ID {
	ids := make([]ID, len(v))
	for i, s := range v {
		ids[i] = s.ID
	}
	return ids
}

// Indices returns the provenance indices in rank order.
func (v Vector) Indices() []int {
	idx := make([]int, len(v))
	for i, s := range v {
		idx[i] = s.Index
	}
	return idx
}

// Contains reports whether a solution with the same ID is present.
func (v Vector) Contains(sol *Solution) bool {
	if sol == nil {
		return false
	}
	for _, s := range v {
		if s.ID == sol.ID {
			return true
		}
	}
	return false
}

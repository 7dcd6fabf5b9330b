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

// Package solution defines kernel configurations and the identity-keyed
// collections the selection engine returns.
package solution

import (
	"fmt"

	"github.com/tsenwang/hipBLASLt/pkg/hardware"
	"github.com/tsenwang/hipBLASLt/pkg/predicate"
	"github.com/tsenwang/hipBLASLt/pkg/problem"
)

// ID is the stable identity assigned by a Registry. Equality and
// deduplication are defined by ID, never by pointer.
type ID int

// MacroTile is the work-group tile of a kernel.
type MacroTile struct {
	MT0    int `json:"mt0" yaml:"mt0"`
	MT1    int `json:"mt1" yaml:"mt1"`
	DepthU int `json:"depthU" yaml:"depthU"`
}

// String returns the tile as "MT256x128x64".
func (t MacroTile) String() string {
	return fmt.Sprintf("MT%dx%dx%d", t.MT0, t.MT1, t.DepthU)
}

// Solution is one precompiled kernel configuration with its benchmarked
// metadata. Solutions are immutable once registered and shared by pointer.
type Solution struct {
	ID            ID        `json:"id" yaml:"id"`
	Name          string    `json:"name" yaml:"name"`
	Index         int       `json:"index" yaml:"index"`
	WorkspaceSize uint64    `json:"workspaceSize" yaml:"workspaceSize"`
	MacroTile     MacroTile `json:"macroTile" yaml:"macroTile"`
	GlobalSplitU  int       `json:"globalSplitU" yaml:"globalSplitU"`

	// BenchmarkGFlops is the throughput measured during tuning.
	BenchmarkGFlops float64 `json:"benchmarkGFlops,omitempty" yaml:"benchmarkGFlops,omitempty"`

	// Nil predicates accept everything.
	ProblemPredicate  predicate.Predicate[problem.Problem]   `json:"-" yaml:"-"`
	HardwarePredicate predicate.Predicate[hardware.Hardware] `json:"-" yaml:"-"`
}

// Identity returns the registry identity of s.
func (s *Solution) Identity() int {
	return int(s.ID)
}

// Accepts reports whether both predicates accept the problem and hardware.
func (s *Solution) Accepts(p problem.Problem, hw hardware.Hardware) bool {
	return predicate.Eval(s.HardwarePredicate, hw) && predicate.Eval(s.ProblemPredicate, p)
}

// String returns "name(index)".
func (s *Solution) String() string {
	if s == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s(%d)", s.Name, s.Index)
}

// Description includes the predicates, used by trace output.
func (s *Solution) Description() string {
	return fmt.Sprintf("%s: %s && %s", s.String(),
		predicate.Describe(s.HardwarePredicate), predicate.Describe(s.ProblemPredicate))
}

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

package library

import (
	"fmt"
	"iter"

	"github.com/tsenwang/hipBLASLt/pkg/hardware"
	"github.com/tsenwang/hipBLASLt/pkg/problem"
	"github.com/tsenwang/hipBLASLt/pkg/solution"
)

// MasterLibrary is the root of a catalog. It owns the solution registry and
// answers index lookups from it directly; everything else goes to the root
// library.
type MasterLibrary struct {
	version  string
	registry *solution.Registry
	root     SolutionLibrary
}

// NewMaster returns the root of a catalog.
func NewMaster(version string, registry *solution.Registry, root SolutionLibrary) *MasterLibrary {
	return &MasterLibrary{version: version, registry: registry, root: root}
}

func (*MasterLibrary) sealed() {}

func (*MasterLibrary) Type() string { return "Master" }

func (l *MasterLibrary) Description() string {
	return fmt.Sprintf("Master %s: %d solutions, %s", l.version, l.registry.Len(), l.root.Description())
}

// Len is the number of registered solutions.
func (l *MasterLibrary) Len() int { return l.registry.Len() }

// Version is the catalog version label.
func (l *MasterLibrary) Version() string { return l.version }

// Solutions yields every registered solution in registration order.
func (l *MasterLibrary) Solutions() iter.Seq[*solution.Solution] {
	return l.registry.All()
}

// SolutionByID returns a registered solution by identity.
func (l *MasterLibrary) SolutionByID(id solution.ID) (*solution.Solution, bool) {
	return l.registry.ByID(id)
}

// GetSolutionByIndex ignores the problem and hardware; the index is global
// to the catalog.
func (l *MasterLibrary) GetSolutionByIndex(_ problem.Problem, _ hardware.Hardware, index int) *solution.Solution {
	sol, _ := l.registry.ByIndex(index)
	return sol
}

func (l *MasterLibrary) FindBestSolution(p problem.Problem, hw hardware.Hardware, fitness *float64) *solution.Solution {
	return l.root.FindBestSolution(p, hw, fitness)
}

func (l *MasterLibrary) FindBestSolutionGroupedGemm(problems []problem.Problem, hw hardware.Hardware, fitness *float64) *solution.Solution {
	return l.root.FindBestSolutionGroupedGemm(problems, hw, fitness)
}

func (l *MasterLibrary) FindAllSolutions(p problem.Problem, hw hardware.Hardware, search SearchType) *solution.Set {
	return l.root.FindAllSolutions(p, hw, search)
}

func (l *MasterLibrary) FindAllSolutionsGroupedGemm(problems []problem.Problem, hw hardware.Hardware, search SearchType) *solution.Set {
	return l.root.FindAllSolutionsGroupedGemm(problems, hw, search)
}

func (l *MasterLibrary) FindTopSolutions(p problem.Problem, hw hardware.Hardware, n int) solution.Vector {
	return l.root.FindTopSolutions(p, hw, n)
}

func (l *MasterLibrary) FindTopSolutionsGroupedGemm(problems []problem.Problem, hw hardware.Hardware, n int) solution.Vector {
	return l.root.FindTopSolutionsGroupedGemm(problems, hw, n)
}

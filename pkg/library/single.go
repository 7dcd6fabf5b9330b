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
	"github.com/tsenwang/hipBLASLt/pkg/hardware"
	"github.com/tsenwang/hipBLASLt/pkg/problem"
	"github.com/tsenwang/hipBLASLt/pkg/solution"
)

// SingleSolutionLibrary is a leaf holding one catalog entry. It returns its
// solution when the solution's own predicates accept the request.
type SingleSolutionLibrary struct {
	solution *solution.Solution
}

// NewSingle returns a leaf for sol.
func NewSingle(sol *solution.Solution) *SingleSolutionLibrary {
	return &SingleSolutionLibrary{solution: sol}
}

func (*SingleSolutionLibrary) sealed() {}

func (*SingleSolutionLibrary) Type() string { return "Single" }

func (l *SingleSolutionLibrary) Description() string {
	return "Single: " + l.solution.Description()
}

// Solution returns the leaf's solution.
func (l *SingleSolutionLibrary) Solution() *solution.Solution {
	return l.solution
}

func (l *SingleSolutionLibrary) acceptsAll(problems []problem.Problem, hw hardware.Hardware) bool {
	if len(problems) == 0 {
		return false
	}
	for _, p := range problems {
		if !l.solution.Accepts(p, hw) {
			return false
		}
	}
	return true
}

func (l *SingleSolutionLibrary) GetSolutionByIndex(_ problem.Problem, _ hardware.Hardware, index int) *solution.Solution {
	if l.solution.Index == index {
		return l.solution
	}
	return nil
}

func (l *SingleSolutionLibrary) FindBestSolution(p problem.Problem, hw hardware.Hardware, _ *float64) *solution.Solution {
	if l.solution.Accepts(p, hw) {
		return l.solution
	}
	return nil
}

func (l *SingleSolutionLibrary) FindBestSolutionGroupedGemm(problems []problem.Problem, hw hardware.Hardware, _ *float64) *solution.Solution {
	if l.acceptsAll(problems, hw) {
		return l.solution
	}
	return nil
}

func (l *SingleSolutionLibrary) FindAllSolutions(p problem.Problem, hw hardware.Hardware, search SearchType) *solution.Set {
	if search == SearchAll || l.solution.Accepts(p, hw) {
		return solution.NewSet(l.solution)
	}
	return solution.NewSet()
}

func (l *SingleSolutionLibrary) FindAllSolutionsGroupedGemm(problems []problem.Problem, hw hardware.Hardware, search SearchType) *solution.Set {
	if len(problems) > 0 && (search == SearchAll || l.acceptsAll(problems, hw)) {
		return solution.NewSet(l.solution)
	}
	return solution.NewSet()
}

func (l *SingleSolutionLibrary) FindTopSolutions(p problem.Problem, hw hardware.Hardware, n int) solution.Vector {
	return topOf(l.FindBestSolution(p, hw, nil), n)
}

func (l *SingleSolutionLibrary) FindTopSolutionsGroupedGemm(problems []problem.Problem, hw hardware.Hardware, n int) solution.Vector {
	return topOf(l.FindBestSolutionGroupedGemm(problems, hw, nil), n)
}

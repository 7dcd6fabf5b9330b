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
	"github.com/tsenwang/hipBLASLt/pkg/predicate"
	"github.com/tsenwang/hipBLASLt/pkg/problem"
	"github.com/tsenwang/hipBLASLt/pkg/solution"
)

// SelectionRow pairs a predicate with the library used when it accepts.
type SelectionRow[T any] struct {
	Predicate predicate.Predicate[T]
	Library   SolutionLibrary
}

// SelectionLibrary routes to the first row whose predicate accepts the
// request. The predicate sees either the problem or the hardware.
type SelectionLibrary[T any] struct {
	kind string
	rows []SelectionRow[T]
	pick func(problem.Problem, hardware.Hardware) T
}

// ProblemSelectionLibrary selects on problem predicates.
type ProblemSelectionLibrary = SelectionLibrary[problem.Problem]

// HardwareSelectionLibrary selects on hardware predicates.
type HardwareSelectionLibrary = SelectionLibrary[hardware.Hardware]

// NewProblemSelection returns a library routing on problem predicates.
func NewProblemSelection(rows ...SelectionRow[problem.Problem]) *ProblemSelectionLibrary {
	return &SelectionLibrary[problem.Problem]{
		kind: "Problem",
		rows: rows,
		pick: func(p problem.Problem, _ hardware.Hardware) problem.Problem { return p },
	}
}

// NewHardwareSelection returns a library routing on hardware predicates.
func NewHardwareSelection(rows ...SelectionRow[hardware.Hardware]) *HardwareSelectionLibrary {
	return &SelectionLibrary[hardware.Hardware]{
		kind: "Hardware",
		rows: rows,
		pick: func(_ problem.Problem, hw hardware.Hardware) hardware.Hardware { return hw },
	}
}

func (*SelectionLibrary[T]) sealed() {}

func (l *SelectionLibrary[T]) Type() string { return l.kind }

func (l *SelectionLibrary[T]) Description() string {
	return fmt.Sprintf("%s selection (%d rows)", l.kind, len(l.rows))
}

// accepting yields the libraries of rows accepting (p, hw) in order.
func (l *SelectionLibrary[T]) accepting(p problem.Problem, hw hardware.Hardware) iter.Seq[SolutionLibrary] {
	v := l.pick(p, hw)
	return func(yield func(SolutionLibrary) bool) {
		for _, row := range l.rows {
			if predicate.Eval(row.Predicate, v) && !yield(row.Library) {
				return
			}
		}
	}
}

func (l *SelectionLibrary[T]) visit(p problem.Problem, hw hardware.Hardware, search SearchType) iter.Seq[SolutionLibrary] {
	if search == SearchDefault {
		return l.accepting(p, hw)
	}
	return func(yield func(SolutionLibrary) bool) {
		for _, row := range l.rows {
			if !yield(row.Library) {
				return
			}
		}
	}
}

func (l *SelectionLibrary[T]) GetSolutionByIndex(p problem.Problem, hw hardware.Hardware, index int) *solution.Solution {
	for lib := range l.accepting(p, hw) {
		if sol := lib.GetSolutionByIndex(p, hw, index); sol != nil {
			return sol
		}
	}
	return nil
}

func (l *SelectionLibrary[T]) FindBestSolution(p problem.Problem, hw hardware.Hardware, fitness *float64) *solution.Solution {
	for lib := range l.accepting(p, hw) {
		if sol := lib.FindBestSolution(p, hw, fitness); sol != nil {
			return sol
		}
	}
	return nil
}

func (l *SelectionLibrary[T]) FindBestSolutionGroupedGemm(problems []problem.Problem, hw hardware.Hardware, fitness *float64) *solution.Solution {
	if len(problems) == 0 {
		return nil
	}
	for lib := range l.accepting(problems[0], hw) {
		if sol := lib.FindBestSolutionGroupedGemm(problems, hw, fitness); sol != nil {
			return sol
		}
	}
	return nil
}

func (l *SelectionLibrary[T]) FindAllSolutions(p problem.Problem, hw hardware.Hardware, search SearchType) *solution.Set {
	out := solution.NewSet()
	for lib := range l.visit(p, hw, search) {
		out.Union(lib.FindAllSolutions(p, hw, search))
	}
	return out
}

func (l *SelectionLibrary[T]) FindAllSolutionsGroupedGemm(problems []problem.Problem, hw hardware.Hardware, search SearchType) *solution.Set {
	out := solution.NewSet()
	if len(problems) == 0 {
		return out
	}
	for lib := range l.visit(problems[0], hw, search) {
		out.Union(lib.FindAllSolutionsGroupedGemm(problems, hw, search))
	}
	return out
}

func (l *SelectionLibrary[T]) FindTopSolutions(p problem.Problem, hw hardware.Hardware, n int) solution.Vector {
	for lib := range l.accepting(p, hw) {
		if top := lib.FindTopSolutions(p, hw, n); len(top) > 0 {
			return top
		}
	}
	return solution.Vector{}
}

func (l *SelectionLibrary[T]) FindTopSolutionsGroupedGemm(problems []problem.Problem, hw hardware.Hardware, n int) solution.Vector {
	if len(problems) == 0 {
		return solution.Vector{}
	}
	for lib := range l.accepting(problems[0], hw) {
		if top := lib.FindTopSolutionsGroupedGemm(problems, hw, n); len(top) > 0 {
			return top
		}
	}
	return solution.Vector{}
}

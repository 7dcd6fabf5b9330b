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

// Package library implements the solution-library hierarchy that resolves a
// problem to kernel configurations.
//
// Every variant satisfies SolutionLibrary, so a ProblemMatchingLibrary can
// hold other matching libraries as rows to any depth. Libraries are built
// once and are read-only afterwards; all lookups are safe for concurrent use.
// Lookups never return errors: "no solution" is a nil Solution or an empty
// collection and callers must check for it.
package library

import (
	"fmt"
	"strings"

	"github.com/tsenwang/hipBLASLt/pkg/hardware"
	"github.com/tsenwang/hipBLASLt/pkg/problem"
	"github.com/tsenwang/hipBLASLt/pkg/solution"
)

// SearchType selects how exhaustive FindAllSolutions is.
type SearchType int

const (
	// SearchDefault visits only rows whose predicates accept the problem.
	SearchDefault SearchType = iota

	// SearchAll visits every row regardless of eligibility.
	SearchAll
)

// String returns "default" or "all".
func (s SearchType) String() string {
	if s == SearchDefault {
		return "default"
	}
	return "all"
}

// ParseSearchType parses "default" or "all" (case-insensitive). Empty means default.
func ParseSearchType(s string) (SearchType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return SearchDefault, nil
	case "all":
		return SearchAll, nil
	default:
		return SearchDefault, fmt.Errorf("invalid search type %q (want default or all)", s)
	}
}

// SolutionLibrary resolves problems to solutions. The set of variants is
// closed; construct them with the New* functions in this package.
type SolutionLibrary interface {
	// Type is a short variant name.
	Type() string

	// Description is a human readable summary used by trace output.
	Description() string

	// GetSolutionByIndex returns the solution with the given provenance
	// index reachable for the problem, or nil.
	GetSolutionByIndex(p problem.Problem, hw hardware.Hardware, index int) *solution.Solution

	// FindBestSolution returns the best solution or nil. When fitness is not
	// nil and a solution is found, the match fitness is stored there.
	FindBestSolution(p problem.Problem, hw hardware.Hardware, fitness *float64) *solution.Solution

	// FindBestSolutionGroupedGemm routes on problems[0] and resolves with
	// the full list. An empty list yields nil.
	FindBestSolutionGroupedGemm(problems []problem.Problem, hw hardware.Hardware, fitness *float64) *solution.Solution

	// FindAllSolutions returns every solution reachable for the problem.
	FindAllSolutions(p problem.Problem, hw hardware.Hardware, search SearchType) *solution.Set

	// FindAllSolutionsGroupedGemm routes on problems[0] and resolves with
	// the full list. An empty list yields an empty set.
	FindAllSolutionsGroupedGemm(problems []problem.Problem, hw hardware.Hardware, search SearchType) *solution.Set

	// FindTopSolutions returns up to n solutions, best first, without duplicates.
	FindTopSolutions(p problem.Problem, hw hardware.Hardware, n int) solution.Vector

	// FindTopSolutionsGroupedGemm routes on problems[0] and resolves with
	// the full list. An empty list yields an empty vector.
	FindTopSolutionsGroupedGemm(problems []problem.Problem, hw hardware.Hardware, n int) solution.Vector

	sealed()
}

// Evaluator scores a resolved solution for evaluation-based selection.
// Lower is better.
type Evaluator interface {
	Evaluate(p problem.Problem, hw hardware.Hardware, sol *solution.Solution) float64
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(p problem.Problem, hw hardware.Hardware, sol *solution.Solution) float64

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(p problem.Problem, hw hardware.Hardware, sol *solution.Solution) float64 {
	return f(p, hw, sol)
}

// topOf turns a best-solution lookup into a top-n vector of at most one.
func topOf(sol *solution.Solution, n int) solution.Vector {
	if sol == nil || n < 1 {
		return solution.Vector{}
	}
	return solution.Vector{sol}
}

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

	"github.com/tsenwang/hipBLASLt/pkg/diagnostics"
	"github.com/tsenwang/hipBLASLt/pkg/evaluate"
	"github.com/tsenwang/hipBLASLt/pkg/hardware"
	"github.com/tsenwang/hipBLASLt/pkg/matching"
	"github.com/tsenwang/hipBLASLt/pkg/problem"
	"github.com/tsenwang/hipBLASLt/pkg/property"
	"github.com/tsenwang/hipBLASLt/pkg/solution"
)

// Table is a matching table whose rows are nested libraries.
type Table = matching.Table[problem.Problem, SolutionLibrary, *solution.Solution]

// Row is one row of a Table.
type Row = matching.Entry[SolutionLibrary]

// NewTable builds a Table over props.
func NewTable(props []property.Property[problem.Problem], distance matching.Distance, rows ...Row) (*Table, error) {
	return matching.NewTable[problem.Problem, SolutionLibrary, *solution.Solution](props, distance, rows...)
}

// Option configures a ProblemMatchingLibrary.
type Option func(*ProblemMatchingLibrary)

// WithDiagnostics sets the trace toggles captured by the library.
func WithDiagnostics(cfg diagnostics.Config) Option {
	return func(l *ProblemMatchingLibrary) {
		l.diag = cfg
	}
}

// WithEvaluator sets the evaluator used when evaluation selection is enabled.
func WithEvaluator(e Evaluator) Option {
	return func(l *ProblemMatchingLibrary) {
		if e != nil {
			l.evaluator = e
		}
	}
}

// ProblemMatchingLibrary selects among nested libraries by the distance
// between the problem's feature vector and each row's benchmarked key.
type ProblemMatchingLibrary struct {
	table     *Table
	diag      diagnostics.Config
	evaluator Evaluator
}

// NewProblemMatching wraps table. The diagnostics configuration is captured
// here and never re-read.
func NewProblemMatching(table *Table, opts ...Option) *ProblemMatchingLibrary {
	l := &ProblemMatchingLibrary{
		table:     table,
		evaluator: evaluate.NewModel(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (*ProblemMatchingLibrary) sealed() {}

func (*ProblemMatchingLibrary) Type() string { return "Matching" }

func (l *ProblemMatchingLibrary) Description() string {
	return fmt.Sprintf("Matching: %s", l.table.Description())
}

// GetSolutionByIndex delegates the indexed lookup to the nearest row. Index
// range checks belong to the nested library.
func (l *ProblemMatchingLibrary) GetSolutionByIndex(p problem.Problem, hw hardware.Hardware, index int) *solution.Solution {
	sol, _ := l.table.FindBestMatch(p, func(lib SolutionLibrary) *solution.Solution {
		return lib.GetSolutionByIndex(p, hw, index)
	})
	return sol
}

// FindBestSolution resolves the nearest row's best solution, or the row
// whose best solution scores lowest when evaluation selection is enabled.
// Fitness is the row distance. It is written only when a row resolves in
// distance mode; evaluator scores are not distances and are never reported.
func (l *ProblemMatchingLibrary) FindBestSolution(p problem.Problem, hw hardware.Hardware, fitness *float64) *solution.Solution {
	resolve := func(lib SolutionLibrary) *solution.Solution {
		return lib.FindBestSolution(p, hw, nil)
	}

	if l.diag.EvaluationSelection {
		sol, _ := l.table.FindBestEvaluationSolution(p, resolve, func(s *solution.Solution) float64 {
			return l.evaluator.Evaluate(p, hw, s)
		})
		return sol
	}

	sol, distance := l.table.FindBestMatch(p, resolve)
	if sol != nil && fitness != nil {
		*fitness = distance
	}
	return sol
}

func (l *ProblemMatchingLibrary) FindBestSolutionGroupedGemm(problems []problem.Problem, hw hardware.Hardware, fitness *float64) *solution.Solution {
	if len(problems) == 0 {
		return nil
	}
	sol, score := l.table.FindBestMatch(problems[0], func(lib SolutionLibrary) *solution.Solution {
		return lib.FindBestSolutionGroupedGemm(problems, hw, nil)
	})
	if sol != nil && fitness != nil {
		*fitness = score
	}
	return sol
}

func (l *ProblemMatchingLibrary) rows(p problem.Problem, search SearchType) iter.Seq[SolutionLibrary] {
	if search == SearchDefault {
		return l.table.MatchesInOrder(p)
	}
	return l.table.GetAll()
}

// FindAllSolutions unions the solutions of every eligible row, or of every
// row for SearchAll.
func (l *ProblemMatchingLibrary) FindAllSolutions(p problem.Problem, hw hardware.Hardware, search SearchType) *solution.Set {
	out := solution.NewSet()
	for lib := range l.rows(p, search) {
		l.diag.TraceRow(lib.Description())
		out.Union(lib.FindAllSolutions(p, hw, search))
	}
	return out
}

// FindAllSolutionsGroupedGemm picks rows with problems[0] only; each row
// then resolves the whole list.
func (l *ProblemMatchingLibrary) FindAllSolutionsGroupedGemm(problems []problem.Problem, hw hardware.Hardware, search SearchType) *solution.Set {
	out := solution.NewSet()
	if len(problems) == 0 {
		return out
	}
	for lib := range l.rows(problems[0], search) {
		l.diag.TraceRow(lib.Description())
		out.Union(lib.FindAllSolutionsGroupedGemm(problems, hw, search))
	}
	return out
}

// FindTopSolutions ranks rows by distance in one table search and returns
// each row's best solution, skipping duplicates.
func (l *ProblemMatchingLibrary) FindTopSolutions(p problem.Problem, hw hardware.Hardware, n int) solution.Vector {
	ranked := l.table.FindTopMatch(p, func(lib SolutionLibrary) *solution.Solution {
		return lib.FindBestSolution(p, hw, nil)
	}, n)
	out := vectorOf(ranked)
	l.diag.PrintIndices(out.Indices())
	return out
}

// FindTopSolutionsGroupedGemm ranks rows with problems[0]; each row's best
// solution is resolved with the whole list.
func (l *ProblemMatchingLibrary) FindTopSolutionsGroupedGemm(problems []problem.Problem, hw hardware.Hardware, n int) solution.Vector {
	if len(problems) == 0 {
		return solution.Vector{}
	}
	return vectorOf(l.table.FindTopMatch(problems[0], func(lib SolutionLibrary) *solution.Solution {
		return lib.FindBestSolutionGroupedGemm(problems, hw, nil)
	}, n))
}

func vectorOf(ranked []matching.Ranked[*solution.Solution]) solution.Vector {
	out := make(solution.Vector, len(ranked))
	for i, r := range ranked {
		out[i] = r.Solution
	}
	return out
}

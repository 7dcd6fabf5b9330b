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

	"github.com/tsenwang/hipBLASLt/pkg/hardware"
	"github.com/tsenwang/hipBLASLt/pkg/problem"
	"github.com/tsenwang/hipBLASLt/pkg/property"
	"github.com/tsenwang/hipBLASLt/pkg/solution"
)

// ExactRow maps one exact feature key to a nested library.
type ExactRow struct {
	Key     property.Key
	Library SolutionLibrary
}

// ExactLibrary resolves only problems whose feature key equals a row key.
type ExactLibrary struct {
	properties []property.Property[problem.Problem]
	rows       []ExactRow
	index      map[string]SolutionLibrary
}

// NewExact builds an exact-lookup library. Keys must be unique and have one
// coordinate per property.
func NewExact(props []property.Property[problem.Problem], rows ...ExactRow) (*ExactLibrary, error) {
	index := make(map[string]SolutionLibrary, len(rows))
	for i, row := range rows {
		if len(row.Key) != len(props) {
			return nil, fmt.Errorf("exact row %d: key %s has %d coordinates, want %d", i, row.Key, len(row.Key), len(props))
		}
		k := row.Key.String()
		if _, dup := index[k]; dup {
			return nil, fmt.Errorf("exact row %d: duplicate key %s", i, k)
		}
		index[k] = row.Library
	}
	return &ExactLibrary{properties: props, rows: rows, index: index}, nil
}

func (*ExactLibrary) sealed() {}

func (*ExactLibrary) Type() string { return "Exact" }

func (l *ExactLibrary) Description() string {
	return fmt.Sprintf("Exact: %v (%d rows)", property.Names(l.properties), len(l.rows))
}

func (l *ExactLibrary) lookup(p problem.Problem) SolutionLibrary {
	return l.index[property.Extract(l.properties, p).String()]
}

func (l *ExactLibrary) GetSolutionByIndex(p problem.Problem, hw hardware.Hardware, index int) *solution.Solution {
	if lib := l.lookup(p); lib != nil {
		return lib.GetSolutionByIndex(p, hw, index)
	}
	return nil
}

// FindBestSolution reports a fitness of zero when the exact row resolves.
func (l *ExactLibrary) FindBestSolution(p problem.Problem, hw hardware.Hardware, fitness *float64) *solution.Solution {
	lib := l.lookup(p)
	if lib == nil {
		return nil
	}
	sol := lib.FindBestSolution(p, hw, nil)
	if sol != nil && fitness != nil {
		*fitness = 0
	}
	return sol
}

func (l *ExactLibrary) FindBestSolutionGroupedGemm(problems []problem.Problem, hw hardware.Hardware, fitness *float64) *solution.Solution {
	if len(problems) == 0 {
		return nil
	}
	lib := l.lookup(problems[0])
	if lib == nil {
		return nil
	}
	sol := lib.FindBestSolutionGroupedGemm(problems, hw, nil)
	if sol != nil && fitness != nil {
		*fitness = 0
	}
	return sol
}

func (l *ExactLibrary) FindAllSolutions(p problem.Problem, hw hardware.Hardware, search SearchType) *solution.Set {
	out := solution.NewSet()
	if search == SearchAll {
		for _, row := range l.rows {
			out.Union(row.Library.FindAllSolutions(p, hw, search))
		}
		return out
	}
	if lib := l.lookup(p); lib != nil {
		out.Union(lib.FindAllSolutions(p, hw, search))
	}
	return out
}

func (l *ExactLibrary) FindAllSolutionsGroupedGemm(problems []problem.Problem, hw hardware.Hardware, search SearchType) *solution.Set {
	out := solution.NewSet()
	if len(problems) == 0 {
		return out
	}
	if search == SearchAll {
		for _, row := range l.rows {
			out.Union(row.Library.FindAllSolutionsGroupedGemm(problems, hw, search))
		}
		return out
	}
	if lib := l.lookup(problems[0]); lib != nil {
		out.Union(lib.FindAllSolutionsGroupedGemm(problems, hw, search))
	}
	return out
}

func (l *ExactLibrary) FindTopSolutions(p problem.Problem, hw hardware.Hardware, n int) solution.Vector {
	if lib := l.lookup(p); lib != nil {
		return lib.FindTopSolutions(p, hw, n)
	}
	return solution.Vector{}
}

func (l *ExactLibrary) FindTopSolutionsGroupedGemm(problems []problem.Problem, hw hardware.Hardware, n int) solution.Vector {
	if len(problems) == 0 {
		return solution.Vector{}
	}
	if lib := l.lookup(problems[0]); lib != nil {
		return lib.FindTopSolutionsGroupedGemm(problems, hw, n)
	}
	return solution.Vector{}
}

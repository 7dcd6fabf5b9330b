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

package heuristic

import (
	"fmt"
	"strconv"
)

// Results renders ranked candidates one row per solution.
type Results []Result

// TableHeader implements serializer.Tabular.
func (Results) TableHeader() []string {
	return []string{"RANK", "INDEX", "KERNEL", "TILE", "GSU", "WORKSPACE"}
}

// TableRows implements serializer.Tabular.
func (r Results) TableRows() [][]string {
	rows := make([][]string, 0, len(r))
	for _, res := range r {
		rows = append(rows, resultRow(res))
	}
	return rows
}

func resultRow(res Result) []string {
	if res.Solution == nil {
		return []string{strconv.Itoa(res.Rank), "-", "-", "-", "-", "-"}
	}
	return []string{
		strconv.Itoa(res.Rank),
		strconv.Itoa(res.Solution.Index),
		res.Solution.Name,
		res.Solution.MacroTile.String(),
		strconv.Itoa(res.Solution.GlobalSplitU),
		strconv.FormatUint(res.WorkspaceSize, 10),
	}
}

// Batch renders a resolved batch with the problem in the first column.
type Batch []BatchResult

// TableHeader implements serializer.Tabular.
func (Batch) TableHeader() []string {
	return append([]string{"PROBLEM"}, Results(nil).TableHeader()...)
}

// TableRows implements serializer.Tabular. Problems without candidates get a
// single placeholder row.
func (b Batch) TableRows() [][]string {
	var rows [][]string
	for _, br := range b {
		label := fmt.Sprintf("%dx%dx%d", br.Problem.M, br.Problem.N, br.Problem.K)
		if len(br.Results) == 0 {
			rows = append(rows, []string{label, "-", "-", "no solution", "-", "-", "-"})
			continue
		}
		for _, res := range br.Results {
			rows = append(rows, append([]string{label}, resultRow(res)...))
		}
	}
	return rows
}

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

package catalog

import (
	"fmt"

	"github.com/tsenwang/hipBLASLt/pkg/hardware"
	"github.com/tsenwang/hipBLASLt/pkg/library"
	"github.com/tsenwang/hipBLASLt/pkg/predicate"
	"github.com/tsenwang/hipBLASLt/pkg/problem"
	"github.com/tsenwang/hipBLASLt/pkg/solution"
)

const mib = 1024 * 1024

// DefaultTargets are the GPU targets of the synthetic catalog.
func DefaultTargets() []hardware.Hardware {
	return []hardware.Hardware{
		hardware.MustNew("gfx90a", 104),
		hardware.MustNew("gfx942", 304),
		hardware.MustNew("gfx950", 256),
	}
}

// typeConfig is one operand/compute type combination.
type typeConfig struct {
	label   string
	a, b    problem.DataType
	c, d    problem.DataType
	compute problem.ComputeType
	gflops  float64 // per compute unit at full tile efficiency
	scaled  bool
}

var typeConfigs = []typeConfig{
	{"SSS", problem.DataTypeF32, problem.DataTypeF32, problem.DataTypeF32, problem.DataTypeF32, problem.ComputeF32, 160, false},
	{"HHS", problem.DataTypeF16, problem.DataTypeF16, problem.DataTypeF16, problem.DataTypeF16, problem.ComputeF32, 1250, false},
	{"BBS", problem.DataTypeBF16, problem.DataTypeBF16, problem.DataTypeBF16, problem.DataTypeBF16, problem.ComputeF32, 1250, false},
	{"F8H", problem.DataTypeF8, problem.DataTypeF8, problem.DataTypeF16, problem.DataTypeF16, problem.ComputeF32, 2500, true},
}

var transposes = []struct{ a, b problem.Operation }{
	{problem.OpN, problem.OpN},
	{problem.OpN, problem.OpT},
	{problem.OpT, problem.OpN},
	{problem.OpT, problem.OpT},
}

// tileConfig is one kernel shape tuned for a region of the size grid.
type tileConfig struct {
	tile       solution.MacroTile
	gsu        int
	alignK     int64
	workspace  uint64
	efficiency float64
}

var tileConfigs = []tileConfig{
	{solution.MacroTile{MT0: 256, MT1: 256, DepthU: 64}, 1, 8, 0, 0.92},
	{solution.MacroTile{MT0: 256, MT1: 128, DepthU: 64}, 1, 0, 0, 0.88},
	{solution.MacroTile{MT0: 128, MT1: 128, DepthU: 64}, 1, 0, 0, 0.80},
	{solution.MacroTile{MT0: 64, MT1: 64, DepthU: 128}, 4, 0, 8 * mib, 0.55},
	{solution.MacroTile{MT0: 32, MT1: 32, DepthU: 256}, 8, 0, 64 * mib, 0.40},
}

// Benchmarked grid of the synthetic catalog.
var (
	gridFree  = []int64{64, 256, 1024, 4096}
	gridBound = []int64{64, 1024, 8192}
)

// tileFor is the kernel the synthetic tuning run picked for a grid point.
func tileFor(m, n, k int64) int {
	switch {
	case m >= 2048 && n >= 2048:
		return 0
	case m >= 1024 && n >= 256:
		return 1
	case m >= 256 && n >= 256:
		return 2
	case k >= 8*max(m, n):
		return 4
	default:
		return 3
	}
}

// Synthetic builds a representative catalog for targets plus a host
// fallback. Each target gets a problem-type selection over four type
// combinations and four transpose modes; each leaf of that is a matching
// library over a benchmarked size grid.
func Synthetic(targets []hardware.Hardware, opts ...Option) (*library.MasterLibrary, error) {
	b := NewBuilder(append([]Option{WithVersion("synthetic")}, opts...)...)
	for _, hw := range targets {
		lib, err := b.target(hw)
		if err != nil {
			return nil, err
		}
		b.AddHardware(hardware.ArchEqual(hw.Arch), lib)
	}

	host, err := b.host()
	if err != nil {
		return nil, err
	}
	b.AddHardware(predicate.Func("IsHost", hardware.Hardware.IsHost), host)

	return b.Build()
}

func (b *Builder) target(hw hardware.Hardware) (library.SolutionLibrary, error) {
	var rows []library.SelectionRow[problem.Problem]
	for _, tc := range typeConfigs {
		for _, tr := range transposes {
			lib, err := b.sizeGrid(hw, tc, tr.a, tr.b)
			if err != nil {
				return nil, err
			}
			rows = append(rows, library.SelectionRow[problem.Problem]{
				Predicate: predicate.And(
					problem.TypesEqual(tc.a, tc.b, tc.c, tc.d, tc.compute),
					problem.TransposeEqual(tr.a, tr.b),
				),
				Library: lib,
			})
		}
	}
	return library.NewProblemSelection(rows...), nil
}

func (b *Builder) sizeGrid(hw hardware.Hardware, tc typeConfig, ta, tb problem.Operation) (library.SolutionLibrary, error) {
	kernels := make([]*solution.Solution, len(tileConfigs))
	for i, t := range tileConfigs {
		var preds []predicate.Predicate[problem.Problem]
		if t.alignK > 0 {
			preds = append(preds, problem.SizeMultiple(0, 0, t.alignK))
		}
		if tc.scaled {
			preds = append(preds, problem.ScaleSupported(true, true))
		} else {
			preds = append(preds, problem.ScaleSupported(false, false))
		}
		sol, err := b.AddSolution(solution.Solution{
			Name: fmt.Sprintf("Cijk_%s%s_%s_%s_GSU%d_%s",
				ta, tb, tc.label, t.tile, t.gsu, hw.Arch),
			Index:             b.registry.Len(),
			WorkspaceSize:     t.workspace,
			MacroTile:         t.tile,
			GlobalSplitU:      t.gsu,
			BenchmarkGFlops:   float64(hw.ComputeUnits) * tc.gflops * t.efficiency,
			ProblemPredicate:  predicate.And(preds...),
			HardwarePredicate: hardware.ArchEqual(hw.Arch),
		})
		if err != nil {
			return nil, err
		}
		kernels[i] = sol
	}

	leaves := make([]library.SolutionLibrary, len(kernels))
	for i, k := range kernels {
		leaves[i] = library.NewSingle(k)
	}

	var rows []library.Row
	for _, m := range gridFree {
		for _, n := range gridFree {
			for _, k := range gridBound {
				p := problem.Problem{M: m, N: n, K: k, BatchCount: 1}
				rows = append(rows, library.Row{Key: b.Key(p), Value: leaves[tileFor(m, n, k)]})
			}
		}
	}
	return b.Matching(rows...)
}

// host builds the CPU fallback: single precision, any transpose.
func (b *Builder) host() (library.SolutionLibrary, error) {
	tiles := []solution.MacroTile{
		{MT0: 64, MT1: 64, DepthU: 64},
		{MT0: 16, MT1: 16, DepthU: 64},
	}
	isHost := predicate.Func("IsHost", hardware.Hardware.IsHost)
	var leaves []library.SolutionLibrary
	for _, t := range tiles {
		sol, err := b.AddSolution(solution.Solution{
			Name:              fmt.Sprintf("Host_SSS_%s", t),
			Index:             b.registry.Len(),
			MacroTile:         t,
			GlobalSplitU:      1,
			BenchmarkGFlops:   50,
			HardwarePredicate: isHost,
		})
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, library.NewSingle(sol))
	}

	grid, err := b.Matching(
		library.Row{Key: b.Key(problem.Problem{M: 1024, N: 1024, K: 1024, BatchCount: 1}), Value: leaves[0]},
		library.Row{Key: b.Key(problem.Problem{M: 64, N: 64, K: 64, BatchCount: 1}), Value: leaves[1]},
	)
	if err != nil {
		return nil, err
	}
	return library.NewProblemSelection(library.SelectionRow[problem.Problem]{
		Predicate: problem.TypesEqual(problem.DataTypeF32, problem.DataTypeF32, problem.DataTypeF32, problem.DataTypeF32, problem.ComputeF32),
		Library:   grid,
	}), nil
}

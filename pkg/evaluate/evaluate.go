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

// Package evaluate scores a kernel for a problem by projecting its runtime
// from tile granularity, compute-unit occupancy and benchmarked throughput.
// Lower scores are better. Scores are deterministic.
package evaluate

import (
	"math"

	"github.com/tsenwang/hipBLASLt/pkg/hardware"
	"github.com/tsenwang/hipBLASLt/pkg/problem"
	"github.com/tsenwang/hipBLASLt/pkg/solution"
)

const (
	// DefaultGFlops is assumed for kernels without benchmark data.
	DefaultGFlops = 1000.0

	// DefaultComputeUnits is assumed when the hardware does not report any.
	DefaultComputeUnits = 1
)

// Model is the projected-performance evaluator.
type Model struct {
	// SplitOverhead is the relative cost added per extra GlobalSplitU
	// partition for the reduction pass.
	SplitOverhead float64
}

// NewModel returns a Model with the default split overhead.
func NewModel() Model {
	return Model{SplitOverhead: 0.02}
}

// Projection is the breakdown behind a score. Tile and wave counts are
// floating point so that very large problems do not overflow.
type Projection struct {
	Tiles       float64
	Waves       float64
	Granularity float64
	Occupancy   float64
	Seconds     float64
}

// Project estimates how sol would run for p on hw.
func (m Model) Project(p problem.Problem, hw hardware.Hardware, sol *solution.Solution) Projection {
	mt0 := float64(max(sol.MacroTile.MT0, 1))
	mt1 := float64(max(sol.MacroTile.MT1, 1))
	gsu := float64(max(sol.GlobalSplitU, 1))
	batch := float64(max(p.BatchCount, 1))
	cus := float64(max(hw.ComputeUnits, DefaultComputeUnits))
	rows, cols := float64(max(p.M, 0)), float64(max(p.N, 0))

	tilesM := math.Ceil(rows / mt0)
	tilesN := math.Ceil(cols / mt1)
	tiles := tilesM * tilesN * batch * gsu
	waves := math.Ceil(tiles / cus)

	granularity := 1.0
	if tilesM > 0 && tilesN > 0 {
		granularity = (rows * cols) / (tilesM * mt0 * tilesN * mt1)
	}
	occupancy := 1.0
	if waves > 0 {
		occupancy = tiles / (waves * cus)
	}

	gflops := sol.BenchmarkGFlops
	if gflops <= 0 {
		gflops = DefaultGFlops
	}
	effective := gflops * 1e9 * granularity * occupancy
	seconds := math.Inf(1)
	if effective > 0 {
		seconds = p.Flops() / effective * (1 + m.SplitOverhead*(gsu-1))
	}

	return Projection{
		Tiles:       tiles,
		Waves:       waves,
		Granularity: granularity,
		Occupancy:   occupancy,
		Seconds:     seconds,
	}
}

// Evaluate returns the projected runtime in seconds.
func (m Model) Evaluate(p problem.Problem, hw hardware.Hardware, sol *solution.Solution) float64 {
	return m.Project(p, hw, sol).Seconds
}

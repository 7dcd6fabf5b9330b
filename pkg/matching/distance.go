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

package matching

import (
	"math"

	"github.com/tsenwang/hipBLASLt/pkg/property"
)

// Distance scores how far a query key is from a row key. Results are
// nonnegative and zero means an exact match.
type Distance interface {
	Name() string
	Distance(query, row property.Key) float64
}

// Euclidean is the L2 distance.
type Euclidean struct{}

func (Euclidean) Name() string { return "Euclidean" }

func (Euclidean) Distance(query, row property.Key) float64 {
	var sum float64
	for i := range query {
		d := query[i] - row[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Manhattan is the L1 distance.
type Manhattan struct{}

func (Manhattan) Name() string { return "Manhattan" }

func (Manhattan) Distance(query, row property.Key) float64 {
	var sum float64
	for i := range query {
		sum += math.Abs(query[i] - row[i])
	}
	return sum
}

// Ratio sums the per-coordinate relative difference max/min - 1, so a row
// twice as large as the query scores the same as one half as large.
type Ratio struct{}

func (Ratio) Name() string { return "Ratio" }

func (Ratio) Distance(query, row property.Key) float64 {
	var sum float64
	for i := range query {
		lo, hi := math.Min(query[i], row[i]), math.Max(query[i], row[i])
		switch {
		case lo == hi:
		case lo <= 0:
			sum += hi - lo
		default:
			sum += hi/lo - 1
		}
	}
	return sum
}

// Equality matches identical keys only. Any difference is +Inf, which never
// beats the no-match sentinel.
type Equality struct{}

func (Equality) Name() string { return "Equality" }

func (Equality) Distance(query, row property.Key) float64 {
	for i := range query {
		if query[i] != row[i] {
			return math.Inf(1)
		}
	}
	return 0
}

// GridBased is the L2 distance in log2 space, suited to power-of-two size
// grids where 1024 should be as close to 2048 as 64 is to 128.
type GridBased struct{}

func (GridBased) Name() string { return "GridBased" }

func (GridBased) Distance(query, row property.Key) float64 {
	var sum float64
	for i := range query {
		d := math.Log2(1+math.Max(query[i], 0)) - math.Log2(1+math.Max(row[i], 0))
		sum += d * d
	}
	return math.Sqrt(sum)
}

// DistanceByName returns the distance with the given name.
func DistanceByName(name string) (Distance, bool) {
	for _, d := range []Distance{Euclidean{}, Manhattan{}, Ratio{}, Equality{}, GridBased{}} {
		if d.Name() == name {
			return d, true
		}
	}
	return nil, false
}

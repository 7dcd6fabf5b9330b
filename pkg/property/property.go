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

// Package property maps a problem to the ordered numeric feature vector used
// by distance matching.
package property

import (
	"strconv"
	"strings"

	"github.com/tsenwang/hipBLASLt/pkg/problem"
)

// Property extracts one coordinate of a feature vector from a problem.
// Implementations must be deterministic and side-effect free.
type Property[P any] interface {
	Name() string
	Value(p P) float64
}

// Key is an ordered feature vector.
type Key []float64

// String renders the key as "[128, 64, 1, 256]".
func (k Key) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range k {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	sb.WriteByte(']')
	return sb.String()
}

// Extract evaluates props against p in order.
func Extract[P any](props []Property[P], p P) Key {
	key := make(Key, len(props))
	for i, prop := range props {
		key[i] = prop.Value(p)
	}
	return key
}

// Names returns the property names in order.
func Names[P any](props []Property[P]) []string {
	names := make([]string, len(props))
	for i, prop := range props {
		names[i] = prop.Name()
	}
	return names
}

type gemmProperty struct {
	name string
	fn   func(problem.Problem) float64
}

func (g gemmProperty) Name() string                   { return g.name }
func (g gemmProperty) Value(p problem.Problem) float64 { return g.fn(p) }

// GEMM problem properties.
var (
	FreeSizeA Property[problem.Problem] = gemmProperty{"FreeSizeA", func(p problem.Problem) float64 { return float64(p.M) }}
	FreeSizeB Property[problem.Problem] = gemmProperty{"FreeSizeB", func(p problem.Problem) float64 { return float64(p.N) }}
	BoundSize Property[problem.Problem] = gemmProperty{"BoundSize", func(p problem.Problem) float64 { return float64(p.K) }}
	BatchSize Property[problem.Problem] = gemmProperty{"BatchSize", func(p problem.Problem) float64 { return float64(p.BatchCount) }}

	// AspectRatio is M/N; zero when N is zero.
	AspectRatio Property[problem.Problem] = gemmProperty{"AspectRatio", func(p problem.Problem) float64 {
		if p.N == 0 {
			return 0
		}
		return float64(p.M) / float64(p.N)
	}}

	Flops Property[problem.Problem] = gemmProperty{"Flops", problem.Problem.Flops}
)

// GEMM returns the default matching properties: M, N, batch, K.
func GEMM() []Property[problem.Problem] {
	return []Property[problem.Problem]{FreeSizeA, FreeSizeB, BatchSize, BoundSize}
}

// Lookup returns the GEMM property with the given name.
func Lookup(name string) (Property[problem.Problem], bool) {
	for _, p := range []Property[problem.Problem]{FreeSizeA, FreeSizeB, BoundSize, BatchSize, AspectRatio, Flops} {
		if strings.EqualFold(p.Name(), name) {
			return p, true
		}
	}
	return nil, false
}

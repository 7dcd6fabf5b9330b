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

package problem

import (
	"fmt"

	"github.com/tsenwang/hipBLASLt/pkg/predicate"
)

// TypesEqual accepts problems whose operand and compute types match exactly.
func TypesEqual(a, b, c, d DataType, compute ComputeType) predicate.Predicate[Problem] {
	name := fmt.Sprintf("TypesEqual(%s,%s,%s,%s,%s)", a, b, c, d, compute)
	return predicate.Func(name, func(p Problem) bool {
		return p.TypeA == a && p.TypeB == b && p.TypeC == c && p.TypeD == d && p.ComputeType == compute
	})
}

// TransposeEqual accepts problems with the given transpose modes.
// OpC is treated as OpT for real types.
func TransposeEqual(a, b Operation) predicate.Predicate[Problem] {
	norm := func(o Operation) bool { return o.Transposed() }
	return predicate.Func(fmt.Sprintf("TransposeEqual(%s,%s)", a, b), func(p Problem) bool {
		return norm(p.TransA) == norm(a) && norm(p.TransB) == norm(b)
	})
}

// BatchSizeMultiple accepts problems whose batch count is a multiple of v.
func BatchSizeMultiple(v int64) predicate.Predicate[Problem] {
	return predicate.Func(fmt.Sprintf("BatchSizeMultiple(%d)", v), func(p Problem) bool {
		return v > 0 && p.BatchCount%v == 0
	})
}

// SizeMultiple accepts problems whose M, N and K are multiples of the given
// alignments. A zero alignment disables the check for that dimension.
func SizeMultiple(m, n, k int64) predicate.Predicate[Problem] {
	mult := func(x, a int64) bool { return a <= 0 || x%a == 0 }
	return predicate.Func(fmt.Sprintf("SizeMultiple(%d,%d,%d)", m, n, k), func(p Problem) bool {
		return mult(p.M, m) && mult(p.N, n) && mult(p.K, k)
	})
}

// MaxBoundSize accepts problems whose K does not exceed limit.
func MaxBoundSize(limit int64) predicate.Predicate[Problem] {
	return predicate.Func(fmt.Sprintf("MaxBoundSize(%d)", limit), func(p Problem) bool {
		return p.K <= limit
	})
}

// ScaleSupported accepts problems whose scale requests are satisfied by a
// kernel compiled with the given scale support.
func ScaleSupported(scaleA, scaleB bool) predicate.Predicate[Problem] {
	return predicate.Func(fmt.Sprintf("ScaleSupported(%t,%t)", scaleA, scaleB), func(p Problem) bool {
		return (!p.ScaleA || scaleA) && (!p.ScaleB || scaleB)
	})
}

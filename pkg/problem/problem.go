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

	hblerrors "github.com/tsenwang/hipBLASLt/pkg/errors"
)

// Problem describes one GEMM workload: D = alpha * op(A) * op(B) + beta * C.
// A Problem is a comparable value; it is never mutated once built and may be
// used as a map key.
type Problem struct {
	M          int64 `json:"m" yaml:"m"`
	N          int64 `json:"n" yaml:"n"`
	K          int64 `json:"k" yaml:"k"`
	BatchCount int64 `json:"batchCount" yaml:"batchCount"`

	TransA Operation `json:"transA" yaml:"transA"`
	TransB Operation `json:"transB" yaml:"transB"`

	TypeA       DataType    `json:"typeA" yaml:"typeA"`
	TypeB       DataType    `json:"typeB" yaml:"typeB"`
	TypeC       DataType    `json:"typeC" yaml:"typeC"`
	TypeD       DataType    `json:"typeD" yaml:"typeD"`
	ComputeType ComputeType `json:"computeType" yaml:"computeType"`

	LDA int64 `json:"lda,omitempty" yaml:"lda,omitempty"`
	LDB int64 `json:"ldb,omitempty" yaml:"ldb,omitempty"`
	LDC int64 `json:"ldc,omitempty" yaml:"ldc,omitempty"`
	LDD int64 `json:"ldd,omitempty" yaml:"ldd,omitempty"`

	// ScaleA and ScaleB request per-matrix input scale factors.
	ScaleA bool `json:"scaleA,omitempty" yaml:"scaleA,omitempty"`
	ScaleB bool `json:"scaleB,omitempty" yaml:"scaleB,omitempty"`
}

// Option is a functional option for building a Problem.
type Option func(*Problem) error

// WithSizes sets the M, N and K dimensions.
func WithSizes(m, n, k int64) Option {
	return func(p *Problem) error {
		p.M, p.N, p.K = m, n, k
		return nil
	}
}

// WithBatch sets the batch count.
func WithBatch(batch int64) Option {
	return func(p *Problem) error {
		p.BatchCount = batch
		return nil
	}
}

// WithTranspose sets the transpose modes of A and B.
func WithTranspose(a, b string) Option {
	return func(p *Problem) error {
		ta, err := ParseOperation(a)
		if err != nil {
			return err
		}
		tb, err := ParseOperation(b)
		if err != nil {
			return err
		}
		p.TransA, p.TransB = ta, tb
		return nil
	}
}

// WithTypes sets the operand types. Empty strings keep the current value.
func WithTypes(a, b, c, d string) Option {
	return func(p *Problem) error {
		for _, f := range []struct {
			in  string
			out *DataType
		}{{a, &p.TypeA}, {b, &p.TypeB}, {c, &p.TypeC}, {d, &p.TypeD}} {
			if f.in == "" {
				continue
			}
			dt, err := ParseDataType(f.in)
			if err != nil {
				return err
			}
			*f.out = dt
		}
		return nil
	}
}

// WithComputeType sets the accumulation type.
func WithComputeType(s string) Option {
	return func(p *Problem) error {
		ct, err := ParseComputeType(s)
		if err != nil {
			return err
		}
		p.ComputeType = ct
		return nil
	}
}

// WithLeadingDims sets explicit leading dimensions. Zero keeps the packed default.
func WithLeadingDims(lda, ldb, ldc, ldd int64) Option {
	return func(p *Problem) error {
		p.LDA, p.LDB, p.LDC, p.LDD = lda, ldb, ldc, ldd
		return nil
	}
}

// WithScale enables input scale factors for A and/or B.
func WithScale(a, b bool) Option {
	return func(p *Problem) error {
		p.ScaleA, p.ScaleB = a, b
		return nil
	}
}

// New builds a validated Problem. Unset fields default to a single-precision,
// non-transposed, unbatched problem with packed leading dimensions.
func New(opts ...Option) (Problem, error) {
	p := Problem{
		BatchCount:  1,
		TransA:      OpN,
		TransB:      OpN,
		TypeA:       DataTypeF32,
		TypeB:       DataTypeF32,
		TypeC:       DataTypeF32,
		TypeD:       DataTypeF32,
		ComputeType: ComputeF32,
	}
	for _, opt := range opts {
		if err := opt(&p); err != nil {
			return Problem{}, hblerrors.Wrap(hblerrors.ErrCodeInvalidRequest, "invalid problem option", err)
		}
	}
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return Problem{}, err
	}
	return p, nil
}

// MustNew is New for hard-coded problems in tests and catalogs; it panics on error.
func MustNew(opts ...Option) Problem {
	p, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("MustNew: %v", err))
	}
	return p
}

// Normalize fills zero-valued defaults (batch count, transpose, types and
// packed leading dimensions) and returns the completed copy.
func (p Problem) Normalize() Problem {
	if p.BatchCount == 0 {
		p.BatchCount = 1
	}
	if p.TransA == "" {
		p.TransA = OpN
	}
	if p.TransB == "" {
		p.TransB = OpN
	}
	if p.TypeA == "" {
		p.TypeA = DataTypeF32
	}
	if p.TypeB == "" {
		p.TypeB = p.TypeA
	}
	if p.TypeC == "" {
		p.TypeC = p.TypeA
	}
	if p.TypeD == "" {
		p.TypeD = p.TypeC
	}
	if p.ComputeType == "" {
		p.ComputeType = ComputeF32
	}
	rowsA, rowsB := p.packedRows()
	if p.LDA == 0 {
		p.LDA = rowsA
	}
	if p.LDB == 0 {
		p.LDB = rowsB
	}
	if p.LDC == 0 {
		p.LDC = p.M
	}
	if p.LDD == 0 {
		p.LDD = p.M
	}
	return p
}

// packedRows returns the stored row count of A and B (column-major).
func (p Problem) packedRows() (int64, int64) {
	rowsA, rowsB := p.M, p.K
	if p.TransA.Transposed() {
		rowsA = p.K
	}
	if p.TransB.Transposed() {
		rowsB = p.N
	}
	return rowsA, rowsB
}

// Validate checks sizes, types and leading dimensions.
func (p Problem) Validate() error {
	invalid := func(msg string) error {
		return hblerrors.NewWithContext(hblerrors.ErrCodeInvalidRequest, msg, map[string]any{
			"problem": p.String(),
		})
	}
	if p.M < 1 || p.N < 1 || p.K < 1 {
		return invalid("problem sizes must be positive")
	}
	if p.BatchCount < 1 {
		return invalid("batch count must be positive")
	}
	for _, dt := range []DataType{p.TypeA, p.TypeB, p.TypeC, p.TypeD} {
		if !dt.IsValid() {
			return invalid(fmt.Sprintf("invalid data type: %q", dt))
		}
	}
	if _, err := ParseComputeType(string(p.ComputeType)); err != nil {
		return invalid(err.Error())
	}
	rowsA, rowsB := p.packedRows()
	if p.LDA < rowsA || p.LDB < rowsB || p.LDC < p.M || p.LDD < p.M {
		return invalid("leading dimension smaller than matrix rows")
	}
	return nil
}

// Flops returns the multiply-add operation count, 2*M*N*K*batch.
func (p Problem) Flops() float64 {
	return 2 * float64(p.M) * float64(p.N) * float64(p.K) * float64(p.BatchCount)
}

// String returns a compact description used in traces.
func (p Problem) String() string {
	s := fmt.Sprintf("%s%s_%s%s%s%s_%s m=%d n=%d k=%d batch=%d",
		p.TransA, p.TransB, p.TypeA, p.TypeB, p.TypeC, p.TypeD, p.ComputeType,
		p.M, p.N, p.K, p.BatchCount)
	if p.ScaleA || p.ScaleB {
		s += fmt.Sprintf(" scaleA=%t scaleB=%t", p.ScaleA, p.ScaleB)
	}
	return s
}

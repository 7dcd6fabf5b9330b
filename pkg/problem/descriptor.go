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

// Descriptor is the loosely typed form of a Problem read from files, flags
// and query strings. Enum fields accept the same aliases as the Parse
// functions and empty fields take the Problem defaults.
type Descriptor struct {
	M     int64 `json:"m" yaml:"m"`
	N     int64 `json:"n" yaml:"n"`
	K     int64 `json:"k" yaml:"k"`
	Batch int64 `json:"batch,omitempty" yaml:"batch,omitempty"`

	TransA string `json:"transA,omitempty" yaml:"transA,omitempty"`
	TransB string `json:"transB,omitempty" yaml:"transB,omitempty"`

	TypeA   string `json:"typeA,omitempty" yaml:"typeA,omitempty"`
	TypeB   string `json:"typeB,omitempty" yaml:"typeB,omitempty"`
	TypeC   string `json:"typeC,omitempty" yaml:"typeC,omitempty"`
	TypeD   string `json:"typeD,omitempty" yaml:"typeD,omitempty"`
	Compute string `json:"compute,omitempty" yaml:"compute,omitempty"`

	ScaleA bool `json:"scaleA,omitempty" yaml:"scaleA,omitempty"`
	ScaleB bool `json:"scaleB,omitempty" yaml:"scaleB,omitempty"`
}

// Build converts the descriptor into a validated Problem. When only TypeA
// is set, B, C and D follow it.
func (d Descriptor) Build() (Problem, error) {
	opts := []Option{
		WithSizes(d.M, d.N, d.K),
		WithTranspose(d.TransA, d.TransB),
		WithScale(d.ScaleA, d.ScaleB),
	}
	if d.Batch != 0 {
		opts = append(opts, WithBatch(d.Batch))
	}
	b, c, dd := d.TypeB, d.TypeC, d.TypeD
	if b == "" {
		b = d.TypeA
	}
	if c == "" {
		c = d.TypeA
	}
	if dd == "" {
		dd = c
	}
	opts = append(opts, WithTypes(d.TypeA, b, c, dd))
	if d.Compute != "" {
		opts = append(opts, WithComputeType(d.Compute))
	}
	return New(opts...)
}

// BuildAll converts descriptors in order and stops at the first invalid one.
func BuildAll(ds []Descriptor) ([]Problem, error) {
	out := make([]Problem, 0, len(ds))
	for _, d := range ds {
		p, err := d.Build()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

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

// Package catalog assembles solution-library hierarchies in memory. A
// catalog is built once, before any lookup, and is immutable afterwards.
package catalog

import (
	"fmt"
	"log/slog"

	"github.com/tsenwang/hipBLASLt/pkg/diagnostics"
	"github.com/tsenwang/hipBLASLt/pkg/hardware"
	"github.com/tsenwang/hipBLASLt/pkg/library"
	"github.com/tsenwang/hipBLASLt/pkg/matching"
	"github.com/tsenwang/hipBLASLt/pkg/predicate"
	"github.com/tsenwang/hipBLASLt/pkg/problem"
	"github.com/tsenwang/hipBLASLt/pkg/property"
	"github.com/tsenwang/hipBLASLt/pkg/solution"
)

// Builder collects solutions and libraries and produces a MasterLibrary.
// It is not safe for concurrent use.
type Builder struct {
	version       string
	registry      *solution.Registry
	properties    []property.Property[problem.Problem]
	distance      matching.Distance
	diag          diagnostics.Config
	evaluator     library.Evaluator
	caching       bool
	cacheCapacity int
	hardwareRows  []library.SelectionRow[hardware.Hardware]
	matchingCount int
}

// Option is a functional option for configuring a Builder.
type Option func(*Builder)

// WithVersion sets the catalog version label.
func WithVersion(v string) Option {
	return func(b *Builder) {
		b.version = v
	}
}

// WithProperties sets the matching properties of every table the builder creates.
func WithProperties(props ...property.Property[problem.Problem]) Option {
	return func(b *Builder) {
		if len(props) > 0 {
			b.properties = props
		}
	}
}

// WithDistance sets the distance of every table the builder creates.
func WithDistance(d matching.Distance) Option {
	return func(b *Builder) {
		if d != nil {
			b.distance = d
		}
	}
}

// WithDiagnostics sets the trace toggles captured by every matching library.
func WithDiagnostics(cfg diagnostics.Config) Option {
	return func(b *Builder) {
		b.diag = cfg
	}
}

// WithEvaluator sets the evaluator used in evaluation-selection mode.
func WithEvaluator(e library.Evaluator) Option {
	return func(b *Builder) {
		b.evaluator = e
	}
}

// WithCaching memoizes best-solution lookups at the root. capacity <= 0 uses
// the default capacity.
func WithCaching(capacity int) Option {
	return func(b *Builder) {
		b.caching = true
		b.cacheCapacity = capacity
	}
}

// NewBuilder returns a Builder with GEMM properties and Euclidean distance.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		version:    "dev",
		registry:   solution.NewRegistry(),
		properties: property.GEMM(),
		distance:   matching.Euclidean{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddSolution registers s and returns the shared instance.
func (b *Builder) AddSolution(s solution.Solution) (*solution.Solution, error) {
	return b.registry.Add(s)
}

// Key returns the feature key of p under the builder's properties.
func (b *Builder) Key(p problem.Problem) property.Key {
	return property.Extract(b.properties, p)
}

// Matching builds a ProblemMatchingLibrary over rows.
func (b *Builder) Matching(rows ...library.Row) (*library.ProblemMatchingLibrary, error) {
	table, err := library.NewTable(b.properties, b.distance, rows...)
	if err != nil {
		return nil, fmt.Errorf("matching library %d: %w", b.matchingCount, err)
	}
	b.matchingCount++
	opts := []library.Option{library.WithDiagnostics(b.diag)}
	if b.evaluator != nil {
		opts = append(opts, library.WithEvaluator(b.evaluator))
	}
	return library.NewProblemMatching(table, opts...), nil
}

// AddHardware appends a hardware row to the root selection.
func (b *Builder) AddHardware(pred predicate.Predicate[hardware.Hardware], lib library.SolutionLibrary) {
	b.hardwareRows = append(b.hardwareRows, library.SelectionRow[hardware.Hardware]{Predicate: pred, Library: lib})
}

// Build returns the catalog root.
func (b *Builder) Build() (*library.MasterLibrary, error) {
	if len(b.hardwareRows) == 0 {
		return nil, fmt.Errorf("catalog %s has no hardware rows", b.version)
	}
	var root library.SolutionLibrary = library.NewHardwareSelection(b.hardwareRows...)
	if b.caching {
		root = library.NewCaching(root, b.cacheCapacity)
	}

	slog.Debug("catalog built",
		"version", b.version,
		"solutions", b.registry.Len(),
		"matchingLibraries", b.matchingCount,
		"hardwareRows", len(b.hardwareRows),
		"diagnostics", b.diag,
	)
	return library.NewMaster(b.version, b.registry, root), nil
}

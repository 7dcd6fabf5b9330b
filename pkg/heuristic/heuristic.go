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

// Package heuristic is the host-facing decision call: given a problem and
// a device it returns ranked, workspace-feasible kernel candidates from a
// catalog, the way a BLAS library's algorithm-query entry point does.
package heuristic

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tsenwang/hipBLASLt/pkg/defaults"
	hblerrors "github.com/tsenwang/hipBLASLt/pkg/errors"
	"github.com/tsenwang/hipBLASLt/pkg/hardware"
	"github.com/tsenwang/hipBLASLt/pkg/library"
	"github.com/tsenwang/hipBLASLt/pkg/problem"
	"github.com/tsenwang/hipBLASLt/pkg/solution"
)

// Preference constrains acceptable candidates.
type Preference struct {
	// MaxWorkspaceBytes is the largest workspace the caller can provide.
	MaxWorkspaceBytes uint64 `json:"maxWorkspaceBytes" yaml:"maxWorkspaceBytes"`
}

// DefaultPreference returns the default workspace budget.
func DefaultPreference() Preference {
	return Preference{MaxWorkspaceBytes: defaults.MaxWorkspaceBytes}
}

// Result is one ranked candidate.
type Result struct {
	Rank          int                `json:"rank" yaml:"rank"`
	Solution      *solution.Solution `json:"solution" yaml:"solution"`
	WorkspaceSize uint64             `json:"workspaceSize" yaml:"workspaceSize"`
}

// MaxWorkspace returns the largest workspace any result needs, which is
// what a caller allocates to try every candidate.
func MaxWorkspace(results []Result) uint64 {
	var ws uint64
	for _, r := range results {
		ws = max(ws, r.WorkspaceSize)
	}
	return ws
}

// Selector answers heuristic queries against one catalog. It holds no
// mutable state of its own and is safe for concurrent use.
type Selector struct {
	lib         library.SolutionLibrary
	concurrency int
}

// Option is a functional option for configuring a Selector.
type Option func(*Selector)

// WithConcurrency limits the parallelism of ResolveBatch.
func WithConcurrency(n int) Option {
	return func(s *Selector) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewSelector returns a Selector over lib.
func NewSelector(lib library.SolutionLibrary, opts ...Option) *Selector {
	s := &Selector{lib: lib, concurrency: defaults.BatchConcurrency}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Library returns the catalog the selector queries.
func (s *Selector) Library() library.SolutionLibrary {
	return s.lib
}

func validateRequested(requested int) error {
	if requested < 1 || requested > defaults.MaxRequestedSolutions {
		return hblerrors.NewWithContext(hblerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("requested solution count must be within [1, %d]", defaults.MaxRequestedSolutions),
			map[string]any{"requested": requested})
	}
	return nil
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return hblerrors.Wrap(hblerrors.ErrCodeTimeout, "selection canceled", err)
	}
	return nil
}

// filter keeps candidates within the workspace budget and assigns ranks.
func filter(top solution.Vector, pref Preference) []Result {
	out := make([]Result, 0, len(top))
	for _, sol := range top {
		if sol.WorkspaceSize > pref.MaxWorkspaceBytes {
			continue
		}
		out = append(out, Result{Rank: len(out), Solution: sol, WorkspaceSize: sol.WorkspaceSize})
	}
	return out
}

func observe(op string, start time.Time, err error) {
	outcome := "found"
	switch {
	case err == nil:
	case hblerrors.IsCode(err, hblerrors.ErrCodeNotFound):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	selectionDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	selectionTotal.WithLabelValues(op, outcome).Inc()
}

// GetHeuristic returns up to requested ranked candidates for p on hw whose
// workspace fits pref. No candidate is a NOT_FOUND error.
func (s *Selector) GetHeuristic(ctx context.Context, p problem.Problem, hw hardware.Hardware, pref Preference, requested int) (results []Result, err error) {
	start := time.Now()
	defer func() { observe("heuristic", start, err) }()

	if err = validateRequested(requested); err != nil {
		return nil, err
	}
	if err = p.Validate(); err != nil {
		return nil, err
	}
	if err = checkContext(ctx); err != nil {
		return nil, err
	}

	results = filter(s.lib.FindTopSolutions(p, hw, requested), pref)
	slog.Debug("heuristic selection",
		"problem", p.String(),
		"hardware", hw.String(),
		"requested", requested,
		"returned", len(results),
	)
	if len(results) == 0 {
		return nil, hblerrors.NewWithContext(hblerrors.ErrCodeNotFound, "no valid solution found", map[string]any{
			"problem":  p.String(),
			"hardware": hw.String(),
		})
	}
	return results, nil
}

// GetGroupedHeuristic is GetHeuristic for a grouped GEMM. Routing uses the
// first problem; every problem must be supported by a returned candidate.
func (s *Selector) GetGroupedHeuristic(ctx context.Context, problems []problem.Problem, hw hardware.Hardware, pref Preference, requested int) (results []Result, err error) {
	start := time.Now()
	defer func() { observe("grouped", start, err) }()

	if len(problems) == 0 {
		return nil, hblerrors.New(hblerrors.ErrCodeInvalidRequest, "grouped GEMM requires at least one problem")
	}
	if len(problems) > defaults.MaxGroupedProblems {
		return nil, hblerrors.NewWithContext(hblerrors.ErrCodeInvalidRequest, "too many grouped problems",
			map[string]any{"count": len(problems), "max": defaults.MaxGroupedProblems})
	}
	if err = validateRequested(requested); err != nil {
		return nil, err
	}
	for i, p := range problems {
		if err = p.Validate(); err != nil {
			return nil, hblerrors.WrapWithContext(hblerrors.ErrCodeInvalidRequest, "invalid grouped problem", err,
				map[string]any{"index": i})
		}
	}
	if err = checkContext(ctx); err != nil {
		return nil, err
	}

	results = filter(s.lib.FindTopSolutionsGroupedGemm(problems, hw, requested), pref)
	if len(results) == 0 {
		return nil, hblerrors.NewWithContext(hblerrors.ErrCodeNotFound, "no valid solution found", map[string]any{
			"problems": len(problems),
			"hardware": hw.String(),
		})
	}
	return results, nil
}

// GetAllAlgos returns every workspace-feasible solution for p, in catalog
// order. SearchAll ignores eligibility and is intended for diagnostics.
func (s *Selector) GetAllAlgos(ctx context.Context, p problem.Problem, hw hardware.Hardware, pref Preference, search library.SearchType) (results []Result, err error) {
	start := time.Now()
	defer func() { observe("all", start, err) }()

	if err = p.Validate(); err != nil {
		return nil, err
	}
	if err = checkContext(ctx); err != nil {
		return nil, err
	}

	results = filter(solution.Vector(s.lib.FindAllSolutions(p, hw, search).Slice()), pref)
	if len(results) == 0 {
		return nil, hblerrors.NewWithContext(hblerrors.ErrCodeNotFound, "no valid solution found", map[string]any{
			"problem": p.String(),
			"search":  search.String(),
		})
	}
	return results, nil
}

// BatchResult is the outcome for one problem of a batch.
type BatchResult struct {
	Problem problem.Problem `json:"problem" yaml:"problem"`
	Results []Result        `json:"results" yaml:"results"`
}

// ResolveBatch runs GetHeuristic for independent problems in parallel.
// A problem without candidates gets an empty result; any other error
// cancels the batch.
func (s *Selector) ResolveBatch(ctx context.Context, problems []problem.Problem, hw hardware.Hardware, pref Preference, requested int) ([]BatchResult, error) {
	if len(problems) > defaults.MaxGroupedProblems {
		return nil, hblerrors.NewWithContext(hblerrors.ErrCodeInvalidRequest, "too many problems in batch",
			map[string]any{"count": len(problems), "max": defaults.MaxGroupedProblems})
	}

	out := make([]BatchResult, len(problems))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, p := range problems {
		g.Go(func() error {
			results, err := s.GetHeuristic(gctx, p, hw, pref, requested)
			if err != nil && !hblerrors.IsCode(err, hblerrors.ErrCodeNotFound) {
				return hblerrors.WrapWithContext(hblerrors.CodeOf(err), "batch selection failed", err,
					map[string]any{"index": i})
			}
			out[i] = BatchResult{Problem: p, Results: results}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

package heuristic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsenwang/hipBLASLt/pkg/catalog"
	"github.com/tsenwang/hipBLASLt/pkg/defaults"
	hblerrors "github.com/tsenwang/hipBLASLt/pkg/errors"
	"github.com/tsenwang/hipBLASLt/pkg/hardware"
	"github.com/tsenwang/hipBLASLt/pkg/library"
	"github.com/tsenwang/hipBLASLt/pkg/problem"
)

var mi300 = hardware.MustNew("gfx942", 304)

func newSelector(t *testing.T, opts ...Option) *Selector {
	t.Helper()
	lib, err := catalog.Synthetic(catalog.DefaultTargets())
	require.NoError(t, err)
	return NewSelector(lib, opts...)
}

func half(m, n, k int64) problem.Problem {
	return problem.MustNew(problem.WithSizes(m, n, k), problem.WithTypes("f16", "f16", "f16", "f16"))
}

func TestGetHeuristic(t *testing.T) {
	s := newSelector(t)
	ctx := context.Background()

	results, err := s.GetHeuristic(ctx, half(1024, 1024, 1024), mi300, DefaultPreference(), defaults.RequestedSolutions)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.LessOrEqual(t, len(results), defaults.RequestedSolutions)
	for i, r := range results {
		assert.Equal(t, i, r.Rank)
		assert.LessOrEqual(t, r.WorkspaceSize, defaults.MaxWorkspaceBytes)
		assert.Equal(t, r.Solution.WorkspaceSize, r.WorkspaceSize)
	}
	assert.Same(t, s.Library().FindBestSolution(half(1024, 1024, 1024), mi300, nil), results[0].Solution)
}

func TestGetHeuristicWorkspaceFilter(t *testing.T) {
	s := newSelector(t)
	ctx := context.Background()
	p := half(64, 64, 8192) // best kernel splits K and needs 64 MiB

	unlimited, err := s.GetHeuristic(ctx, p, mi300, Preference{MaxWorkspaceBytes: 1 << 40}, 5)
	require.NoError(t, err)
	assert.Greater(t, MaxWorkspace(unlimited), defaults.MaxWorkspaceBytes)

	limited, err := s.GetHeuristic(ctx, p, mi300, DefaultPreference(), 5)
	require.NoError(t, err)
	assert.LessOrEqual(t, MaxWorkspace(limited), defaults.MaxWorkspaceBytes)
	assert.Less(t, len(limited), len(unlimited))

	_, err = s.GetHeuristic(ctx, p, mi300, Preference{}, 1)
	assert.True(t, hblerrors.IsCode(err, hblerrors.ErrCodeNotFound), "got %v", err)
}

func TestGetHeuristicErrors(t *testing.T) {
	s := newSelector(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		ctx       context.Context
		p         problem.Problem
		hw        hardware.Hardware
		requested int
		code      hblerrors.ErrorCode
	}{
		{"zero requested", ctx, half(64, 64, 64), mi300, 0, hblerrors.ErrCodeInvalidRequest},
		{"too many requested", ctx, half(64, 64, 64), mi300, defaults.MaxRequestedSolutions + 1, hblerrors.ErrCodeInvalidRequest},
		{"invalid problem", ctx, problem.Problem{}, mi300, 1, hblerrors.ErrCodeInvalidRequest},
		{"unsupported arch", ctx, half(64, 64, 64), hardware.MustNew("gfx1100", 48), 1, hblerrors.ErrCodeNotFound},
		{"canceled", canceled(), half(64, 64, 64), mi300, 1, hblerrors.ErrCodeTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := s.GetHeuristic(tt.ctx, tt.p, tt.hw, DefaultPreference(), tt.requested)
			require.Error(t, err)
			assert.Nil(t, results)
			assert.Equal(t, tt.code, hblerrors.CodeOf(err))
		})
	}
}

func canceled() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func TestGetGroupedHeuristic(t *testing.T) {
	s := newSelector(t)
	ctx := context.Background()

	_, err := s.GetGroupedHeuristic(ctx, nil, mi300, DefaultPreference(), 1)
	assert.Equal(t, hblerrors.ErrCodeInvalidRequest, hblerrors.CodeOf(err))

	_, err = s.GetGroupedHeuristic(ctx, []problem.Problem{half(64, 64, 64), {}}, mi300, DefaultPreference(), 1)
	assert.Equal(t, hblerrors.ErrCodeInvalidRequest, hblerrors.CodeOf(err))

	_, err = s.GetGroupedHeuristic(ctx, make([]problem.Problem, defaults.MaxGroupedProblems+1), mi300, DefaultPreference(), 1)
	assert.Equal(t, hblerrors.ErrCodeInvalidRequest, hblerrors.CodeOf(err))

	group := []problem.Problem{half(1024, 1024, 1024), half(1024, 1024, 2048), half(900, 1000, 1024)}
	results, err := s.GetGroupedHeuristic(ctx, group, mi300, DefaultPreference(), 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		for _, p := range group {
			assert.True(t, r.Solution.Accepts(p, mi300))
		}
	}
}

func TestGetAllAlgos(t *testing.T) {
	s := newSelector(t)
	ctx := context.Background()
	p := half(1024, 1024, 1024)
	pref := Preference{MaxWorkspaceBytes: 1 << 40}

	def, err := s.GetAllAlgos(ctx, p, mi300, pref, library.SearchDefault)
	require.NoError(t, err)
	all, err := s.GetAllAlgos(ctx, p, mi300, pref, library.SearchAll)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(def), len(all))

	best := s.Library().FindBestSolution(p, mi300, nil)
	var found bool
	for _, r := range def {
		found = found || r.Solution.ID == best.ID
	}
	assert.True(t, found, "best solution must be among all default solutions")

	_, err = s.GetAllAlgos(ctx, half(64, 64, 64), hardware.MustNew("gfx1100", 48), pref, library.SearchDefault)
	assert.True(t, hblerrors.IsCode(err, hblerrors.ErrCodeNotFound))
}

func TestResolveBatch(t *testing.T) {
	s := newSelector(t, WithConcurrency(3))
	ctx := context.Background()

	var problems []problem.Problem
	for _, m := range []int64{64, 256, 1024, 4096, 100, 3000} {
		problems = append(problems, half(m, m, 1024))
	}
	out, err := s.ResolveBatch(ctx, problems, mi300, DefaultPreference(), 2)
	require.NoError(t, err)
	require.Len(t, out, len(problems))
	for i, br := range out {
		assert.Equal(t, problems[i], br.Problem)
		want, err := s.GetHeuristic(ctx, problems[i], mi300, DefaultPreference(), 2)
		require.NoError(t, err)
		assert.Equal(t, want, br.Results)
	}

	// Unsupported hardware yields empty results rather than an error.
	out, err = s.ResolveBatch(ctx, problems[:2], hardware.MustNew("gfx1100", 48), DefaultPreference(), 2)
	require.NoError(t, err)
	assert.Empty(t, out[0].Results)

	_, err = s.ResolveBatch(ctx, []problem.Problem{half(64, 64, 64), {}}, mi300, DefaultPreference(), 2)
	assert.Equal(t, hblerrors.ErrCodeInvalidRequest, hblerrors.CodeOf(err))
}

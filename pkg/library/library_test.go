package library

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsenwang/hipBLASLt/pkg/diagnostics"
	"github.com/tsenwang/hipBLASLt/pkg/hardware"
	"github.com/tsenwang/hipBLASLt/pkg/matching"
	"github.com/tsenwang/hipBLASLt/pkg/predicate"
	"github.com/tsenwang/hipBLASLt/pkg/problem"
	"github.com/tsenwang/hipBLASLt/pkg/property"
	"github.com/tsenwang/hipBLASLt/pkg/solution"
)

var (
	mnk = []property.Property[problem.Problem]{property.FreeSizeA, property.FreeSizeB, property.BoundSize}
	mi300 = hardware.MustNew("gfx942", 304)
)

type fixture struct {
	t        *testing.T
	registry *solution.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{t: t, registry: solution.NewRegistry()}
}

func (f *fixture) solution(index int, pred predicate.Predicate[problem.Problem]) *solution.Solution {
	f.t.Helper()
	s, err := f.registry.Add(solution.Solution{
		Name:             fmt.Sprintf("kernel%d", index),
		Index:            index,
		ProblemPredicate: pred,
	})
	require.NoError(f.t, err)
	return s
}

func (f *fixture) leaf(index int) *SingleSolutionLibrary {
	f.t.Helper()
	return NewSingle(f.solution(index, nil))
}

func (f *fixture) matching(opts []Option, rows ...Row) *ProblemMatchingLibrary {
	f.t.Helper()
	table, err := NewTable(mnk, matching.Manhattan{}, rows...)
	require.NoError(f.t, err)
	return NewProblemMatching(table, opts...)
}

func key(m, n, k float64) property.Key { return property.Key{m, n, k} }

func gemm(m, n, k int64) problem.Problem {
	return problem.MustNew(problem.WithSizes(m, n, k))
}

func TestNearestNeighbour(t *testing.T) {
	f := newFixture(t)
	lib := f.matching(nil,
		Row{Key: key(32, 128, 128), Value: f.leaf(32)},
		Row{Key: key(64, 128, 128), Value: f.leaf(64)},
		Row{Key: key(128, 128, 128), Value: f.leaf(128)},
	)

	fitness := -1.0
	got := lib.FindBestSolution(gemm(100, 128, 128), mi300, &fitness)
	require.NotNil(t, got)
	assert.Equal(t, 128, got.Index)
	assert.Equal(t, 28.0, fitness)

	// Without a fitness location the result is the same.
	assert.Same(t, got, lib.FindBestSolution(gemm(100, 128, 128), mi300, nil))
}

func TestEmptyTableLeavesFitnessUntouched(t *testing.T) {
	f := newFixture(t)
	lib := f.matching(nil)

	fitness := 42.0
	assert.Nil(t, lib.FindBestSolution(gemm(1, 1, 1), mi300, &fitness))
	assert.Equal(t, 42.0, fitness)
	assert.Zero(t, lib.FindAllSolutions(gemm(1, 1, 1), mi300, SearchAll).Len())
	assert.Empty(t, lib.FindTopSolutions(gemm(1, 1, 1), mi300, 3))
	assert.Nil(t, lib.GetSolutionByIndex(gemm(1, 1, 1), mi300, 0))
}

func TestRankedTiesFollowDeclarationOrder(t *testing.T) {
	f := newFixture(t)
	var rows []Row
	for i := range 5 {
		rows = append(rows, Row{Key: key(64, 64, 64), Value: f.leaf(i)})
	}
	lib := f.matching(nil, rows...)

	top := lib.FindTopSolutions(gemm(64, 64, 64), mi300, 2)
	require.Len(t, top, 2)
	assert.Equal(t, []int{0, 1}, top.Indices())
}

func TestTopSolutionsDedupAndLimit(t *testing.T) {
	f := newFixture(t)
	shared := f.leaf(1)
	lib := f.matching(nil,
		Row{Key: key(64, 64, 64), Value: shared},
		Row{Key: key(64, 64, 128), Value: shared},
		Row{Key: key(128, 64, 64), Value: f.leaf(2)},
		Row{Key: key(256, 64, 64), Value: f.leaf(3)},
	)
	p := gemm(64, 64, 64)

	top := lib.FindTopSolutions(p, mi300, 10)
	assert.Equal(t, []int{1, 2, 3}, top.Indices())
	assert.Len(t, lib.FindTopSolutions(p, mi300, 2), 2)
	assert.Empty(t, lib.FindTopSolutions(p, mi300, 0))
	assert.Same(t, lib.FindBestSolution(p, mi300, nil), top[0])
}

func TestGetSolutionByIndexDelegates(t *testing.T) {
	f := newFixture(t)
	lib := f.matching(nil,
		Row{Key: key(64, 64, 64), Value: f.leaf(7)},
		Row{Key: key(512, 512, 512), Value: f.leaf(9)},
	)

	got := lib.GetSolutionByIndex(gemm(64, 64, 64), mi300, 7)
	require.NotNil(t, got)
	assert.Equal(t, 7, got.Index)

	// The nested leaf owns the range check.
	assert.Nil(t, lib.GetSolutionByIndex(gemm(64, 64, 64), mi300, 1000))
}

func TestEvaluationSelection(t *testing.T) {
	f := newFixture(t)
	near, far := f.leaf(1), f.leaf(2)
	prefersFar := EvaluatorFunc(func(_ problem.Problem, _ hardware.Hardware, s *solution.Solution) float64 {
		if s.Index == 2 {
			return 0.5
		}
		return 1
	})
	rows := []Row{
		{Key: key(64, 64, 64), Value: near},
		{Key: key(4096, 4096, 4096), Value: far},
	}

	byDistance := f.matching(nil, rows...)
	byEvaluation := f.matching([]Option{
		WithDiagnostics(diagnostics.Config{EvaluationSelection: true}),
		WithEvaluator(prefersFar),
	}, rows...)
	p := gemm(64, 64, 64)

	assert.Equal(t, 1, byDistance.FindBestSolution(p, mi300, nil).Index)

	score := -1.0
	got := byEvaluation.FindBestSolution(p, mi300, &score)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Index)
	assert.Equal(t, -1.0, score, "evaluator scores are not reported as fitness")
	assert.True(t, byEvaluation.FindAllSolutions(p, mi300, SearchDefault).Contains(got))
}

func TestDiagnosticsDoNotChangeResults(t *testing.T) {
	f := newFixture(t)
	rows := []Row{
		{Key: key(32, 32, 32), Value: f.leaf(1)},
		{Key: key(64, 64, 64), Value: f.leaf(2)},
		{Key: key(128, 128, 128), Value: f.leaf(3)},
	}
	var sink bytes.Buffer
	quiet := f.matching(nil, rows...)
	loud := f.matching([]Option{WithDiagnostics(diagnostics.Config{
		Trace:               true,
		PrintSelectionIndex: true,
		Sink:                &sink,
	})}, rows...)

	for _, p := range []problem.Problem{gemm(1, 1, 1), gemm(60, 70, 80), gemm(1000, 1, 1)} {
		for range 3 {
			assert.Same(t, quiet.FindBestSolution(p, mi300, nil), loud.FindBestSolution(p, mi300, nil))
			assert.Equal(t, quiet.FindTopSolutions(p, mi300, 2).IDs(), loud.FindTopSolutions(p, mi300, 2).IDs())
			assert.Equal(t,
				quiet.FindAllSolutions(p, mi300, SearchDefault).Slice(),
				loud.FindAllSolutions(p, mi300, SearchDefault).Slice())
		}
	}
	assert.NotEmpty(t, sink.String())
}

func TestTraceOutput(t *testing.T) {
	f := newFixture(t)
	var sink bytes.Buffer
	a, b := f.leaf(1), f.leaf(2)
	lib := f.matching([]Option{WithDiagnostics(diagnostics.Config{Trace: true, Sink: &sink})},
		Row{Key: key(1, 1, 1), Value: a},
		Row{Key: key(2, 2, 2), Value: b},
	)

	lib.FindAllSolutions(gemm(1, 1, 1), mi300, SearchDefault)
	assert.Equal(t, a.Description()+"\n\n"+b.Description()+"\n\n", sink.String())

	sink.Reset()
	lib.FindAllSolutionsGroupedGemm([]problem.Problem{gemm(1, 1, 1)}, mi300, SearchDefault)
	assert.Equal(t, a.Description()+"\n\n"+b.Description()+"\n\n", sink.String())
}

func TestPrintSelectionIndex(t *testing.T) {
	f := newFixture(t)
	var sink bytes.Buffer
	lib := f.matching([]Option{WithDiagnostics(diagnostics.Config{PrintSelectionIndex: true, Sink: &sink})},
		Row{Key: key(1, 1, 1), Value: f.leaf(11)},
		Row{Key: key(2, 2, 2), Value: f.leaf(22)},
	)

	lib.FindTopSolutions(gemm(1, 1, 1), mi300, 5)
	assert.Equal(t, "Library logic index of top solutions: 11, 22, \n", sink.String())

	sink.Reset()
	lib.FindTopSolutions(gemm(1, 1, 1), mi300, 0)
	assert.Equal(t, "No solution found\n", sink.String())

	sink.Reset()
	assert.Len(t, lib.FindTopSolutionsGroupedGemm([]problem.Problem{gemm(1, 1, 1)}, mi300, 5), 2)
	assert.Empty(t, lib.FindTopSolutionsGroupedGemm(nil, mi300, 5))
	assert.Empty(t, sink.String(), "grouped top search does not print the index")
}

func TestGroupedAsymmetry(t *testing.T) {
	f := newFixture(t)
	aligned := problem.SizeMultiple(0, 0, 8)
	var sink bytes.Buffer
	build := func() *ProblemMatchingLibrary {
		return f.matching([]Option{WithDiagnostics(diagnostics.Config{Trace: true, Sink: &sink})},
			Row{Key: key(64, 64, 64), Value: NewSingle(f.solution(f.registry.Len()+1, aligned))},
			Row{Key: key(1024, 1024, 1024), Value: NewSingle(f.solution(f.registry.Len()+1, nil))},
		)
	}
	first, second := build(), build()

	p0 := gemm(64, 64, 64)
	p1 := gemm(4096, 4096, 64)
	p2 := gemm(64, 64, 63) // rejected by the aligned kernel

	sink.Reset()
	setA := first.FindAllSolutionsGroupedGemm([]problem.Problem{p0, p1}, mi300, SearchDefault)
	traceA := sink.String()

	sink.Reset()
	setB := second.FindAllSolutionsGroupedGemm([]problem.Problem{p0, p2}, mi300, SearchDefault)
	traceB := sink.String()

	// Row selection is driven by P0 alone, so both visit the same rows.
	assert.Equal(t, strings.Count(traceA, "\n\n"), strings.Count(traceB, "\n\n"))
	// Resolution uses the full list, so the resolved sets differ.
	assert.Equal(t, 2, setA.Len())
	assert.Equal(t, 1, setB.Len())

	// Top-match routing also keys on P0: the nearest row for P0 wins even
	// though P1 alone would route elsewhere.
	topA := first.FindTopSolutionsGroupedGemm([]problem.Problem{p0, p1}, mi300, 1)
	require.Len(t, topA, 1)
	assert.Same(t, first.FindBestSolution(p0, mi300, nil), topA[0])

	// With P2 the nearest row resolves to nothing and the next row is used.
	topB := second.FindTopSolutionsGroupedGemm([]problem.Problem{p0, p2}, mi300, 1)
	require.Len(t, topB, 1)
	assert.NotSame(t, second.FindBestSolution(p0, mi300, nil), topB[0])
}

func TestGroupedEmptyList(t *testing.T) {
	f := newFixture(t)
	lib := f.matching(nil, Row{Key: key(1, 1, 1), Value: f.leaf(1)})

	fitness := 3.0
	assert.Nil(t, lib.FindBestSolutionGroupedGemm(nil, mi300, &fitness))
	assert.Equal(t, 3.0, fitness)
	assert.Zero(t, lib.FindAllSolutionsGroupedGemm(nil, mi300, SearchAll).Len())
	assert.Empty(t, lib.FindTopSolutionsGroupedGemm([]problem.Problem{}, mi300, 4))
}

func TestNestedMatching(t *testing.T) {
	f := newFixture(t)
	inner := f.matching(nil,
		Row{Key: key(64, 64, 64), Value: f.leaf(1)},
		Row{Key: key(128, 128, 128), Value: f.leaf(2)},
	)
	outer := f.matching(nil,
		Row{Key: key(100, 100, 100), Value: inner},
		Row{Key: key(4096, 4096, 4096), Value: f.leaf(3)},
	)

	got := outer.FindBestSolution(gemm(120, 120, 120), mi300, nil)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Index)
	assert.Equal(t, 3, outer.FindAllSolutions(gemm(120, 120, 120), mi300, SearchDefault).Len())
	assert.Equal(t, "Matching", outer.Type())
	assert.Contains(t, outer.Description(), "2 rows")
}

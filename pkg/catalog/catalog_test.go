package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsenwang/hipBLASLt/pkg/diagnostics"
	"github.com/tsenwang/hipBLASLt/pkg/hardware"
	"github.com/tsenwang/hipBLASLt/pkg/library"
	"github.com/tsenwang/hipBLASLt/pkg/matching"
	"github.com/tsenwang/hipBLASLt/pkg/predicate"
	"github.com/tsenwang/hipBLASLt/pkg/problem"
	"github.com/tsenwang/hipBLASLt/pkg/property"
	"github.com/tsenwang/hipBLASLt/pkg/solution"
)

func synthetic(t *testing.T, opts ...Option) *library.MasterLibrary {
	t.Helper()
	lib, err := Synthetic(DefaultTargets(), opts...)
	require.NoError(t, err)
	return lib
}

func half(m, n, k int64, opts ...problem.Option) problem.Problem {
	return problem.MustNew(append([]problem.Option{
		problem.WithSizes(m, n, k),
		problem.WithTypes("f16", "f16", "f16", "f16"),
	}, opts...)...)
}

func TestSyntheticShape(t *testing.T) {
	lib := synthetic(t)
	perTarget := len(typeConfigs) * len(transposes) * len(tileConfigs)

	var count int
	names := map[string]bool{}
	for s := range lib.Solutions() {
		count++
		assert.False(t, names[s.Name], "duplicate kernel name %s", s.Name)
		names[s.Name] = true
	}
	assert.Equal(t, 3*perTarget+2, count)
	assert.Equal(t, "synthetic", lib.Version())
}

func TestSyntheticSelection(t *testing.T) {
	lib := synthetic(t)
	mi300 := hardware.MustNew("gfx942", 304)

	tests := []struct {
		name string
		p    problem.Problem
		hw   hardware.Hardware
		want string // substring of the kernel name; empty means no solution
	}{
		{"large square", half(4096, 4096, 8192), mi300, "NN_HHS_MT256x256x64_GSU1_gfx942"},
		{"misaligned K falls back", half(4096, 4096, 8191), mi300, "MT256x128x64"},
		{"skinny deep", half(64, 64, 8192), mi300, "MT32x32x256_GSU8"},
		{"small", half(64, 64, 64), mi300, "MT64x64x128_GSU4"},
		{"transposed", half(256, 256, 1024, problem.WithTranspose("T", "N")), mi300, "TN_HHS"},
		{"other arch", half(256, 256, 1024), hardware.MustNew("gfx90a", 104), "gfx90a"},
		{"unknown arch", half(256, 256, 1024), hardware.MustNew("gfx1100", 48), ""},
		{"fp8 scaled", problem.MustNew(
			problem.WithSizes(1024, 1024, 1024),
			problem.WithTypes("f8", "f8", "f16", "f16"),
			problem.WithScale(true, true)), mi300, "F8H"},
		{"scale unsupported", half(1024, 1024, 1024, problem.WithScale(true, false)), mi300, ""},
		{"host single", problem.MustNew(problem.WithSizes(900, 900, 900)), hardware.Host(), "Host_SSS_MT64x64x64"},
		{"host half", half(900, 900, 900), hardware.Host(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lib.FindBestSolution(tt.p, tt.hw, nil)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Contains(t, got.Name, tt.want)
			assert.True(t, got.Accepts(tt.p, tt.hw))
		})
	}
}

func TestSyntheticInvariants(t *testing.T) {
	lib := synthetic(t)
	for _, hw := range append(DefaultTargets(), hardware.Host()) {
		for _, m := range []int64{1, 100, 777, 5000} {
			for _, k := range []int64{63, 64, 2000, 9000} {
				for _, p := range []problem.Problem{half(m, 512, k), problem.MustNew(problem.WithSizes(m, 512, k))} {
					name := hw.Arch + " " + p.String()
					def := lib.FindAllSolutions(p, hw, library.SearchDefault)
					all := lib.FindAllSolutions(p, hw, library.SearchAll)
					assert.True(t, def.IsSubsetOf(all), name)

					best := lib.FindBestSolution(p, hw, nil)
					top := lib.FindTopSolutions(p, hw, 5)
					assert.LessOrEqual(t, len(top), 5, name)
					if best == nil {
						assert.Empty(t, top, name)
						continue
					}
					assert.True(t, def.Contains(best), name)
					require.NotEmpty(t, top, name)
					assert.Same(t, best, top[0], name)

					seen := map[solution.ID]bool{}
					for _, s := range top {
						assert.False(t, seen[s.ID], name)
						seen[s.ID] = true
					}
				}
			}
		}
	}
}

func TestSyntheticCachingAndDiagnostics(t *testing.T) {
	var sink strings.Builder
	cached := synthetic(t, WithCaching(0), WithDiagnostics(diagnostics.Config{PrintSelectionIndex: true, Sink: &sink}))
	plain := synthetic(t)
	mi300 := hardware.MustNew("gfx942", 304)
	p := half(3000, 3000, 3000)

	assert.Contains(t, cached.Description(), "Caching")
	assert.Equal(t, plain.FindBestSolution(p, mi300, nil).Name, cached.FindBestSolution(p, mi300, nil).Name)
	assert.Equal(t, plain.FindBestSolution(p, mi300, nil).Name, cached.FindBestSolution(p, mi300, nil).Name)

	top := cached.FindTopSolutions(p, mi300, 3)
	require.NotEmpty(t, top)
	assert.True(t, strings.HasPrefix(sink.String(), "Library logic index of top solutions: "))
}

func TestSyntheticEvaluationHugeProblems(t *testing.T) {
	byDistance := synthetic(t)
	byEvaluation := synthetic(t, WithDiagnostics(diagnostics.Config{EvaluationSelection: true}))
	mi300 := hardware.MustNew("gfx942", 304)

	for _, m := range []int64{1 << 20, 1 << 31, 1 << 32, 1 << 40} {
		p := problem.MustNew(problem.WithSizes(m, m, 64))
		require.NotNil(t, byDistance.FindBestSolution(p, mi300, nil), p.String())
		require.NotZero(t, byEvaluation.FindAllSolutions(p, mi300, library.SearchDefault).Len(), p.String())

		fitness := -1.0
		got := byEvaluation.FindBestSolution(p, mi300, &fitness)
		require.NotNil(t, got, p.String())
		assert.True(t, got.Accepts(p, mi300), p.String())
		assert.Equal(t, -1.0, fitness, p.String())
	}
}

func TestBuilder(t *testing.T) {
	b := NewBuilder(WithVersion("v2"), WithProperties(property.FreeSizeA), WithDistance(matching.Manhattan{}))
	_, err := b.Build()
	assert.Error(t, err, "a catalog without hardware rows is invalid")

	_, err = b.Matching(library.Row{Key: property.Key{1, 2}})
	assert.Error(t, err)

	sol, err := b.AddSolution(solution.Solution{Name: "only", Index: 0})
	require.NoError(t, err)
	grid, err := b.Matching(library.Row{Key: property.Key{128}, Value: library.NewSingle(sol)})
	require.NoError(t, err)
	b.AddHardware(predicate.True[hardware.Hardware](), grid)

	lib, err := b.Build()
	require.NoError(t, err)
	var fitness float64
	got := lib.FindBestSolution(problem.MustNew(problem.WithSizes(100, 1, 1)), hardware.Host(), &fitness)
	assert.Same(t, sol, got)
	assert.Equal(t, 28.0, fitness)
	assert.Equal(t, "v2", lib.Version())
}

func TestTileFor(t *testing.T) {
	assert.Equal(t, 0, tileFor(4096, 4096, 64))
	assert.Equal(t, 1, tileFor(1024, 4096, 64))
	assert.Equal(t, 2, tileFor(256, 256, 8192))
	assert.Equal(t, 4, tileFor(64, 256, 8192))
	assert.Equal(t, 3, tileFor(64, 64, 64))
}

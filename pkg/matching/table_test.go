package matching

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsenwang/hipBLASLt/pkg/predicate"
	"github.com/tsenwang/hipBLASLt/pkg/property"
)

type query struct{ m, n, k float64 }

type prop struct {
	name string
	fn   func(query) float64
}

func (p prop) Name() string          { return p.name }
func (p prop) Value(q query) float64 { return p.fn(q) }

var mnk = []property.Property[query]{
	prop{"M", func(q query) float64 { return q.m }},
	prop{"N", func(q query) float64 { return q.n }},
	prop{"K", func(q query) float64 { return q.k }},
}

type sol struct{ id int }

func (s *sol) Identity() int { return s.id }

// element resolves to its solution, or to nil when empty.
type element struct{ s *sol }

func resolve(e element) *sol { return e.s }

func row(m, n, k float64, s *sol) Entry[element] {
	return Entry[element]{Key: property.Key{m, n, k}, Value: element{s}}
}

func newTable(t *testing.T, d Distance, rows ...Entry[element]) *Table[query, element, *sol] {
	t.Helper()
	tbl, err := NewTable[query, element, *sol](mnk, d, rows...)
	require.NoError(t, err)
	return tbl
}

func TestNewTableValidation(t *testing.T) {
	_, err := NewTable[query, element, *sol](nil, Euclidean{})
	assert.Error(t, err)
	_, err = NewTable[query, element, *sol](mnk, nil)
	assert.Error(t, err)
	_, err = NewTable[query, element, *sol](mnk, Euclidean{}, Entry[element]{Key: property.Key{1, 2}})
	assert.Error(t, err)
}

func TestFindBestMatchNearestNeighbour(t *testing.T) {
	s32, s64, s128 := &sol{1}, &sol{2}, &sol{3}
	tbl := newTable(t, Manhattan{},
		row(32, 128, 128, s32),
		row(64, 128, 128, s64),
		row(128, 128, 128, s128),
	)

	got, fitness := tbl.FindBestMatch(query{100, 128, 128}, resolve)
	assert.Same(t, s128, got)
	assert.Equal(t, 28.0, fitness)

	got, fitness = tbl.FindBestMatch(query{64, 128, 128}, resolve)
	assert.Same(t, s64, got)
	assert.Zero(t, fitness)
}

func TestFindBestMatchEmpty(t *testing.T) {
	tbl := newTable(t, Euclidean{})
	got, fitness := tbl.FindBestMatch(query{1, 1, 1}, resolve)
	assert.Nil(t, got)
	assert.Equal(t, NoMatch, fitness)
}

func TestFindBestMatchTieGoesToFirstRow(t *testing.T) {
	first, second := &sol{1}, &sol{2}
	tbl := newTable(t, Manhattan{},
		row(90, 0, 0, first),
		row(110, 0, 0, second),
	)
	got, _ := tbl.FindBestMatch(query{100, 0, 0}, resolve)
	assert.Same(t, first, got)
}

func TestFindBestMatchSkipsNullResolution(t *testing.T) {
	far := &sol{2}
	tbl := newTable(t, Manhattan{},
		row(100, 0, 0, nil),
		row(200, 0, 0, far),
	)
	got, fitness := tbl.FindBestMatch(query{100, 0, 0}, resolve)
	assert.Same(t, far, got)
	assert.Equal(t, 100.0, fitness)
}

func TestRegionFiltering(t *testing.T) {
	small, large := &sol{1}, &sol{2}
	smallOnly := predicate.Func("M<=256", func(k property.Key) bool { return k[0] <= 256 })
	tbl := newTable(t, Manhattan{},
		Entry[element]{Key: property.Key{256, 0, 0}, Region: smallOnly, Value: element{small}},
		row(4096, 0, 0, large),
	)

	got, _ := tbl.FindBestMatch(query{300, 0, 0}, resolve)
	assert.Same(t, large, got, "row outside its region must not match")

	var inOrder []*sol
	for e := range tbl.MatchesInOrder(query{300, 0, 0}) {
		inOrder = append(inOrder, e.s)
	}
	assert.Equal(t, []*sol{large}, inOrder)

	var all []*sol
	for e := range tbl.GetAll() {
		all = append(all, e.s)
	}
	assert.Equal(t, []*sol{small, large}, all)
}

func TestMatchesInOrderIsRestartable(t *testing.T) {
	a, b := &sol{1}, &sol{2}
	tbl := newTable(t, Euclidean{}, row(1, 0, 0, a), row(2, 0, 0, b))
	seq := tbl.MatchesInOrder(query{})

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestFindTopMatch(t *testing.T) {
	a, b, c := &sol{1}, &sol{2}, &sol{3}
	tbl := newTable(t, Manhattan{},
		row(10, 0, 0, a),
		row(12, 0, 0, a), // duplicate identity, skipped
		row(8, 0, 0, nil),
		row(20, 0, 0, b),
		row(40, 0, 0, c),
	)

	top := tbl.FindTopMatch(query{11, 0, 0}, resolve, 3)
	require.Len(t, top, 3)
	assert.Same(t, a, top[0].Solution)
	assert.Same(t, b, top[1].Solution)
	assert.Same(t, c, top[2].Solution)
	assert.True(t, slices.IsSortedFunc(top, func(x, y Ranked[*sol]) int {
		switch {
		case x.Fitness < y.Fitness:
			return -1
		case x.Fitness > y.Fitness:
			return 1
		}
		return 0
	}))

	best, _ := tbl.FindBestMatch(query{11, 0, 0}, resolve)
	assert.Same(t, best, top[0].Solution)

	assert.Empty(t, tbl.FindTopMatch(query{11, 0, 0}, resolve, 0))
	assert.Len(t, tbl.FindTopMatch(query{11, 0, 0}, resolve, 10), 3)
}

func TestFindTopMatchFiveWayTie(t *testing.T) {
	sols := []*sol{{1}, {2}, {3}, {4}, {5}}
	var rows []Entry[element]
	for _, s := range sols {
		rows = append(rows, row(64, 64, 64, s))
	}
	tbl := newTable(t, Euclidean{}, rows...)

	top := tbl.FindTopMatch(query{64, 64, 64}, resolve, 2)
	require.Len(t, top, 2)
	assert.Same(t, sols[0], top[0].Solution)
	assert.Same(t, sols[1], top[1].Solution)
}

func TestFindBestEvaluationSolution(t *testing.T) {
	a, b, c := &sol{1}, &sol{2}, &sol{3}
	tbl := newTable(t, Euclidean{},
		row(1, 0, 0, a),
		row(2, 0, 0, b),
		row(3, 0, 0, nil),
		row(4, 0, 0, c),
	)
	scores := map[int]float64{1: 5, 2: 1, 3: 1}

	got, score := tbl.FindBestEvaluationSolution(query{1, 0, 0}, resolve, func(s *sol) float64 { return scores[s.id] })
	assert.Same(t, b, got, "lowest score wins, tie keeps the earlier row")
	assert.Equal(t, 1.0, score)

	empty := newTable(t, Euclidean{})
	got, score = empty.FindBestEvaluationSolution(query{}, resolve, func(*sol) float64 { return 0 })
	assert.Nil(t, got)
	assert.Equal(t, NoMatch, score)

	unbounded := func(*sol) float64 { return math.Inf(1) }
	got, score = tbl.FindBestEvaluationSolution(query{1, 0, 0}, resolve, unbounded)
	assert.Same(t, a, got, "unbounded scores keep the first resolved row")
	assert.True(t, math.IsInf(score, 1))

	saturated := func(*sol) float64 { return NoMatch }
	got, _ = tbl.FindBestEvaluationSolution(query{1, 0, 0}, resolve, saturated)
	assert.Same(t, a, got)
}

func TestDistances(t *testing.T) {
	q := property.Key{100, 64}
	r := property.Key{128, 64}

	tests := []struct {
		d    Distance
		want float64
	}{
		{Euclidean{}, 28},
		{Manhattan{}, 28},
		{Ratio{}, 0.28},
		{Equality{}, math.Inf(1)},
		{GridBased{}, math.Abs(math.Log2(101) - math.Log2(129))},
	}
	for _, tt := range tests {
		t.Run(tt.d.Name(), func(t *testing.T) {
			if math.IsInf(tt.want, 1) {
				assert.True(t, math.IsInf(tt.d.Distance(q, r), 1))
			} else {
				assert.InDelta(t, tt.want, tt.d.Distance(q, r), 1e-9)
			}
			assert.Zero(t, tt.d.Distance(q, q))

			byName, ok := DistanceByName(tt.d.Name())
			require.True(t, ok)
			assert.Equal(t, tt.d, byName)
		})
	}

	_, ok := DistanceByName("Cosine")
	assert.False(t, ok)
}

func TestEqualityNeverMatchesDifferentKeys(t *testing.T) {
	exact := &sol{1}
	tbl := newTable(t, Equality{}, row(128, 128, 128, exact))

	got, _ := tbl.FindBestMatch(query{128, 128, 128}, resolve)
	assert.Same(t, exact, got)

	got, fitness := tbl.FindBestMatch(query{127, 128, 128}, resolve)
	assert.Nil(t, got)
	assert.Equal(t, NoMatch, fitness)
	assert.Empty(t, tbl.FindTopMatch(query{127, 128, 128}, resolve, 1))
}

func TestDescription(t *testing.T) {
	tbl := newTable(t, GridBased{}, row(1, 1, 1, &sol{1}))
	assert.Equal(t, "DistanceMatchingTable(GridBased; M,N,K; 1 rows)", tbl.Description())
	assert.Equal(t, 1, tbl.Len())
}

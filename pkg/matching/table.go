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

// Package matching implements the nearest-neighbour table that maps a
// problem's feature vector to the rows of a tuned catalog.
//
// A Table is built once and is read-only afterwards, so every lookup is safe
// for concurrent use without locking.
package matching

import (
	"cmp"
	"fmt"
	"iter"
	"math"
	"slices"
	"strings"

	"github.com/tsenwang/hipBLASLt/pkg/predicate"
	"github.com/tsenwang/hipBLASLt/pkg/property"
)

// NoMatch is the fitness reported when no row resolves.
const NoMatch = math.MaxFloat64

// Identifier is implemented by resolved solutions. The zero value of S is
// the null solution: it is never ranked and never returned as a match.
type Identifier interface {
	comparable
	Identity() int
}

// Entry is one row of a table.
type Entry[E any] struct {
	// Key is the benchmarked feature vector of the row.
	Key property.Key

	// Region restricts which query keys the row is eligible for. Nil accepts all.
	Region predicate.Predicate[property.Key]

	// Value is the nested element, usually a solution library.
	Value E
}

// Ranked is a resolved solution and the distance of the row it came from.
type Ranked[S any] struct {
	Solution S
	Fitness  float64
}

// Table is a read-only distance matching table over problems P, row
// elements E and resolved solutions S.
type Table[P any, E any, S Identifier] struct {
	properties []property.Property[P]
	distance   Distance
	entries    []Entry[E]
}

// NewTable validates and freezes entries. Every key must have one coordinate
// per property.
func NewTable[P any, E any, S Identifier](props []property.Property[P], distance Distance, entries ...Entry[E]) (*Table[P, E, S], error) {
	if len(props) == 0 {
		return nil, fmt.Errorf("matching table requires at least one property")
	}
	if distance == nil {
		return nil, fmt.Errorf("matching table requires a distance")
	}
	for i, e := range entries {
		if len(e.Key) != len(props) {
			return nil, fmt.Errorf("row %d: key %s has %d coordinates, want %d", i, e.Key, len(e.Key), len(props))
		}
	}
	return &Table[P, E, S]{
		properties: slices.Clone(props),
		distance:   distance,
		entries:    slices.Clone(entries),
	}, nil
}

// Len returns the number of rows.
func (t *Table[P, E, S]) Len() int {
	return len(t.entries)
}

// Key extracts the query key for p.
func (t *Table[P, E, S]) Key(p P) property.Key {
	return property.Extract(t.properties, p)
}

func eligible[E any](e Entry[E], key property.Key) bool {
	return predicate.Eval(e.Region, key)
}

// FindBestMatch returns the resolved solution of the nearest eligible row.
// Ties go to the row declared first. Rows that resolve to the null solution
// are passed over for the next nearest. With no resolvable row it returns the
// zero S and NoMatch.
func (t *Table[P, E, S]) FindBestMatch(p P, resolve func(E) S) (S, float64) {
	var zero S
	best, bestDistance := zero, NoMatch
	key := t.Key(p)
	for _, e := range t.entries {
		if !eligible(e, key) {
			continue
		}
		d := t.distance.Distance(key, e.Key)
		if d >= bestDistance {
			continue
		}
		if s := resolve(e.Value); s != zero {
			best, bestDistance = s, d
		}
	}
	return best, bestDistance
}

type candidate struct {
	row      int
	distance float64
}

// FindTopMatch returns up to k resolved solutions in ascending distance,
// ties by declaration order. A solution already ranked is skipped and does
// not count toward k, as are null resolutions.
func (t *Table[P, E, S]) FindTopMatch(p P, resolve func(E) S, k int) []Ranked[S] {
	if k <= 0 {
		return nil
	}
	key := t.Key(p)
	candidates := make([]candidate, 0, len(t.entries))
	for i, e := range t.entries {
		if !eligible(e, key) {
			continue
		}
		if d := t.distance.Distance(key, e.Key); d < NoMatch {
			candidates = append(candidates, candidate{row: i, distance: d})
		}
	}
	slices.SortStableFunc(candidates, func(a, b candidate) int {
		return cmp.Compare(a.distance, b.distance)
	})

	var zero S
	out := make([]Ranked[S], 0, min(k, len(candidates)))
	seen := make(map[int]struct{}, k)
	for _, c := range candidates {
		s := resolve(t.entries[c.row].Value)
		if s == zero {
			continue
		}
		if _, dup := seen[s.Identity()]; dup {
			continue
		}
		seen[s.Identity()] = struct{}{}
		out = append(out, Ranked[S]{Solution: s, Fitness: c.distance})
		if len(out) == k {
			break
		}
	}
	return out
}

// FindBestEvaluationSolution resolves every eligible row and returns the
// solution with the lowest evaluate score. Ties go to the row declared first.
// The first resolved row is kept whatever its score, so a solution is
// returned whenever any eligible row resolves.
func (t *Table[P, E, S]) FindBestEvaluationSolution(p P, resolve func(E) S, evaluate func(S) float64) (S, float64) {
	var zero S
	best, bestScore := zero, NoMatch
	found := false
	key := t.Key(p)
	for _, e := range t.entries {
		if !eligible(e, key) {
			continue
		}
		s := resolve(e.Value)
		if s == zero {
			continue
		}
		if score := evaluate(s); !found || score < bestScore {
			best, bestScore, found = s, score, true
		}
	}
	return best, bestScore
}

// MatchesInOrder returns the rows eligible for p in declaration order. The
// filter runs once; the returned sequence can be ranged any number of times.
func (t *Table[P, E, S]) MatchesInOrder(p P) iter.Seq[E] {
	key := t.Key(p)
	matches := make([]E, 0, len(t.entries))
	for _, e := range t.entries {
		if eligible(e, key) {
			matches = append(matches, e.Value)
		}
	}
	return slices.Values(matches)
}

// GetAll returns every row regardless of eligibility.
func (t *Table[P, E, S]) GetAll() iter.Seq[E] {
	return func(yield func(E) bool) {
		for _, e := range t.entries {
			if !yield(e.Value) {
				return
			}
		}
	}
}

// Description names the distance, properties and row count.
func (t *Table[P, E, S]) Description() string {
	return fmt.Sprintf("DistanceMatchingTable(%s; %s; %d rows)",
		t.distance.Name(), strings.Join(property.Names(t.properties), ","), len(t.entries))
}

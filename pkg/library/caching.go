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

package library

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/tsenwang/hipBLASLt/pkg/defaults"
	"github.com/tsenwang/hipBLASLt/pkg/hardware"
	"github.com/tsenwang/hipBLASLt/pkg/problem"
	"github.com/tsenwang/hipBLASLt/pkg/solution"
)

type cacheKey struct {
	problem  problem.Problem
	hardware hardware.Hardware
}

type cacheEntry struct {
	solution   *solution.Solution
	fitness    float64
	hasFitness bool
}

// CachingLibrary memoizes FindBestSolution per (problem, hardware). Every
// other lookup is passed through. A cached answer is always the one the
// wrapped library returned for the same key.
type CachingLibrary struct {
	inner    SolutionLibrary
	capacity int

	mu    sync.RWMutex
	cache map[cacheKey]cacheEntry
	group singleflight.Group
}

// NewCaching wraps inner. When the cache reaches capacity it is cleared;
// capacity <= 0 uses defaults.SolutionCacheEntries.
func NewCaching(inner SolutionLibrary, capacity int) *CachingLibrary {
	if capacity <= 0 {
		capacity = defaults.SolutionCacheEntries
	}
	return &CachingLibrary{
		inner:    inner,
		capacity: capacity,
		cache:    make(map[cacheKey]cacheEntry),
	}
}

func (*CachingLibrary) sealed() {}

func (*CachingLibrary) Type() string { return "Caching" }

func (l *CachingLibrary) Description() string {
	return "Caching: " + l.inner.Description()
}

// Len returns the number of cached entries.
func (l *CachingLibrary) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.cache)
}

func (l *CachingLibrary) FindBestSolution(p problem.Problem, hw hardware.Hardware, fitness *float64) *solution.Solution {
	key := cacheKey{problem: p, hardware: hw}

	l.mu.RLock()
	entry, ok := l.cache[key]
	l.mu.RUnlock()

	if ok {
		cacheLookups.WithLabelValues("hit").Inc()
	} else {
		cacheLookups.WithLabelValues("miss").Inc()
		v, _, _ := l.group.Do(fmt.Sprintf("%#v|%#v", p, hw), func() (any, error) {
			// NaN marks "not written" so the caller's default survives.
			local := math.NaN()
			sol := l.inner.FindBestSolution(p, hw, &local)
			e := cacheEntry{solution: sol, fitness: local, hasFitness: !math.IsNaN(local)}
			l.store(key, e)
			return e, nil
		})
		entry = v.(cacheEntry)
	}

	if entry.hasFitness && fitness != nil {
		*fitness = entry.fitness
	}
	return entry.solution
}

func (l *CachingLibrary) store(key cacheKey, e cacheEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.cache) >= l.capacity {
		clear(l.cache)
	}
	l.cache[key] = e
	cacheEntries.Set(float64(len(l.cache)))
}

func (l *CachingLibrary) GetSolutionByIndex(p problem.Problem, hw hardware.Hardware, index int) *solution.Solution {
	return l.inner.GetSolutionByIndex(p, hw, index)
}

func (l *CachingLibrary) FindBestSolutionGroupedGemm(problems []problem.Problem, hw hardware.Hardware, fitness *float64) *solution.Solution {
	return l.inner.FindBestSolutionGroupedGemm(problems, hw, fitness)
}

func (l *CachingLibrary) FindAllSolutions(p problem.Problem, hw hardware.Hardware, search SearchType) *solution.Set {
	return l.inner.FindAllSolutions(p, hw, search)
}

func (l *CachingLibrary) FindAllSolutionsGroupedGemm(problems []problem.Problem, hw hardware.Hardware, search SearchType) *solution.Set {
	return l.inner.FindAllSolutionsGroupedGemm(problems, hw, search)
}

func (l *CachingLibrary) FindTopSolutions(p problem.Problem, hw hardware.Hardware, n int) solution.Vector {
	return l.inner.FindTopSolutions(p, hw, n)
}

func (l *CachingLibrary) FindTopSolutionsGroupedGemm(problems []problem.Problem, hw hardware.Hardware, n int) solution.Vector {
	return l.inner.FindTopSolutionsGroupedGemm(problems, hw, n)
}

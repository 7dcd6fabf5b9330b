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

// Package predicate provides composable boolean tests used to gate catalog
// entries on problem and hardware properties.
package predicate

import (
	"fmt"
	"strings"
)

// Predicate tests a value of type T.
type Predicate[T any] interface {
	Test(v T) bool
	String() string
}

type truePred[T any] struct{}

// True returns a predicate that accepts every value.
func True[T any]() Predicate[T] { return truePred[T]{} }

func (truePred[T]) Test(T) bool    { return true }
func (truePred[T]) String() string { return "True" }

type falsePred[T any] struct{}

// False returns a predicate that rejects every value.
func False[T any]() Predicate[T] { return falsePred[T]{} }

func (falsePred[T]) Test(T) bool    { return false }
func (falsePred[T]) String() string { return "False" }

type funcPred[T any] struct {
	name string
	fn   func(T) bool
}

// Func wraps fn as a named predicate.
func Func[T any](name string, fn func(T) bool) Predicate[T] {
	return funcPred[T]{name: name, fn: fn}
}

func (p funcPred[T]) Test(v T) bool    { return p.fn(v) }
func (p funcPred[T]) String() string { return p.name }

type andPred[T any] struct{ preds []Predicate[T] }

// And accepts when every predicate accepts. An empty And accepts everything.
func And[T any](preds ...Predicate[T]) Predicate[T] {
	return andPred[T]{preds: compact(preds)}
}

func (p andPred[T]) Test(v T) bool {
	for _, q := range p.preds {
		if !q.Test(v) {
			return false
		}
	}
	return true
}

func (p andPred[T]) String() string { return join("And", p.preds) }

type orPred[T any] struct{ preds []Predicate[T] }

// Or accepts when any predicate accepts. An empty Or rejects everything.
func Or[T any](preds ...Predicate[T]) Predicate[T] {
	return orPred[T]{preds: compact(preds)}
}

func (p orPred[T]) Test(v T) bool {
	for _, q := range p.preds {
		if q.Test(v) {
			return true
		}
	}
	return false
}

func (p orPred[T]) String() string { return join("Or", p.preds) }

type notPred[T any] struct{ pred Predicate[T] }

// Not inverts pred.
func Not[T any](pred Predicate[T]) Predicate[T] { return notPred[T]{pred: pred} }

func (p notPred[T]) Test(v T) bool    { return !p.pred.Test(v) }
func (p notPred[T]) String() string { return fmt.Sprintf("Not(%s)", p.pred) }

// Eval tests v against p treating a nil predicate as True.
func Eval[T any](p Predicate[T], v T) bool {
	if p == nil {
		return true
	}
	return p.Test(v)
}

// Describe returns p.String(), or "True" for a nil predicate.
func Describe[T any](p Predicate[T]) string {
	if p == nil {
		return "True"
	}
	return p.String()
}

func compact[T any](preds []Predicate[T]) []Predicate[T] {
	out := make([]Predicate[T], 0, len(preds))
	for _, p := range preds {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func join[T any](op string, preds []Predicate[T]) string {
	parts := make([]string, len(preds))
	for i, p := range preds {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s(%s)", op, strings.Join(parts, ", "))
}

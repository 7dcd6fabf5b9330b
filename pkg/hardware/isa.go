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

package hardware

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error types for ISA parsing failures
var (
	ErrEmptyISA      = errors.New("isa string is empty")
	ErrMalformedISA  = errors.New("isa is not a gfx target or dotted version")
	ErrISANonNumeric = errors.New("isa component is not numeric")
)

// ISA is an AMDGPU instruction-set version: gfx942 is 9.4.2 and gfx90a is
// 9.0.10 (the last two target digits are hexadecimal).
type ISA struct {
	Major    int `json:"major" yaml:"major"`
	Minor    int `json:"minor" yaml:"minor"`
	Stepping int `json:"stepping" yaml:"stepping"`
}

// NewISA creates an ISA from its components.
func NewISA(major, minor, stepping int) ISA {
	return ISA{Major: major, Minor: minor, Stepping: stepping}
}

// String returns the dotted representation, e.g. "9.0.10".
func (v ISA) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Stepping)
}

// Target returns the gfx target name, e.g. "gfx90a".
func (v ISA) Target() string {
	if v.IsZero() {
		return ""
	}
	return fmt.Sprintf("gfx%d%x%x", v.Major, v.Minor, v.Stepping)
}

// IsZero reports whether v is the zero ISA (host or unknown targets).
func (v ISA) IsZero() bool {
	return v == ISA{}
}

// ParseISA parses a gfx target ("gfx942", "gfx90a:sramecc+:xnack-") or a
// dotted version ("9.4.2").
func ParseISA(s string) (ISA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return ISA{}, ErrEmptyISA
	}

	// Strip target features such as ":sramecc+:xnack-".
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}

	if rest, ok := strings.CutPrefix(s, "gfx"); ok {
		if len(rest) < 3 {
			return ISA{}, fmt.Errorf("%w: %q", ErrMalformedISA, s)
		}
		major, err := strconv.Atoi(rest[:len(rest)-2])
		if err != nil {
			return ISA{}, fmt.Errorf("%w: %q", ErrISANonNumeric, rest)
		}
		minor, err := strconv.ParseInt(rest[len(rest)-2:len(rest)-1], 16, 32)
		if err != nil {
			return ISA{}, fmt.Errorf("%w: %q", ErrISANonNumeric, rest)
		}
		stepping, err := strconv.ParseInt(rest[len(rest)-1:], 16, 32)
		if err != nil {
			return ISA{}, fmt.Errorf("%w: %q", ErrISANonNumeric, rest)
		}
		return NewISA(major, int(minor), int(stepping)), nil
	}

	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return ISA{}, fmt.Errorf("%w: %q", ErrMalformedISA, s)
	}
	var comps [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return ISA{}, fmt.Errorf("%w: %q", ErrISANonNumeric, part)
		}
		comps[i] = n
	}
	return NewISA(comps[0], comps[1], comps[2]), nil
}

// MustParseISA parses s and panics on failure. Only use with hard-coded targets.
func MustParseISA(s string) ISA {
	v, err := ParseISA(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseISA: %v", err))
	}
	return v
}

// Compare returns -1, 0 or 1 when v is older than, equal to or newer than other.
func (v ISA) Compare(other ISA) int {
	switch {
	case v.Major != other.Major:
		return cmpInt(v.Major, other.Major)
	case v.Minor != other.Minor:
		return cmpInt(v.Minor, other.Minor)
	default:
		return cmpInt(v.Stepping, other.Stepping)
	}
}

// EqualsOrNewer returns true if v is equal to or newer than other.
func (v ISA) EqualsOrNewer(other ISA) bool {
	return v.Compare(other) >= 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

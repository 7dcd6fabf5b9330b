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

// Package hardware describes the device a problem will execute on. The
// descriptor gates which catalog entries are eligible; how it is obtained
// from a live device is the caller's concern.
package hardware

import (
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
	"golang.org/x/text/cases"

	"github.com/tsenwang/hipBLASLt/pkg/predicate"
)

// Host architectures used for CPU fallback catalogs. ArchHost is the
// user-facing alias that resolves to the detected Host target.
const (
	ArchHost        = "host"
	ArchHostAVX512  = "host-avx512"
	ArchHostAVX2    = "host-avx2"
	ArchHostNEON    = "host-neon"
	ArchHostSVE     = "host-sve"
	ArchHostGeneric = "host-generic"
)

// Hardware is an immutable, comparable device descriptor.
type Hardware struct {
	// Arch is the target name without features, e.g. "gfx942" or "host-avx2".
	Arch string `json:"arch" yaml:"arch"`

	// ISA is the parsed instruction set version; zero for host targets.
	ISA ISA `json:"isa" yaml:"isa"`

	// ComputeUnits is the number of CUs (or CPU threads for host targets).
	ComputeUnits int `json:"computeUnits" yaml:"computeUnits"`

	// DeviceName is informational only.
	DeviceName string `json:"deviceName,omitempty" yaml:"deviceName,omitempty"`
}

// New returns a descriptor for a GPU target such as "gfx942".
func New(arch string, computeUnits int) (Hardware, error) {
	arch = cases.Fold().String(strings.TrimSpace(arch))
	if i := strings.IndexByte(arch, ':'); i >= 0 {
		arch = arch[:i]
	}
	if computeUnits < 0 {
		return Hardware{}, fmt.Errorf("invalid compute unit count: %d (must be >= 0)", computeUnits)
	}
	if strings.HasPrefix(arch, "host-") {
		return Hardware{Arch: arch, ComputeUnits: computeUnits}, nil
	}
	isa, err := ParseISA(arch)
	if err != nil {
		return Hardware{}, fmt.Errorf("invalid architecture %q: %w", arch, err)
	}
	return Hardware{Arch: isa.Target(), ISA: isa, ComputeUnits: computeUnits}, nil
}

// MustNew is New for hard-coded descriptors; it panics on error.
func MustNew(arch string, computeUnits int) Hardware {
	hw, err := New(arch, computeUnits)
	if err != nil {
		panic(fmt.Sprintf("MustNew: %v", err))
	}
	return hw
}

// Host describes the executing CPU using runtime feature detection.
func Host() Hardware {
	return Hardware{
		Arch:         hostArch(),
		ComputeUnits: runtime.NumCPU(),
		DeviceName:   runtime.GOARCH,
	}
}

func hostArch() string {
	switch runtime.GOARCH {
	case "amd64":
		if cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW {
			return ArchHostAVX512
		}
		if cpu.X86.HasAVX2 && cpu.X86.HasFMA {
			return ArchHostAVX2
		}
	case "arm64":
		if cpu.ARM64.HasSVE {
			return ArchHostSVE
		}
		if cpu.ARM64.HasASIMD {
			return ArchHostNEON
		}
	}
	return ArchHostGeneric
}

// IsHost reports whether h describes a CPU target.
func (h Hardware) IsHost() bool {
	return strings.HasPrefix(h.Arch, "host-")
}

// String returns a description used in traces.
func (h Hardware) String() string {
	return fmt.Sprintf("%s(cu=%d)", h.Arch, h.ComputeUnits)
}

// ArchEqual accepts hardware with the given target name.
func ArchEqual(arch string) predicate.Predicate[Hardware] {
	return predicate.Func(fmt.Sprintf("ArchEqual(%s)", arch), func(h Hardware) bool {
		return h.Arch == arch
	})
}

// ISAAtLeast accepts GPU hardware whose ISA is equal to or newer than isa.
func ISAAtLeast(isa ISA) predicate.Predicate[Hardware] {
	return predicate.Func(fmt.Sprintf("ISAAtLeast(%s)", isa), func(h Hardware) bool {
		return !h.IsHost() && h.ISA.EqualsOrNewer(isa)
	})
}

// MinComputeUnits accepts hardware with at least n compute units.
func MinComputeUnits(n int) predicate.Predicate[Hardware] {
	return predicate.Func(fmt.Sprintf("MinComputeUnits(%d)", n), func(h Hardware) bool {
		return h.ComputeUnits >= n
	})
}

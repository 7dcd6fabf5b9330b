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

package defaults

// Selection defaults shared by the heuristic API, the CLI and the server.
const (
	// RequestedSolutions is the number of ranked candidates returned when the
	// caller does not ask for a specific count.
	RequestedSolutions = 5

	// MaxRequestedSolutions caps the count accepted from external callers.
	MaxRequestedSolutions = 256

	// MaxWorkspaceBytes is the default workspace budget (32 MiB).
	MaxWorkspaceBytes uint64 = 32 * 1024 * 1024

	// BatchConcurrency limits concurrent selections in a batch resolve.
	BatchConcurrency = 8

	// MaxGroupedProblems caps the problem list of a grouped request.
	MaxGroupedProblems = 1024

	// Arch is the device architecture assumed when none is given.
	Arch = "gfx942"

	// MaxRequestBodyBytes caps the body of a batch selection request.
	MaxRequestBodyBytes = 1 << 20

	// SolutionCacheEntries bounds the best-solution cache of a catalog.
	SolutionCacheEntries = 4096
)

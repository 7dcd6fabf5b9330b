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

// Package cli implements the hipblaslt-select command line.
//
// # Commands
//
// select - ranked top candidates for one problem:
//
//	hipblaslt-select select --m 4096 --n 4096 --k 1024 --type f16 --arch gfx942
//
// all - every candidate for one problem, optionally ignoring eligibility:
//
//	hipblaslt-select all --m 128 --n 128 --k 128 --search all
//
// batch - a list of problems from a JSON or YAML file, resolved
// independently or as one grouped GEMM:
//
//	hipblaslt-select batch --problems problems.yaml --grouped
//
// serve - the selection HTTP service (see package api).
//
// # Common Flags
//
//	--arch           Device architecture, or "host" for the CPU fallback
//	--cus            Compute unit count
//	--max-workspace  Workspace budget in bytes (default 32 MiB)
//	--trace          Print the selection trace
//	--output, -o     Output file path (default: stdout)
//	--format, -t     Output format: table, json, yaml (default: table)
//
// # Environment
//
//	LOG_LEVEL            debug, info, warn or error
//	HIPBLASLT_ARCH       default for --arch
//	HIPBLASLT_SELECT_DB  selection diagnostics bit mask
package cli

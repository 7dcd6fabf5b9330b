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

// Package api wires the kernel selection service together.
//
// Serve loads the catalog, registers the selection handlers and runs the
// HTTP server until SIGINT or SIGTERM:
//
//	func main() {
//	    if err := api.Serve(); err != nil {
//	        log.Fatalf("server error: %v", err)
//	    }
//	}
//
// # Endpoints
//
// Application endpoints (with rate limiting):
//   - GET /v1/solutions        ranked candidates for one problem
//   - GET /v1/solutions/all    every candidate, search=default|all
//   - POST /v1/solutions/batch independent or grouped problems in one call
//
// System endpoints (no rate limiting):
//   - GET /health  - Health check (liveness probe)
//   - GET /ready   - Readiness check
//   - GET /metrics - Prometheus metrics
//
// # Query Parameters
//
//   - m, n, k, batch: problem sizes
//   - transA, transB: N, T or C
//   - typeA, typeB, typeC, typeD: operand types (f32, f16, bf16, f8, ...)
//   - compute: accumulation type
//   - arch, cus: device architecture (e.g. gfx942) and compute units
//   - count: number of candidates (default 5)
//   - maxWorkspace: workspace budget in bytes (default 32 MiB)
//
// Example:
//
//	curl "http://localhost:8080/v1/solutions?m=4096&n=4096&k=1024&typeA=f16&arch=gfx942"
//
// # Diagnostics
//
// HIPBLASLT_SELECT_DB enables selection tracing on stdout; see package
// diagnostics for the bit layout.
package api

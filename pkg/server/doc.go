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

// Package server provides the HTTP server that exposes kernel selection.
//
// # Architecture
//
// The server is stateless apart from its readiness flag. API handlers are
// registered by path and served behind a middleware chain:
//
//   - Prometheus request metrics
//   - API version negotiation via the Accept header
//   - Request ID tracking (X-Request-Id, UUID)
//   - Panic recovery
//   - Token bucket rate limiting (golang.org/x/time/rate)
//   - Debug request logging
//
// System endpoints bypass the chain:
//
//	GET /health   liveness probe
//	GET /ready    readiness probe, 503 until the server is started
//	GET /metrics  Prometheus metrics
//
// # Usage
//
//	s := server.New(
//	    server.WithName("hipblaslt-selectd"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/solutions": selector.HandleSolutions,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// # Configuration
//
// Defaults come from NewConfig and may be overridden with the PORT,
// SHUTDOWN_TIMEOUT_SECONDS and RATE_LIMIT environment variables.
//
// # Errors
//
// Every failed API request is answered with an ErrorResponse carrying a
// stable code, the request ID and whether the client may retry. Handlers
// report structured errors with WriteErrorFromErr, which maps error codes
// to HTTP status codes.
package server

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

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tsenwang/hipBLASLt/pkg/catalog"
	"github.com/tsenwang/hipBLASLt/pkg/defaults"
	"github.com/tsenwang/hipBLASLt/pkg/diagnostics"
	"github.com/tsenwang/hipBLASLt/pkg/heuristic"
	"github.com/tsenwang/hipBLASLt/pkg/logging"
	"github.com/tsenwang/hipBLASLt/pkg/server"
)

const (
	name           = "hipblaslt-selectd"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/tsenwang/hipBLASLt/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve starts the API server and blocks until shutdown.
// It configures logging, loads the catalog, sets up routes, and handles
// graceful shutdown.
func Serve() error {
	ctx := context.Background()

	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	sel, err := newSelector(diagnostics.FromEnv())
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		return err
	}

	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(routes(sel)),
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}

// newSelector builds the served catalog with a best-solution cache.
func newSelector(diag diagnostics.Config) (*heuristic.Selector, error) {
	lib, err := catalog.Synthetic(catalog.DefaultTargets(),
		catalog.WithVersion(version),
		catalog.WithDiagnostics(diag),
		catalog.WithCaching(defaults.SolutionCacheEntries),
	)
	if err != nil {
		return nil, err
	}
	slog.Info("catalog loaded",
		"version", lib.Version(),
		"solutions", lib.Len(),
		"diagnostics", diag,
	)
	return heuristic.NewSelector(lib), nil
}

func routes(sel *heuristic.Selector) map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/solutions":       sel.HandleSolutions,
		"/v1/solutions/all":   sel.HandleAllSolutions,
		"/v1/solutions/batch": sel.HandleBatch,
	}
}

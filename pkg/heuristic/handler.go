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

package heuristic

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tsenwang/hipBLASLt/pkg/defaults"
	hblerrors "github.com/tsenwang/hipBLASLt/pkg/errors"
	"github.com/tsenwang/hipBLASLt/pkg/hardware"
	"github.com/tsenwang/hipBLASLt/pkg/library"
	"github.com/tsenwang/hipBLASLt/pkg/problem"
	"github.com/tsenwang/hipBLASLt/pkg/serializer"
	"github.com/tsenwang/hipBLASLt/pkg/server"
)

// Request is a selection query as received over HTTP.
type Request struct {
	Problem   problem.Descriptor `json:"problem" yaml:"problem"`
	Arch      string             `json:"arch,omitempty" yaml:"arch,omitempty"`
	CUs       int                `json:"cus,omitempty" yaml:"cus,omitempty"`
	Requested int                `json:"count,omitempty" yaml:"count,omitempty"`
	Workspace *uint64            `json:"maxWorkspace,omitempty" yaml:"maxWorkspace,omitempty"`
}

// BatchRequest selects for several problems on one device. Grouped requests
// pick candidates that serve every problem at once.
type BatchRequest struct {
	Problems  []problem.Descriptor `json:"problems" yaml:"problems"`
	Grouped   bool                 `json:"grouped,omitempty" yaml:"grouped,omitempty"`
	Arch      string               `json:"arch,omitempty" yaml:"arch,omitempty"`
	CUs       int                  `json:"cus,omitempty" yaml:"cus,omitempty"`
	Requested int                  `json:"count,omitempty" yaml:"count,omitempty"`
	Workspace *uint64              `json:"maxWorkspace,omitempty" yaml:"maxWorkspace,omitempty"`
}

// Response is the body of a successful selection.
type Response struct {
	Problem   *problem.Problem  `json:"problem,omitempty" yaml:"problem,omitempty"`
	Hardware  hardware.Hardware `json:"hardware" yaml:"hardware"`
	Results   []Result          `json:"results" yaml:"results"`
	Workspace uint64            `json:"workspace" yaml:"workspace"`
}

// BatchResponse is the body of a successful batch selection.
type BatchResponse struct {
	Hardware hardware.Hardware `json:"hardware" yaml:"hardware"`
	Results  []BatchResult     `json:"results" yaml:"results"`
}

// ResolveDevice builds the hardware descriptor, defaulting to defaults.Arch.
// The "host" alias selects the detected CPU fallback target.
func ResolveDevice(arch string, cus int) (hardware.Hardware, error) {
	if arch == "" {
		arch = defaults.Arch
	}
	if cus < 0 {
		return hardware.Hardware{}, hblerrors.NewWithContext(hblerrors.ErrCodeInvalidRequest, "invalid device", map[string]any{
			"cus": cus,
		})
	}
	if strings.EqualFold(strings.TrimSpace(arch), hardware.ArchHost) {
		return hardware.Host(), nil
	}
	hw, err := hardware.New(arch, cus)
	if err != nil {
		return hardware.Hardware{}, hblerrors.Wrap(hblerrors.ErrCodeInvalidRequest, "invalid device", err)
	}
	return hw, nil
}

// PreferenceOf returns the default preference unless ws overrides the budget.
func PreferenceOf(ws *uint64) Preference {
	pref := DefaultPreference()
	if ws != nil {
		pref.MaxWorkspaceBytes = *ws
	}
	return pref
}

func requestedOrDefault(n int) int {
	if n == 0 {
		return defaults.RequestedSolutions
	}
	return n
}

// ParseRequest reads a selection query from URL parameters:
// m, n, k, batch, transA, transB, typeA..typeD, compute, arch, cus, count
// and maxWorkspace.
func ParseRequest(q url.Values) (*Request, error) {
	var req Request
	ints := []struct {
		name string
		dst  *int64
	}{
		{"m", &req.Problem.M},
		{"n", &req.Problem.N},
		{"k", &req.Problem.K},
		{"batch", &req.Problem.Batch},
	}
	for _, f := range ints {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, invalidParam(f.name, v, err)
		}
		*f.dst = n
	}

	req.Problem.TransA = q.Get("transA")
	req.Problem.TransB = q.Get("transB")
	req.Problem.TypeA = q.Get("typeA")
	req.Problem.TypeB = q.Get("typeB")
	req.Problem.TypeC = q.Get("typeC")
	req.Problem.TypeD = q.Get("typeD")
	req.Problem.Compute = q.Get("compute")
	req.Arch = q.Get("arch")

	if v := q.Get("cus"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, invalidParam("cus", v, err)
		}
		req.CUs = n
	}
	if v := q.Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, invalidParam("count", v, err)
		}
		req.Requested = n
	}
	if v := q.Get("maxWorkspace"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, invalidParam("maxWorkspace", v, err)
		}
		req.Workspace = &n
	}
	return &req, nil
}

func invalidParam(name, value string, err error) error {
	return hblerrors.WrapWithContext(hblerrors.ErrCodeInvalidRequest,
		fmt.Sprintf("invalid %s parameter", name), err, map[string]any{name: value})
}

func (s *Selector) resolve(ctx context.Context, req *Request, all bool, search library.SearchType) (*Response, error) {
	p, err := req.Problem.Build()
	if err != nil {
		return nil, err
	}
	hw, err := ResolveDevice(req.Arch, req.CUs)
	if err != nil {
		return nil, err
	}

	var results []Result
	if all {
		results, err = s.GetAllAlgos(ctx, p, hw, PreferenceOf(req.Workspace), search)
	} else {
		results, err = s.GetHeuristic(ctx, p, hw, PreferenceOf(req.Workspace), requestedOrDefault(req.Requested))
	}
	if err != nil {
		return nil, err
	}
	return &Response{Problem: &p, Hardware: hw, Results: results, Workspace: MaxWorkspace(results)}, nil
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed string) {
	w.Header().Set("Allow", allowed)
	server.WriteError(w, r, http.StatusMethodNotAllowed, hblerrors.ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{
			"method": r.Method,
		})
}

// HandleSolutions serves GET /v1/solutions: the ranked top candidates for
// one problem.
func (s *Selector) HandleSolutions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.SelectHandlerTimeout)
	defer cancel()

	req, err := ParseRequest(r.URL.Query())
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid selection query", nil)
		return
	}

	resp, err := s.resolve(ctx, req, false, library.SearchDefault)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to select solutions", nil)
		return
	}

	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(defaults.SolutionsCacheTTL.Seconds())))
	serializer.RespondJSON(w, http.StatusOK, resp)
}

// HandleAllSolutions serves GET /v1/solutions/all. The search parameter
// selects "default" (eligible only) or "all".
func (s *Selector) HandleAllSolutions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.SelectHandlerTimeout)
	defer cancel()

	q := r.URL.Query()
	search, err := library.ParseSearchType(q.Get("search"))
	if err != nil {
		server.WriteError(w, r, http.StatusBadRequest, hblerrors.ErrCodeInvalidRequest,
			"Invalid search parameter", false, map[string]any{"error": err.Error()})
		return
	}

	req, err := ParseRequest(q)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid selection query", nil)
		return
	}

	resp, err := s.resolve(ctx, req, true, search)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to list solutions", nil)
		return
	}

	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(defaults.SolutionsCacheTTL.Seconds())))
	serializer.RespondJSON(w, http.StatusOK, resp)
}

// bodyFormat picks the request body decoder from Content-Type. Anything
// other than YAML is decoded as JSON.
func bodyFormat(r *http.Request) serializer.Format {
	if strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "yaml") {
		return serializer.FormatYAML
	}
	return serializer.FormatJSON
}

// HandleBatch serves POST /v1/solutions/batch with a BatchRequest body in
// JSON, or YAML when Content-Type says so.
func (s *Selector) HandleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.BatchResolveTimeout)
	defer cancel()

	var req BatchRequest
	body, err := serializer.NewReader(bodyFormat(r), http.MaxBytesReader(w, r.Body, defaults.MaxRequestBodyBytes))
	if err == nil {
		err = body.Deserialize(&req)
	}
	if err != nil {
		server.WriteError(w, r, http.StatusBadRequest, hblerrors.ErrCodeInvalidRequest,
			"Invalid request body", false, map[string]any{"error": err.Error()})
		return
	}

	problems, err := problem.BuildAll(req.Problems)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid problem", nil)
		return
	}
	hw, err := ResolveDevice(req.Arch, req.CUs)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid device", nil)
		return
	}

	slog.Debug("batch selection request",
		"problems", len(problems),
		"grouped", req.Grouped,
		"hardware", hw.String(),
	)

	pref := PreferenceOf(req.Workspace)
	requested := requestedOrDefault(req.Requested)

	if req.Grouped {
		results, gerr := s.GetGroupedHeuristic(ctx, problems, hw, pref, requested)
		if gerr != nil {
			server.WriteErrorFromErr(w, r, gerr, "Failed to select grouped solutions", nil)
			return
		}
		serializer.RespondJSON(w, http.StatusOK, Response{Hardware: hw, Results: results, Workspace: MaxWorkspace(results)})
		return
	}

	if len(problems) == 0 {
		server.WriteError(w, r, http.StatusBadRequest, hblerrors.ErrCodeInvalidRequest,
			"Batch requires at least one problem", false, nil)
		return
	}
	batch, err := s.ResolveBatch(ctx, problems, hw, pref, requested)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to resolve batch", nil)
		return
	}
	serializer.RespondJSON(w, http.StatusOK, BatchResponse{Hardware: hw, Results: batch})
}

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

// Package diagnostics holds the selection trace toggles. A Config is captured
// by each library at construction; nothing here is process-global, and no
// toggle changes a selection result.
package diagnostics

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Environment variables read by FromEnv.
const (
	EnvTrace          = "HIPBLASLT_SELECT_TRACE"
	EnvEvaluate       = "HIPBLASLT_SELECT_EVALUATE"
	EnvPrintIndex     = "HIPBLASLT_SELECT_PRINT_INDEX"
	EnvDebugMask      = "HIPBLASLT_SELECT_DB"
	debugTrace        = 0x1
	debugPrintIndex   = 0x2
	debugEvaluation   = 0x4
	debugMaskAllKnown = debugTrace | debugPrintIndex | debugEvaluation
)

// Config is an immutable set of diagnostic toggles.
type Config struct {
	// Trace prints every visited row's description.
	Trace bool

	// EvaluationSelection routes best-solution lookups through the
	// evaluator instead of the precomputed distance.
	EvaluationSelection bool

	// PrintSelectionIndex prints the provenance indices of top-N results.
	PrintSelectionIndex bool

	// Sink receives trace output. Nil means stdout.
	Sink io.Writer
}

// FromEnv builds a Config from the environment. HIPBLASLT_SELECT_DB is a
// bitmask (0x1 trace, 0x2 print index, 0x4 evaluation); the individual
// boolean variables override it.
func FromEnv() Config {
	var cfg Config
	if v := os.Getenv(EnvDebugMask); v != "" {
		mask, err := strconv.ParseUint(strings.TrimSpace(v), 0, 32)
		if err != nil {
			slog.Warn("invalid debug mask, ignoring", "env", EnvDebugMask, "value", v, "error", err)
		} else {
			if mask&^debugMaskAllKnown != 0 {
				slog.Debug("unknown debug mask bits ignored", "mask", mask)
			}
			cfg.Trace = mask&debugTrace != 0
			cfg.PrintSelectionIndex = mask&debugPrintIndex != 0
			cfg.EvaluationSelection = mask&debugEvaluation != 0
		}
	}
	envBool(EnvTrace, &cfg.Trace)
	envBool(EnvPrintIndex, &cfg.PrintSelectionIndex)
	envBool(EnvEvaluate, &cfg.EvaluationSelection)
	return cfg
}

func envBool(name string, dst *bool) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		slog.Warn("invalid boolean, ignoring", "env", name, "value", v)
		return
	}
	*dst = b
}

func (c Config) sink() io.Writer {
	if c.Sink != nil {
		return c.Sink
	}
	return os.Stdout
}

// Printf writes to the sink. Write errors are dropped: tracing is best effort.
func (c Config) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.sink(), format, args...)
}

// TraceRow prints a visited row's description followed by a blank line.
func (c Config) TraceRow(description string) {
	if c.Trace {
		c.Printf("%s\n\n", description)
	}
}

// PrintIndices prints the provenance indices of a top-N result, or that
// nothing was found.
func (c Config) PrintIndices(indices []int) {
	if !c.PrintSelectionIndex {
		return
	}
	if len(indices) == 0 {
		c.Printf("No solution found\n")
		return
	}
	var sb strings.Builder
	sb.WriteString("Library logic index of top solutions: ")
	for _, i := range indices {
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString(", ")
	}
	sb.WriteByte('\n')
	c.Printf("%s", sb.String())
}

// Enabled reports whether any toggle is set.
func (c Config) Enabled() bool {
	return c.Trace || c.EvaluationSelection || c.PrintSelectionIndex
}

// LogValue implements slog.LogValuer.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("trace", c.Trace),
		slog.Bool("evaluationSelection", c.EvaluationSelection),
		slog.Bool("printSelectionIndex", c.PrintSelectionIndex),
	)
}

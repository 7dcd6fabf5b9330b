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

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/tsenwang/hipBLASLt/pkg/catalog"
	"github.com/tsenwang/hipBLASLt/pkg/defaults"
	"github.com/tsenwang/hipBLASLt/pkg/diagnostics"
	"github.com/tsenwang/hipBLASLt/pkg/hardware"
	"github.com/tsenwang/hipBLASLt/pkg/heuristic"
	"github.com/tsenwang/hipBLASLt/pkg/library"
	"github.com/tsenwang/hipBLASLt/pkg/problem"
	"github.com/tsenwang/hipBLASLt/pkg/serializer"
)

func problemFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{Name: "m", Usage: "Rows of op(A) and D", Required: true},
		&cli.Int64Flag{Name: "n", Usage: "Columns of op(B) and D", Required: true},
		&cli.Int64Flag{Name: "k", Usage: "Contraction size", Required: true},
		&cli.Int64Flag{Name: "batch", Value: 1, Usage: "Batch count"},
		&cli.StringFlag{Name: "trans-a", Value: "N", Usage: "Transpose of A (N, T, C)"},
		&cli.StringFlag{Name: "trans-b", Value: "N", Usage: "Transpose of B (N, T, C)"},
		&cli.StringFlag{
			Name:  "type",
			Value: "f32",
			Usage: fmt.Sprintf("Input type of A and B (supported values: %s)", problem.SupportedDataTypes()),
		},
		&cli.StringFlag{Name: "type-c", Usage: "Type of C and D (default: same as --type)"},
		&cli.StringFlag{Name: "compute", Value: "f32", Usage: "Accumulation type"},
		&cli.BoolFlag{Name: "scale", Usage: "Request input scale factors for A and B"},
	}
}

func deviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "arch",
			Value:   defaults.Arch,
			Usage:   fmt.Sprintf("Device architecture (e.g. gfx90a, gfx942) or %q for the CPU fallback", hardware.ArchHost),
			Sources: cli.EnvVars("HIPBLASLT_ARCH"),
		},
		&cli.IntFlag{Name: "cus", Usage: "Compute unit count of the device"},
		&cli.Uint64Flag{
			Name:  "max-workspace",
			Value: defaults.MaxWorkspaceBytes,
			Usage: "Largest workspace in bytes a candidate may need",
		},
		&cli.BoolFlag{Name: "trace", Usage: "Print the selection trace (same as HIPBLASLT_SELECT_DB=1)"},
		&cli.BoolFlag{Name: "evaluate", Usage: "Rank candidates by predicted performance among equally distant rows"},
	}
}

// descriptorFromCmd reads the problem flags.
func descriptorFromCmd(cmd *cli.Command) problem.Descriptor {
	return problem.Descriptor{
		M:       cmd.Int64("m"),
		N:       cmd.Int64("n"),
		K:       cmd.Int64("k"),
		Batch:   cmd.Int64("batch"),
		TransA:  cmd.String("trans-a"),
		TransB:  cmd.String("trans-b"),
		TypeA:   cmd.String("type"),
		TypeC:   cmd.String("type-c"),
		Compute: cmd.String("compute"),
		ScaleA:  cmd.Bool("scale"),
		ScaleB:  cmd.Bool("scale"),
	}
}

// deviceFromCmd resolves --arch and --cus.
func deviceFromCmd(cmd *cli.Command) (hardware.Hardware, error) {
	return heuristic.ResolveDevice(cmd.String("arch"), cmd.Int("cus"))
}

// diagnosticsFromCmd layers the command flags over HIPBLASLT_SELECT_DB.
func diagnosticsFromCmd(cmd *cli.Command) diagnostics.Config {
	diag := diagnostics.FromEnv()
	if cmd.Bool("trace") {
		diag.Trace = true
	}
	if cmd.Bool("evaluate") {
		diag.EvaluationSelection = true
	}
	return diag
}

// newSelector loads the catalog for one CLI invocation.
func newSelector(cmd *cli.Command) (*heuristic.Selector, error) {
	diag := diagnosticsFromCmd(cmd)
	lib, err := catalog.Synthetic(catalog.DefaultTargets(),
		catalog.WithVersion(version),
		catalog.WithDiagnostics(diag),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	slog.Debug("catalog loaded", "version", lib.Version(), "solutions", lib.Len(), "diagnostics", diag)
	return heuristic.NewSelector(lib), nil
}

func preferenceFromCmd(cmd *cli.Command) heuristic.Preference {
	return heuristic.Preference{MaxWorkspaceBytes: cmd.Uint64("max-workspace")}
}

func selectCmd() *cli.Command {
	return &cli.Command{
		Name:  "select",
		Usage: "Select the ranked top candidates for one GEMM problem",
		Description: `Returns up to --count candidates ordered from best to worst. The first
candidate is the one a BLAS library would run; the rest are fallbacks.

Example:
  hipblaslt-select select --m 4096 --n 4096 --k 1024 --type f16 --arch gfx942`,
		Flags: append(append(problemFlags(), deviceFlags()...),
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"c"},
				Value:   defaults.RequestedSolutions,
				Usage:   "Number of candidates to return",
			},
			outputFlag(),
			formatFlag(),
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}
			p, err := descriptorFromCmd(cmd).Build()
			if err != nil {
				return fmt.Errorf("invalid problem: %w", err)
			}
			hw, err := deviceFromCmd(cmd)
			if err != nil {
				return err
			}
			sel, err := newSelector(cmd)
			if err != nil {
				return err
			}

			results, err := sel.GetHeuristic(ctx, p, hw, preferenceFromCmd(cmd), cmd.Int("count"))
			if err != nil {
				return fmt.Errorf("selection failed: %w", err)
			}
			return writeOutput(ctx, cmd, heuristic.Results(results))
		},
	}
}

func allCmd() *cli.Command {
	return &cli.Command{
		Name:  "all",
		Usage: "List every candidate for one GEMM problem",
		Description: `Lists the solutions of the catalog that can run the problem. With
--search all, the eligibility of each solution is ignored.`,
		Flags: append(append(problemFlags(), deviceFlags()...),
			&cli.StringFlag{
				Name:  "search",
				Value: library.SearchDefault.String(),
				Usage: "Search mode (default, all)",
			},
			outputFlag(),
			formatFlag(),
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}
			search, err := library.ParseSearchType(cmd.String("search"))
			if err != nil {
				return err
			}
			p, err := descriptorFromCmd(cmd).Build()
			if err != nil {
				return fmt.Errorf("invalid problem: %w", err)
			}
			hw, err := deviceFromCmd(cmd)
			if err != nil {
				return err
			}
			sel, err := newSelector(cmd)
			if err != nil {
				return err
			}

			results, err := sel.GetAllAlgos(ctx, p, hw, preferenceFromCmd(cmd), search)
			if err != nil {
				return fmt.Errorf("listing failed: %w", err)
			}
			return writeOutput(ctx, cmd, heuristic.Results(results))
		},
	}
}

func batchCmd() *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Select candidates for a list of problems read from a file",
		Description: `Reads a JSON or YAML list of problems, for example:

  - {m: 1024, n: 1024, k: 512, typeA: f16}
  - {m: 64, n: 4096, k: 4096, transB: T}

Each problem is resolved independently unless --grouped is set, in which case
the candidates must run every problem as one grouped GEMM.`,
		Flags: append(deviceFlags(),
			&cli.StringFlag{
				Name:     "problems",
				Aliases:  []string{"f"},
				Required: true,
				Usage:    "Path to the problem list (.json, .yaml)",
			},
			&cli.BoolFlag{Name: "grouped", Usage: "Treat the problems as one grouped GEMM"},
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"c"},
				Value:   defaults.RequestedSolutions,
				Usage:   "Number of candidates per problem",
			},
			outputFlag(),
			formatFlag(),
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}
			path := cmd.String("problems")
			descs, err := serializer.FromFile[[]problem.Descriptor](path)
			if err != nil {
				return fmt.Errorf("failed to load problems from %q: %w", path, err)
			}
			problems, err := problem.BuildAll(*descs)
			if err != nil {
				return fmt.Errorf("invalid problem in %q: %w", path, err)
			}
			hw, err := deviceFromCmd(cmd)
			if err != nil {
				return err
			}
			sel, err := newSelector(cmd)
			if err != nil {
				return err
			}

			pref := preferenceFromCmd(cmd)
			if cmd.Bool("grouped") {
				results, gerr := sel.GetGroupedHeuristic(ctx, problems, hw, pref, cmd.Int("count"))
				if gerr != nil {
					return fmt.Errorf("grouped selection failed: %w", gerr)
				}
				return writeOutput(ctx, cmd, heuristic.Results(results))
			}

			batch, err := sel.ResolveBatch(ctx, problems, hw, pref, cmd.Int("count"))
			if err != nil {
				return fmt.Errorf("batch selection failed: %w", err)
			}
			return writeOutput(ctx, cmd, heuristic.Batch(batch))
		},
	}
}

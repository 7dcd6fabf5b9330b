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

// Package serializer encodes selection results and decodes problem files.
//
// # Formats
//
// JSON and YAML round-trip; the table format is write-only. Values that
// implement Tabular are rendered as columns; anything else is flattened to
// FIELD/VALUE rows.
//
// # Usage - Encoding
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, path)
//	defer w.Close()
//	if err := w.Serialize(ctx, results); err != nil {
//		return err
//	}
//
// # Usage - Decoding
//
//	problems, err := serializer.FromFile[[]problem.Descriptor]("problems.yaml")
//
// # HTTP
//
//	serializer.RespondJSON(w, http.StatusOK, data)
//
// RespondJSON buffers the encoding so an encoding failure never produces a
// partial response.
package serializer

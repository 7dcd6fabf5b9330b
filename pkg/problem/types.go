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

package problem

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// fold normalizes user supplied enum names. A Caser is stateful, so a new one
// is created per call.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// DataType is the element type of a matrix operand.
type DataType string

// DataType constants for supported element types.
const (
	DataTypeF32  DataType = "f32"
	DataTypeF64  DataType = "f64"
	DataTypeF16  DataType = "f16"
	DataTypeBF16 DataType = "bf16"
	DataTypeF8   DataType = "f8"
	DataTypeBF8  DataType = "bf8"
	DataTypeI8   DataType = "i8"
	DataTypeI32  DataType = "i32"
	DataTypeXF32 DataType = "xf32"
)

// ParseDataType parses a string into a DataType.
func ParseDataType(s string) (DataType, error) {
	switch fold(s) {
	case "f32", "float", "float32", "r_32f":
		return DataTypeF32, nil
	case "f64", "double", "float64", "r_64f":
		return DataTypeF64, nil
	case "f16", "half", "float16", "r_16f":
		return DataTypeF16, nil
	case "bf16", "bfloat16", "r_16bf":
		return DataTypeBF16, nil
	case "f8", "fp8", "f8_fnuz", "r_8f_e4m3", "r_8f_e4m3_fnuz":
		return DataTypeF8, nil
	case "bf8", "bf8_fnuz", "r_8f_e5m2", "r_8f_e5m2_fnuz":
		return DataTypeBF8, nil
	case "i8", "int8", "r_8i":
		return DataTypeI8, nil
	case "i32", "int32", "r_32i":
		return DataTypeI32, nil
	case "xf32", "xfloat32":
		return DataTypeXF32, nil
	default:
		return "", fmt.Errorf("invalid data type: %s", s)
	}
}

// IsValid reports whether d is a known data type.
func (d DataType) IsValid() bool {
	parsed, err := ParseDataType(string(d))
	return err == nil && parsed == d
}

// ElementSize returns the size of one element in bytes.
func (d DataType) ElementSize() int {
	switch d {
	case DataTypeF64:
		return 8
	case DataTypeF32, DataTypeI32, DataTypeXF32:
		return 4
	case DataTypeF16, DataTypeBF16:
		return 2
	case DataTypeF8, DataTypeBF8, DataTypeI8:
		return 1
	default:
		return 0
	}
}

// String returns the canonical name.
func (d DataType) String() string { return string(d) }

// SupportedDataTypes returns all supported data types sorted alphabetically.
func SupportedDataTypes() []string {
	return []string{"bf16", "bf8", "f16", "f32", "f64", "f8", "i32", "i8", "xf32"}
}

// Operation is the transpose mode of an operand.
type Operation string

// Operation constants.
const (
	OpN Operation = "N"
	OpT Operation = "T"
	OpC Operation = "C"
)

// ParseOperation parses a string into an Operation.
func ParseOperation(s string) (Operation, error) {
	switch fold(s) {
	case "", "n", "none", "op_n":
		return OpN, nil
	case "t", "transpose", "op_t":
		return OpT, nil
	case "c", "conjugate", "op_c":
		return OpC, nil
	default:
		return "", fmt.Errorf("invalid transpose operation: %s", s)
	}
}

// Transposed reports whether the operand is read transposed.
func (o Operation) Transposed() bool { return o == OpT || o == OpC }

// String returns the canonical name.
func (o Operation) String() string { return string(o) }

// ComputeType is the accumulation type of the contraction.
type ComputeType string

// ComputeType constants.
const (
	ComputeF32         ComputeType = "f32"
	ComputeF64         ComputeType = "f64"
	ComputeI32         ComputeType = "i32"
	ComputeXF32        ComputeType = "xf32"
	ComputeF32FastF16  ComputeType = "f32_fast_f16"
	ComputeF32FastBF16 ComputeType = "f32_fast_bf16"
)

// ParseComputeType parses a string into a ComputeType.
func ParseComputeType(s string) (ComputeType, error) {
	switch fold(s) {
	case "", "f32", "compute_32f", "float":
		return ComputeF32, nil
	case "f64", "compute_64f", "double":
		return ComputeF64, nil
	case "i32", "compute_32i", "int32":
		return ComputeI32, nil
	case "xf32", "compute_32f_fast_tf32":
		return ComputeXF32, nil
	case "f32_fast_f16", "compute_32f_fast_16f":
		return ComputeF32FastF16, nil
	case "f32_fast_bf16", "compute_32f_fast_16bf":
		return ComputeF32FastBF16, nil
	default:
		return "", fmt.Errorf("invalid compute type: %s", s)
	}
}

// String returns the canonical name.
func (c ComputeType) String() string { return string(c) }

package problem

import (
	"testing"

	hblerrors "github.com/tsenwang/hipBLASLt/pkg/errors"
)

func TestParseDataType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    DataType
		wantErr bool
	}{
		{"f32", "f32", DataTypeF32, false},
		{"F16 uppercase", "F16", DataTypeF16, false},
		{"half alias", "half", DataTypeF16, false},
		{"hip enum", "R_16BF", DataTypeBF16, false},
		{"fp8 fnuz", "F8_FNUZ", DataTypeF8, false},
		{"bf8", "bf8", DataTypeBF8, false},
		{"int8", "int8", DataTypeI8, false},
		{"whitespace", "  f64 ", DataTypeF64, false},
		{"invalid", "f128", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDataType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDataType() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseDataType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDataTypeIsValid(t *testing.T) {
	if !DataTypeBF16.IsValid() {
		t.Error("bf16 should be valid")
	}
	if DataType("half").IsValid() {
		t.Error("alias is not a canonical data type")
	}
	for _, s := range SupportedDataTypes() {
		if !DataType(s).IsValid() {
			t.Errorf("supported type %q should be valid", s)
		}
		if DataType(s).ElementSize() == 0 {
			t.Errorf("supported type %q should have a size", s)
		}
	}
}

func TestParseOperation(t *testing.T) {
	tests := []struct {
		input   string
		want    Operation
		wantErr bool
	}{
		{"", OpN, false},
		{"n", OpN, false},
		{"T", OpT, false},
		{"c", OpC, false},
		{"x", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOperation(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseOperation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseOperation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewDefaults(t *testing.T) {
	p, err := New(WithSizes(64, 32, 16))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if p.BatchCount != 1 || p.TransA != OpN || p.TypeD != DataTypeF32 || p.ComputeType != ComputeF32 {
		t.Errorf("unexpected defaults: %+v", p)
	}
	if p.LDA != 64 || p.LDB != 16 || p.LDC != 64 || p.LDD != 64 {
		t.Errorf("unexpected packed leading dims: lda=%d ldb=%d ldc=%d ldd=%d", p.LDA, p.LDB, p.LDC, p.LDD)
	}
}

func TestNewTransposedLeadingDims(t *testing.T) {
	p := MustNew(WithSizes(64, 32, 16), WithTranspose("T", "T"))
	if p.LDA != 16 || p.LDB != 32 {
		t.Errorf("lda=%d ldb=%d, want 16 and 32", p.LDA, p.LDB)
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"zero m", []Option{WithSizes(0, 1, 1)}},
		{"negative batch", []Option{WithSizes(1, 1, 1), WithBatch(-2)}},
		{"bad type", []Option{WithSizes(1, 1, 1), WithTypes("f32", "nope", "", "")}},
		{"bad transpose", []Option{WithSizes(1, 1, 1), WithTranspose("N", "Q")}},
		{"bad compute", []Option{WithSizes(1, 1, 1), WithComputeType("f17")}},
		{"small lda", []Option{WithSizes(8, 8, 8), WithLeadingDims(4, 0, 0, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !hblerrors.IsCode(err, hblerrors.ErrCodeInvalidRequest) {
				t.Errorf("expected INVALID_REQUEST, got %v", err)
			}
		})
	}
}

func TestProblemIsComparable(t *testing.T) {
	a := MustNew(WithSizes(128, 128, 128))
	b := MustNew(WithSizes(128, 128, 128))
	seen := map[Problem]int{a: 1}
	if seen[b] != 1 {
		t.Error("equal problems should be equal map keys")
	}
}

func TestFlopsAndString(t *testing.T) {
	p := MustNew(WithSizes(2, 3, 4), WithBatch(5), WithScale(true, false))
	if p.Flops() != 240 {
		t.Errorf("Flops() = %v, want 240", p.Flops())
	}
	want := "NN_f32f32f32f32_f32 m=2 n=3 k=4 batch=5 scaleA=true scaleB=false"
	if p.String() != want {
		t.Errorf("String() = %q, want %q", p.String(), want)
	}
}

func TestPredicates(t *testing.T) {
	p := MustNew(WithSizes(128, 64, 32), WithBatch(4), WithTypes("f16", "f16", "f16", "f16"), WithTranspose("N", "C"), WithScale(true, false))

	tests := []struct {
		name string
		ok   bool
	}{
		{"types", TypesEqual(DataTypeF16, DataTypeF16, DataTypeF16, DataTypeF16, ComputeF32).Test(p)},
		{"transpose C as T", TransposeEqual(OpN, OpT).Test(p)},
		{"batch multiple", BatchSizeMultiple(2).Test(p)},
		{"size multiple", SizeMultiple(64, 64, 0).Test(p)},
		{"max bound", MaxBoundSize(32).Test(p)},
		{"scale", ScaleSupported(true, false).Test(p)},
		{"types mismatch", !TypesEqual(DataTypeF32, DataTypeF32, DataTypeF32, DataTypeF32, ComputeF32).Test(p)},
		{"batch not multiple", !BatchSizeMultiple(3).Test(p)},
		{"zero batch multiple", !BatchSizeMultiple(0).Test(p)},
		{"scale unsupported", !ScaleSupported(false, false).Test(p)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.ok {
				t.Errorf("predicate check %q failed for %s", tt.name, p)
			}
		})
	}
}

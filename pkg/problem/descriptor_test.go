package problem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hblerrors "github.com/tsenwang/hipBLASLt/pkg/errors"
)

func TestDescriptorBuild(t *testing.T) {
	tests := []struct {
		name    string
		in      Descriptor
		check   func(t *testing.T, p Problem)
		wantErr bool
	}{
		{
			name: "defaults",
			in:   Descriptor{M: 128, N: 64, K: 32},
			check: func(t *testing.T, p Problem) {
				assert.Equal(t, int64(1), p.BatchCount)
				assert.Equal(t, OpN, p.TransA)
				assert.Equal(t, DataTypeF32, p.TypeD)
				assert.Equal(t, ComputeF32, p.ComputeType)
			},
		},
		{
			name: "typeA propagates with aliases",
			in:   Descriptor{M: 1, N: 1, K: 1, TypeA: "half", TransB: "T", Batch: 4},
			check: func(t *testing.T, p Problem) {
				assert.Equal(t, DataTypeF16, p.TypeA)
				assert.Equal(t, DataTypeF16, p.TypeB)
				assert.Equal(t, DataTypeF16, p.TypeC)
				assert.Equal(t, DataTypeF16, p.TypeD)
				assert.Equal(t, OpT, p.TransB)
				assert.Equal(t, int64(4), p.BatchCount)
			},
		},
		{
			name: "mixed output type",
			in:   Descriptor{M: 8, N: 8, K: 8, TypeA: "f8", TypeC: "f16", Compute: "f32", ScaleA: true},
			check: func(t *testing.T, p Problem) {
				assert.Equal(t, DataTypeF8, p.TypeB)
				assert.Equal(t, DataTypeF16, p.TypeC)
				assert.Equal(t, DataTypeF16, p.TypeD)
				assert.True(t, p.ScaleA)
			},
		},
		{name: "zero size", in: Descriptor{M: 0, N: 1, K: 1}, wantErr: true},
		{name: "bad type", in: Descriptor{M: 1, N: 1, K: 1, TypeA: "f128"}, wantErr: true},
		{name: "bad transpose", in: Descriptor{M: 1, N: 1, K: 1, TransA: "X"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.in.Build()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, hblerrors.IsCode(err, hblerrors.ErrCodeInvalidRequest))
				return
			}
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}

func TestBuildAll(t *testing.T) {
	ps, err := BuildAll([]Descriptor{{M: 1, N: 2, K: 3}, {M: 4, N: 5, K: 6}})
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, int64(4), ps[1].M)

	_, err = BuildAll([]Descriptor{{M: 1, N: 2, K: 3}, {}})
	assert.Error(t, err)
}

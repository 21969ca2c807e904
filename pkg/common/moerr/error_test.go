// Copyright 2021 - 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package moerr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsMoErrCode(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		err  error
		code uint16
		want bool
	}{
		{name: "nil is ok", err: nil, code: Ok, want: true},
		{name: "nil is not oom", err: nil, code: ErrOOM, want: false},
		{name: "oom", err: NewOOMNoCtx(), code: ErrOOM, want: true},
		{name: "operand", err: NewInvalidOperand(ctx, "left"), code: ErrInvalidOperand, want: true},
		{name: "mismatch", err: NewTypeMismatch(ctx, "%s vs %s", "int32", "int64"), code: ErrTypeMismatch, want: true},
		{name: "go error", err: errors.New("x"), code: ErrInternal, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsMoErrCode(tt.err, tt.code))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	ctx := context.Background()
	require.Equal(t, "invalid operand: left is nil", NewInvalidOperand(ctx, "left").Error())
	require.Equal(t, "type varchar not implemented for bandjoin", NewUnsupportedType(ctx, "varchar", "bandjoin").Error())
	require.Equal(t, "invalid argument lo margin, bad value -1", NewInvalidArg(ctx, "lo margin", -1).Error())
	require.Equal(t, "operands rl, rh are not aligned: count 3 != 4",
		NewMisalignedOperand(ctx, "rl, rh", "count %d != %d", 3, 4).Error())
}

func TestCallIDDetail(t *testing.T) {
	ctx := AttachCallID(context.Background(), "c-1")
	err := NewInvalidOperand(ctx, "left")
	require.Equal(t, "call c-1", err.Detail())
	require.Equal(t, "invalid operand: left is nil: call c-1", err.Display())
	require.Equal(t, "", NewOOMNoCtx().Detail())
}

func TestAttachCall(t *testing.T) {
	ctx := AttachCallID(context.Background(), "c-2")
	oom := NewOOMNoCtx()
	got := AttachCall(ctx, oom)
	require.True(t, IsMoErrCode(got, ErrOOM))
	require.Equal(t, "call c-2", got.(*Error).Detail())
	require.Equal(t, "error: out of memory: call c-2", got.(*Error).Display())
	// the original is untouched
	require.Equal(t, "", oom.Detail())

	other := NewInvalidArg(AttachCallID(context.Background(), "c-1"), "x", 1)
	require.Equal(t, error(other), AttachCall(ctx, other))
	require.Equal(t, error(oom), AttachCall(context.Background(), oom))
	require.NoError(t, AttachCall(ctx, nil))
	goErr := errors.New("x")
	require.Equal(t, goErr, AttachCall(ctx, goErr))

	require.True(t, IsMoErrCode(NewInvalidInput(ctx, "rows %d", 0), ErrInvalidInput))
}

func TestConvert(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, ConvertGoError(ctx, nil))
	oom := NewOOMNoCtx()
	require.Equal(t, error(oom), ConvertGoError(ctx, oom))
	require.True(t, IsMoErrCode(ConvertGoError(ctx, errors.New("boom")), ErrInternal))
	require.Equal(t, oom, ConvertPanicError(ctx, oom))
	require.True(t, IsMoErrCode(ConvertPanicError(ctx, "boom"), ErrInternal))
	require.Equal(t, ErrOOM, oom.ErrorCode())
}

func TestUnknownCodePanics(t *testing.T) {
	require.Panics(t, func() {
		_ = newError(context.Background(), 12345)
	})
}

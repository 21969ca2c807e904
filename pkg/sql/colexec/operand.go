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

package colexec

import (
	"context"

	"github.com/matrixorigin/batcore/pkg/common/moerr"
	"github.com/matrixorigin/batcore/pkg/container/types"
)

// Operand is any BAT instantiation.
type Operand interface {
	Valid() bool
}

// CheckOperands fails with InvalidOperand on the first absent operand,
// names and operands go by pairs.
func CheckOperands(ctx context.Context, names []string, ops ...Operand) error {
	for i, op := range ops {
		if op == nil || !op.Valid() {
			return moerr.NewInvalidOperand(ctx, names[i])
		}
	}
	return nil
}

// CheckLinear fails with TypeMismatch when values of t have no total order.
func CheckLinear(ctx context.Context, op Op, what string, t types.T) error {
	if !t.Linear() {
		return moerr.NewTypeMismatch(ctx, "%s type %s of %s is not orderable", what, t.OidString(), op)
	}
	return nil
}

// CheckNumeric fails with TypeMismatch when t cannot carry band margins.
func CheckNumeric(ctx context.Context, op Op, what string, t types.T) error {
	if !t.Numeric() {
		return moerr.NewTypeMismatch(ctx, "%s type %s of %s has no arithmetic", what, t.OidString(), op)
	}
	return nil
}

// CheckRegistered fails with UnsupportedType when t has no storage class.
func CheckRegistered(ctx context.Context, op Op, t types.T) error {
	if t == types.T_any {
		return moerr.NewUnsupportedType(ctx, t.String(), op.String())
	}
	return nil
}

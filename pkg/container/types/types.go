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

package types

import (
	"math"
	"strconv"

	"golang.org/x/exp/constraints"
)

// T is the storage class of a column.
type T uint8

const (
	// T_any is a type without a registered storage class, it can be stored
	// in a BAT but no operator accepts it.
	T_any T = iota

	T_int8
	T_int16
	T_int32
	T_int64
	T_uint8
	T_uint16
	T_uint32
	T_uint64
	T_float32
	T_float64
	T_varchar
)

// Scalar is what a head or tail column may hold.
type Scalar interface {
	constraints.Ordered
}

type Integer interface {
	constraints.Integer
}

// Number is a Scalar with arithmetic, required by band predicates.
type Number interface {
	constraints.Integer | constraints.Float
}

func (t T) String() string {
	switch t {
	case T_int8:
		return "TINYINT"
	case T_int16:
		return "SMALLINT"
	case T_int32:
		return "INT"
	case T_int64:
		return "BIGINT"
	case T_uint8:
		return "TINYINT UNSIGNED"
	case T_uint16:
		return "SMALLINT UNSIGNED"
	case T_uint32:
		return "INT UNSIGNED"
	case T_uint64:
		return "BIGINT UNSIGNED"
	case T_float32:
		return "FLOAT"
	case T_float64:
		return "DOUBLE"
	case T_varchar:
		return "VARCHAR"
	}
	return "ANY"
}

func (t T) OidString() string {
	switch t {
	case T_int8:
		return "T_int8"
	case T_int16:
		return "T_int16"
	case T_int32:
		return "T_int32"
	case T_int64:
		return "T_int64"
	case T_uint8:
		return "T_uint8"
	case T_uint16:
		return "T_uint16"
	case T_uint32:
		return "T_uint32"
	case T_uint64:
		return "T_uint64"
	case T_float32:
		return "T_float32"
	case T_float64:
		return "T_float64"
	case T_varchar:
		return "T_varchar"
	}
	return "T_any"
}

// Linear reports whether values of t have a total order usable by range
// predicates.
func (t T) Linear() bool {
	return t != T_any
}

// Numeric reports whether t supports the margins of a band predicate.
func (t T) Numeric() bool {
	return t != T_any && t != T_varchar
}

// TypeOf resolves the storage class of V. Named types are not registered.
func TypeOf[V Scalar]() T {
	var v V
	switch any(v).(type) {
	case int8:
		return T_int8
	case int16:
		return T_int16
	case int32:
		return T_int32
	case int64:
		return T_int64
	case int:
		if strconv.IntSize == 64 {
			return T_int64
		}
		return T_int32
	case uint8:
		return T_uint8
	case uint16:
		return T_uint16
	case uint32:
		return T_uint32
	case uint64:
		return T_uint64
	case uint:
		if strconv.IntSize == 64 {
			return T_uint64
		}
		return T_uint32
	case float32:
		return T_float32
	case float64:
		return T_float64
	case string:
		return T_varchar
	}
	return T_any
}

// Nil returns the nil sentinel of V and false when V has none.
func Nil[V Scalar]() (V, bool) {
	var v V
	switch p := any(&v).(type) {
	case *int8:
		*p = math.MinInt8
	case *int16:
		*p = math.MinInt16
	case *int32:
		*p = math.MinInt32
	case *int64:
		*p = math.MinInt64
	case *int:
		*p = math.MinInt
	case *uint8:
		*p = math.MaxUint8
	case *uint16:
		*p = math.MaxUint16
	case *uint32:
		*p = math.MaxUint32
	case *uint64:
		*p = math.MaxUint64
	case *uint:
		*p = math.MaxUint
	case *float32:
		*p = -math.MaxFloat32
	case *float64:
		*p = -math.MaxFloat64
	case *string:
		*p = "\x80"
	default:
		return v, false
	}
	return v, true
}

// NilFunc returns a predicate recognizing the nil sentinel of V.
func NilFunc[V Scalar]() func(V) bool {
	nv, ok := Nil[V]()
	if !ok {
		return func(V) bool { return false }
	}
	return func(v V) bool { return v == nv }
}

func IsNil[V Scalar](v V) bool {
	nv, ok := Nil[V]()
	return ok && v == nv
}

// --------------------------------------------------------------------------------
// Author: Thomas F McGeehan V
//
// This file is part of a software project developed by Thomas F McGeehan V.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// For more information about the MIT License, please visit:
// https://opensource.org/licenses/MIT
//
// Acknowledgment appreciated but not required.
// --------------------------------------------------------------------------------

package bridge

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// Kind is the storage kind of a column: one of the eight fixed-width
// primitives the bridge transcodes, or Null for a column that cannot hold
// typed data.
type Kind uint8

const (
	Null Kind = iota
	Boolean
	Int8
	Int16
	Int32
	Int64
	Float32
	Float64
)

var kindNames = [...]string{
	Null:    "null",
	Boolean: "boolean",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Float32: "float32",
	Float64: "float64",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// TypeToken names a host boxed-primitive type in a writer schema.
type TypeToken string

const (
	TokenBoolean TypeToken = "Boolean"
	TokenByte    TypeToken = "Byte"
	TokenShort   TypeToken = "Short"
	TokenInteger TypeToken = "Integer"
	TokenLong    TypeToken = "Long"
	TokenFloat   TypeToken = "Float"
	TokenDouble  TypeToken = "Double"
)

// dispatch is one row of the type dispatch matrix: how a storage kind is
// declared, flattened into a host array, unwrapped from a host value and
// built back into a storage array.
type dispatch struct {
	token    TypeToken
	dataType arrow.DataType
	// flatten concatenates the buffer runs of one column into a host array
	// of exactly rows elements.
	flatten func(runs []arrow.Array, rows int) any
	// unwrap converts a classified host value to this kind.
	unwrap func(s scalar) (scalar, bool)
	build  func(mem memory.Allocator, vals []scalar) arrow.Array
}

var matrix = [...]dispatch{
	Null: {
		dataType: arrow.Null,
		build: func(mem memory.Allocator, vals []scalar) arrow.Array {
			return array.NewNull(len(vals))
		},
	},
	Boolean: {
		token:    TokenBoolean,
		dataType: arrow.FixedWidthTypes.Boolean,
		flatten:  func(runs []arrow.Array, rows int) any { return flattenBits(runs, rows) },
		unwrap:   unwrapBool,
		build: func(mem memory.Allocator, vals []scalar) arrow.Array {
			b := array.NewBooleanBuilder(mem)
			defer b.Release()
			b.Reserve(len(vals))
			for _, v := range vals {
				b.UnsafeAppend(v.b)
			}
			return b.NewArray()
		},
	},
	Int8: {
		token:    TokenByte,
		dataType: arrow.PrimitiveTypes.Int8,
		flatten: func(runs []arrow.Array, rows int) any {
			return flattenFixed(runs, rows, arrow.Int8SizeBytes, arrow.Int8Traits.CastFromBytes)
		},
		unwrap: unwrapInt(8),
		build: func(mem memory.Allocator, vals []scalar) arrow.Array {
			b := array.NewInt8Builder(mem)
			defer b.Release()
			b.Reserve(len(vals))
			for _, v := range vals {
				b.UnsafeAppend(int8(v.i))
			}
			return b.NewArray()
		},
	},
	Int16: {
		token:    TokenShort,
		dataType: arrow.PrimitiveTypes.Int16,
		flatten: func(runs []arrow.Array, rows int) any {
			return flattenFixed(runs, rows, arrow.Int16SizeBytes, arrow.Int16Traits.CastFromBytes)
		},
		unwrap: unwrapInt(16),
		build: func(mem memory.Allocator, vals []scalar) arrow.Array {
			b := array.NewInt16Builder(mem)
			defer b.Release()
			b.Reserve(len(vals))
			for _, v := range vals {
				b.UnsafeAppend(int16(v.i))
			}
			return b.NewArray()
		},
	},
	Int32: {
		token:    TokenInteger,
		dataType: arrow.PrimitiveTypes.Int32,
		flatten: func(runs []arrow.Array, rows int) any {
			return flattenFixed(runs, rows, arrow.Int32SizeBytes, arrow.Int32Traits.CastFromBytes)
		},
		unwrap: unwrapInt(32),
		build: func(mem memory.Allocator, vals []scalar) arrow.Array {
			b := array.NewInt32Builder(mem)
			defer b.Release()
			b.Reserve(len(vals))
			for _, v := range vals {
				b.UnsafeAppend(int32(v.i))
			}
			return b.NewArray()
		},
	},
	Int64: {
		token:    TokenLong,
		dataType: arrow.PrimitiveTypes.Int64,
		flatten: func(runs []arrow.Array, rows int) any {
			return flattenFixed(runs, rows, arrow.Int64SizeBytes, arrow.Int64Traits.CastFromBytes)
		},
		unwrap: unwrapInt(64),
		build: func(mem memory.Allocator, vals []scalar) arrow.Array {
			b := array.NewInt64Builder(mem)
			defer b.Release()
			b.Reserve(len(vals))
			for _, v := range vals {
				b.UnsafeAppend(v.i)
			}
			return b.NewArray()
		},
	},
	Float32: {
		token:    TokenFloat,
		dataType: arrow.PrimitiveTypes.Float32,
		flatten: func(runs []arrow.Array, rows int) any {
			return flattenFixed(runs, rows, arrow.Float32SizeBytes, arrow.Float32Traits.CastFromBytes)
		},
		unwrap: unwrapFloat,
		build: func(mem memory.Allocator, vals []scalar) arrow.Array {
			b := array.NewFloat32Builder(mem)
			defer b.Release()
			b.Reserve(len(vals))
			for _, v := range vals {
				b.UnsafeAppend(float32(v.f))
			}
			return b.NewArray()
		},
	},
	Float64: {
		token:    TokenDouble,
		dataType: arrow.PrimitiveTypes.Float64,
		flatten: func(runs []arrow.Array, rows int) any {
			return flattenFixed(runs, rows, arrow.Float64SizeBytes, arrow.Float64Traits.CastFromBytes)
		},
		unwrap: unwrapFloat,
		build: func(mem memory.Allocator, vals []scalar) arrow.Array {
			b := array.NewFloat64Builder(mem)
			defer b.Release()
			b.Reserve(len(vals))
			for _, v := range vals {
				b.UnsafeAppend(v.f)
			}
			return b.NewArray()
		},
	},
}

// KindOfToken maps a host type token to its storage kind. Unrecognised
// tokens map to Null with ok == false.
func KindOfToken(token TypeToken) (k Kind, ok bool) {
	for kind := Boolean; kind <= Float64; kind++ {
		if matrix[kind].token == token {
			return kind, true
		}
	}
	return Null, false
}

// Token returns the host type token for k, empty for Null.
func (k Kind) Token() TypeToken {
	if int(k) < len(matrix) {
		return matrix[k].token
	}
	return ""
}

// DataType returns the arrow type a column of kind k is declared with.
func (k Kind) DataType() arrow.DataType {
	if int(k) < len(matrix) {
		return matrix[k].dataType
	}
	return arrow.Null
}

// KindOfType maps an arrow type to the storage kind it is read as. Unsigned
// integers read as the signed kind of the same width, bit for bit.
func KindOfType(dt arrow.DataType) (Kind, bool) {
	switch dt.ID() {
	case arrow.BOOL:
		return Boolean, true
	case arrow.INT8, arrow.UINT8:
		return Int8, true
	case arrow.INT16, arrow.UINT16:
		return Int16, true
	case arrow.INT32, arrow.UINT32:
		return Int32, true
	case arrow.INT64, arrow.UINT64:
		return Int64, true
	case arrow.FLOAT32:
		return Float32, true
	case arrow.FLOAT64:
		return Float64, true
	default:
		return Null, false
	}
}

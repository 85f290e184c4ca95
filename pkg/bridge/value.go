package bridge

import (
	"fmt"
	"math"
	"reflect"
)

// scalar is a host value after classification: a tagged variant with one
// case per primitive kind. Integers of every width travel in i, floats in f.
type scalar struct {
	kind Kind
	b    bool
	i    int64
	f    float64
}

// number is satisfied by the decoded JSON number types.
type number interface {
	Int64() (int64, error)
	Float64() (float64, error)
}

// classifyScalar tags one host value. Unsigned values keep their bit
// pattern in the signed kind of the same width.
func classifyScalar(v any) (scalar, bool) {
	switch x := v.(type) {
	case bool:
		return scalar{kind: Boolean, b: x}, true
	case int8:
		return scalar{kind: Int8, i: int64(x)}, true
	case uint8:
		return scalar{kind: Int8, i: int64(int8(x))}, true
	case int16:
		return scalar{kind: Int16, i: int64(x)}, true
	case uint16:
		return scalar{kind: Int16, i: int64(int16(x))}, true
	case int32:
		return scalar{kind: Int32, i: int64(x)}, true
	case uint32:
		return scalar{kind: Int32, i: int64(int32(x))}, true
	case int64:
		return scalar{kind: Int64, i: x}, true
	case uint64:
		return scalar{kind: Int64, i: int64(x)}, true
	case int:
		return scalar{kind: Int64, i: int64(x)}, true
	case uint:
		return scalar{kind: Int64, i: int64(x)}, true
	case float32:
		return scalar{kind: Float32, f: float64(x)}, true
	case float64:
		return scalar{kind: Float64, f: x}, true
	case number:
		if i, err := x.Int64(); err == nil {
			return scalar{kind: Int64, i: i}, true
		}
		if f, err := x.Float64(); err == nil {
			return scalar{kind: Float64, f: f}, true
		}
	}
	return scalar{}, false
}

// classify resolves a write value into its scalars: one for a scalar value,
// one per element for a slice or array of scalars.
func classify(v any) ([]scalar, error) {
	if v == nil {
		return nil, fmt.Errorf("nil value")
	}
	if s, ok := classifyScalar(v); ok {
		return []scalar{s}, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]scalar, rv.Len())
		for i := range out {
			s, ok := classifyScalar(rv.Index(i).Interface())
			if !ok {
				return nil, fmt.Errorf("element %d has unsupported type %T", i, rv.Index(i).Interface())
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported type %T", v)
}

func unwrapBool(s scalar) (scalar, bool) {
	if s.kind != Boolean {
		return scalar{}, false
	}
	return s, true
}

// unwrapInt returns the unwrapper for an integer kind of the given bit
// width. Floats truncate toward zero and NaN reads as zero, as a boxed
// number's integer accessor does. A value outside the signed range of the
// width does not fit.
func unwrapInt(bits uint) func(scalar) (scalar, bool) {
	lo, hi := int64(-1)<<(bits-1), int64(1)<<(bits-1)-1
	return func(s scalar) (scalar, bool) {
		switch s.kind {
		case Int8, Int16, Int32, Int64:
			if s.i < lo || s.i > hi {
				return scalar{}, false
			}
			return scalar{kind: Int64, i: s.i}, true
		case Float32, Float64:
			if math.IsNaN(s.f) {
				return scalar{kind: Int64}, true
			}
			t := math.Trunc(s.f)
			if t < float64(lo) || t >= float64(hi)+1 {
				return scalar{}, false
			}
			return scalar{kind: Int64, i: int64(t)}, true
		}
		return scalar{}, false
	}
}

func unwrapFloat(s scalar) (scalar, bool) {
	switch s.kind {
	case Int8, Int16, Int32, Int64:
		return scalar{kind: Float64, f: float64(s.i)}, true
	case Float32, Float64:
		return scalar{kind: Float64, f: s.f}, true
	}
	return scalar{}, false
}

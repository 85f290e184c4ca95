package bridge

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/bitutil"
)

// valueBuffer returns the bytes of run's value buffer, or nil when the run
// carries no values.
func valueBuffer(run arrow.Array) []byte {
	bufs := run.Data().Buffers()
	if len(bufs) < 2 || bufs[1] == nil {
		return nil
	}
	return bufs[1].Bytes()
}

// flattenFixed concatenates the value buffers of runs, in order, and
// reinterprets the result as []T. Each run contributes exactly its logical
// slice (offset and length), so sliced arrays flatten correctly. The result
// never aliases engine memory.
func flattenFixed[T any](runs []arrow.Array, rows, width int, cast func([]byte) []T) []T {
	raw := make([]byte, 0, rows*width)
	for _, run := range runs {
		n := run.Len()
		if n == 0 {
			continue
		}
		buf := valueBuffer(run)
		if buf == nil {
			continue
		}
		start := run.Data().Offset() * width
		raw = append(raw, buf[start:start+n*width]...)
	}
	if len(raw) > rows*width {
		raw = raw[:rows*width]
	}
	if out := cast(raw); out != nil {
		return out
	}
	return []T{}
}

// flattenBits expands the packed value bitmaps of runs into one bool
// per logical value, least significant bit first, stopping after rows values.
func flattenBits(runs []arrow.Array, rows int) []bool {
	out := make([]bool, 0, rows)
	for _, run := range runs {
		buf := valueBuffer(run)
		if buf == nil {
			continue
		}
		offset := run.Data().Offset()
		for i := 0; i < run.Len() && len(out) < rows; i++ {
			out = append(out, bitutil.BitIsSet(buf, offset+i))
		}
	}
	return out
}

// Flatten converts the runs of one column, all of kind k, into one host
// array: []bool, []int8, []int16, []int32, []int64, []float32 or []float64.
func Flatten(k Kind, runs []arrow.Array) (any, error) {
	if k == Null || int(k) >= len(matrix) {
		return nil, newError(KindUnsupportedType, "flatten", "no host array for storage kind %s", k)
	}
	rows := 0
	for _, run := range runs {
		rows += run.Len()
	}
	return matrix[k].flatten(runs, rows), nil
}

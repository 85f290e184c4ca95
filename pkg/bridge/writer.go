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
	"sort"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/arrowarc/pqbridge/integrations/filesystem"
)

// rowWriter owns a Parquet sink and the schema it was opened with. Each
// write assembles one batch from a host key/value row.
type rowWriter struct {
	schema *Schema
	sink   *filesystem.ParquetWriter
	mem    memory.Allocator
}

func openRowWriter(path string, schema *Schema, opts *filesystem.ParquetWriteOptions, mem memory.Allocator) (*rowWriter, error) {
	sink, err := filesystem.NewParquetWriter(path, schema.Arrow(), opts)
	if err != nil {
		return nil, engineError("open_writer", err)
	}
	return &rowWriter{schema: schema, sink: sink, mem: mem}, nil
}

// assemble validates values against the schema and resolves them into one
// column of scalars per field. Nothing is allocated from the arrow
// allocator, so a failed assembly leaves no trace.
func (w *rowWriter) assemble(values map[string]any) ([][]scalar, int, error) {
	const op = "write_row"
	if len(values) == 0 {
		return nil, 0, newError(KindShape, op, "row has no values")
	}

	names := make([]string, 0, len(values))
	for name := range values {
		if _, ok := w.schema.Lookup(name); !ok {
			return nil, 0, newError(KindKeyNotFound, op, "field %q is not declared", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	cols := make([][]scalar, w.schema.Len())
	supplied := make([]bool, w.schema.Len())
	rows, first := -1, ""
	for _, name := range names {
		i, _ := w.schema.Lookup(name)
		kind := w.schema.Kind(i)
		if kind == Null {
			return nil, 0, newError(KindUnsupportedType, op, "field %q has no storage type", name)
		}
		vals, err := classify(values[name])
		if err != nil {
			return nil, 0, newError(KindUnsupportedType, op, "field %q: %v", name, err)
		}
		for j, v := range vals {
			u, ok := matrix[kind].unwrap(v)
			if !ok {
				return nil, 0, newError(KindUnsupportedType, op, "field %q: %s value does not fit %s", name, v.kind, kind)
			}
			vals[j] = u
		}
		if rows >= 0 && len(vals) != rows {
			return nil, 0, newError(KindShape, op, "field %q has %d values but %q has %d", name, len(vals), first, rows)
		}
		rows, first = len(vals), name
		cols[i] = vals
		supplied[i] = true
	}

	for i, ok := range supplied {
		if !ok && rows > 0 && w.schema.Kind(i) != Null {
			return nil, 0, newError(KindShape, op, "field %q is missing from a %d-value row", w.schema.Arrow().Field(i).Name, rows)
		}
	}
	return cols, rows, nil
}

// writeRow appends one batch built from values. A call that fails validation
// appends nothing and leaves the writer usable.
func (w *rowWriter) writeRow(values map[string]any) error {
	cols, rows, err := w.assemble(values)
	if err != nil {
		return err
	}
	if rows == 0 {
		return nil
	}

	arrays := make([]arrow.Array, w.schema.Len())
	defer func() {
		for _, a := range arrays {
			if a != nil {
				a.Release()
			}
		}
	}()
	for i, vals := range cols {
		kind := w.schema.Kind(i)
		if kind == Null {
			vals = make([]scalar, rows)
		}
		arrays[i] = matrix[kind].build(w.mem, vals)
	}

	rec := array.NewRecord(w.schema.Arrow(), arrays, int64(rows))
	defer rec.Release()
	if err := w.sink.Write(rec); err != nil {
		return engineError("write_row", err)
	}
	return nil
}

func (w *rowWriter) close() error {
	if err := w.sink.Close(); err != nil {
		return wrapError(KindIO, "close_writer", err)
	}
	return nil
}

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
	"context"
	"errors"
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/arrowarc/pqbridge/integrations/filesystem"
)

// readerSession owns one open, footer-validated Parquet file. Every metadata
// query and every column stream works on a fresh reopen of the file so the
// session's own descriptor is never moved.
type readerSession struct {
	file *filesystem.ParquetFile
}

func openReaderSession(path string, opts *filesystem.ParquetReadOptions) (*readerSession, error) {
	f, err := filesystem.OpenParquetFile(path, opts)
	if err != nil {
		return nil, engineError("open_reader", err)
	}
	return &readerSession{file: f}, nil
}

func (r *readerSession) duplicate(op string) (*filesystem.ParquetFile, error) {
	dup, err := r.file.Reopen()
	if err != nil {
		return nil, engineError(op, err)
	}
	return dup, nil
}

func (r *readerSession) schema(op string) (*arrow.Schema, error) {
	dup, err := r.duplicate(op)
	if err != nil {
		return nil, err
	}
	defer dup.Close()

	schema, err := dup.Schema()
	if err != nil {
		return nil, wrapError(KindFormat, op, err)
	}
	return schema, nil
}

// columns lists the field names in storage order. No row data is read.
func (r *readerSession) columns() ([]string, error) {
	schema, err := r.schema("get_columns")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(schema.Fields()))
	for _, f := range schema.Fields() {
		names = append(names, f.Name)
	}
	return names, nil
}

// kinds reports the storage kind of every field; fields the bridge cannot
// transcode report Null.
func (r *readerSession) kinds() ([]Kind, error) {
	schema, err := r.schema("column_kinds")
	if err != nil {
		return nil, err
	}
	kinds := make([]Kind, 0, len(schema.Fields()))
	for _, f := range schema.Fields() {
		k, _ := KindOfType(f.Type)
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func (r *readerSession) numRows() int64 {
	return r.file.NumRows()
}

// scan reopens the file and starts a record reader over column name, or over
// every column when the file has no such column so that the miss is
// reported by the first batch.
func (r *readerSession) scan(op, name string) (*filesystem.ParquetReader, error) {
	dup, err := r.duplicate(op)
	if err != nil {
		return nil, err
	}
	var columns []int
	if leaf := dup.LeafIndex(name); leaf >= 0 {
		columns = []int{leaf}
	}
	rdr, err := dup.Scan(context.Background(), columns)
	if err != nil {
		dup.Close()
		return nil, wrapError(KindFormat, op, err)
	}
	return rdr, nil
}

func (r *readerSession) openStream(name string, skipUnsupported bool) (*columnStream, error) {
	src, err := r.scan("open_column", name)
	if err != nil {
		return nil, err
	}
	return &columnStream{
		name:            name,
		src:             src,
		skipUnsupported: skipUnsupported,
	}, nil
}

// readColumn reads every batch of column name and flattens all of their
// buffer runs, in order, into one host array.
func (r *readerSession) readColumn(name string) (any, error) {
	const op = "read_column"
	src, err := r.scan(op, name)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	var (
		runs []arrow.Array
		kind Kind
	)
	defer func() {
		for _, run := range runs {
			run.Release()
		}
	}()
	for {
		rec, err := src.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapError(KindFormat, op, err)
		}
		col, k, err := locate(op, rec, name)
		if err != nil {
			rec.Release()
			return nil, err
		}
		col.Retain()
		runs = append(runs, col)
		kind = k
		rec.Release()
	}
	if len(runs) == 0 {
		schema := src.Schema()
		idx := schema.FieldIndices(name)
		if len(idx) == 0 {
			return nil, newError(KindKeyNotFound, op, "column %q not found", name)
		}
		k, ok := KindOfType(schema.Field(idx[0]).Type)
		if !ok {
			return nil, newError(KindUnsupportedType, op, "column %q has unsupported type %s", name, schema.Field(idx[0]).Type)
		}
		kind = k
	}
	return Flatten(kind, runs)
}

func (r *readerSession) close() error {
	if err := r.file.Close(); err != nil {
		return wrapError(KindIO, "close_reader", err)
	}
	return nil
}

// locate finds column name in rec and its storage kind.
func locate(op string, rec arrow.Record, name string) (arrow.Array, Kind, error) {
	idx := rec.Schema().FieldIndices(name)
	if len(idx) == 0 {
		return nil, Null, newError(KindKeyNotFound, op, "column %q not found", name)
	}
	col := rec.Column(idx[0])
	kind, ok := KindOfType(col.DataType())
	if !ok {
		return nil, Null, newError(KindUnsupportedType, op, "column %q has unsupported type %s", name, col.DataType())
	}
	return col, kind, nil
}

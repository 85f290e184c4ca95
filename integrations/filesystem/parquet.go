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

// Package filesystem adapts the arrow Parquet engine to the file resources
// owned by bridge sessions: footer-validated files that can be reopened for
// an independent cursor, record readers over them, and a buffered writer.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/compress"
	"github.com/apache/arrow/go/v17/parquet/file"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
	pool "github.com/arrowarc/pqbridge/internal/memory"
)

// ParquetReadOptions defines options for reading Parquet files.
type ParquetReadOptions struct {
	MemoryMap bool
	Parallel  bool
	BatchSize int64
	RowGroups []int
	Allocator memory.Allocator
}

func (o *ParquetReadOptions) toArrowReadProperties() pqarrow.ArrowReadProperties {
	batchSize := o.BatchSize
	if batchSize <= 0 {
		batchSize = 64 * 1024
	}
	return pqarrow.ArrowReadProperties{
		Parallel:  o.Parallel,
		BatchSize: batchSize,
	}
}

// ParquetFile is an open Parquet file whose footer has been parsed. It owns
// one OS file descriptor; Reopen yields another with its own cursor.
type ParquetFile struct {
	path       string
	opts       ParquetReadOptions
	osFile     *os.File
	rdr        *file.Reader
	fileReader *pqarrow.FileReader
	alloc      memory.Allocator
	release    func()
}

// OpenParquetFile opens path and parses its footer. Failures to open the
// path surface as *fs.PathError; anything else is a metadata failure.
func OpenParquetFile(path string, opts *ParquetReadOptions) (*ParquetFile, error) {
	if opts == nil {
		opts = &ParquetReadOptions{}
	}
	alloc, release := pool.Acquire(opts.Allocator)

	var (
		osFile *os.File
		rdr    *file.Reader
		err    error
	)
	if opts.MemoryMap {
		rdr, err = file.OpenParquetFile(path, true)
		if err != nil {
			release()
			return nil, fmt.Errorf("failed to open Parquet file: %w", err)
		}
	} else {
		osFile, err = os.Open(path)
		if err != nil {
			release()
			return nil, fmt.Errorf("failed to open Parquet file: %w", err)
		}
		rdr, err = file.NewParquetReader(osFile)
		if err != nil {
			osFile.Close()
			release()
			return nil, fmt.Errorf("failed to read Parquet footer: %w", err)
		}
	}

	fileReader, err := pqarrow.NewFileReader(rdr, opts.toArrowReadProperties(), alloc)
	if err != nil {
		closeQuietly(rdr, osFile)
		release()
		return nil, fmt.Errorf("failed to create Arrow file reader: %w", err)
	}

	return &ParquetFile{
		path:       path,
		opts:       *opts,
		osFile:     osFile,
		rdr:        rdr,
		fileReader: fileReader,
		alloc:      alloc,
		release:    release,
	}, nil
}

// Reopen opens the same path again. The copy shares nothing with f and is
// positioned at the start of the file.
func (f *ParquetFile) Reopen() (*ParquetFile, error) {
	return OpenParquetFile(f.path, &f.opts)
}

func (f *ParquetFile) Path() string { return f.path }

// Schema converts the footer's schema without scanning any row data.
func (f *ParquetFile) Schema() (*arrow.Schema, error) {
	schema, err := f.fileReader.Schema()
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %w", err)
	}
	return schema, nil
}

func (f *ParquetFile) NumRows() int64 { return f.rdr.NumRows() }

func (f *ParquetFile) NumRowGroups() int { return f.rdr.NumRowGroups() }

// Scan hands f over to a record reader over the given column indices (nil
// for every column). Closing the reader closes f.
func (f *ParquetFile) Scan(ctx context.Context, columns []int) (*ParquetReader, error) {
	rowGroups := f.opts.RowGroups
	if len(rowGroups) == 0 {
		rowGroups = nil
	}
	recordReader, err := f.fileReader.GetRecordReader(ctx, columns, rowGroups)
	if err != nil {
		return nil, fmt.Errorf("failed to create record reader: %w", err)
	}
	return &ParquetReader{
		recordReader: recordReader,
		file:         f,
		schema:       recordReader.Schema(),
	}, nil
}

func (f *ParquetFile) Close() error {
	defer f.release()
	return closeQuietly(f.rdr, f.osFile)
}

// closeQuietly closes the engine reader and then the descriptor under it,
// which the engine reader may already have closed.
func closeQuietly(rdr *file.Reader, osFile *os.File) error {
	err := rdr.Close()
	if osFile != nil {
		if cerr := osFile.Close(); cerr != nil && !errors.Is(cerr, os.ErrClosed) && err == nil {
			err = cerr
		}
	}
	return err
}

// ParquetReader streams record batches from a Parquet file and implements
// arrio.ReadCloser.
type ParquetReader struct {
	recordReader pqarrow.RecordReader
	file         *ParquetFile
	schema       *arrow.Schema
}

// NewParquetReader opens filePath and scans the given column indices.
func NewParquetReader(ctx context.Context, filePath string, columns []int, opts *ParquetReadOptions) (*ParquetReader, error) {
	f, err := OpenParquetFile(filePath, opts)
	if err != nil {
		return nil, err
	}
	rdr, err := f.Scan(ctx, columns)
	if err != nil {
		f.Close()
		return nil, err
	}
	return rdr, nil
}

// Read returns the next batch, retained for the caller, or io.EOF.
func (p *ParquetReader) Read() (arrow.Record, error) {
	if p.recordReader.Next() {
		record := p.recordReader.Record()
		record.Retain()
		return record, nil
	}
	if err := p.recordReader.Err(); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return nil, io.EOF
}

func (p *ParquetReader) Schema() *arrow.Schema {
	return p.schema
}

func (p *ParquetReader) Close() error {
	p.recordReader.Release()
	return p.file.Close()
}

// ParquetWriteOptions defines options for writing Parquet files.
type ParquetWriteOptions struct {
	Compression       compress.Compression
	MaxRowGroupLength int64
	DataPageSize      int64
	CreatedBy         string
	Allocator         memory.Allocator
}

// NewDefaultParquetWriteOptions returns default write options for Parquet files.
func NewDefaultParquetWriteOptions() *ParquetWriteOptions {
	return &ParquetWriteOptions{
		Compression:       compress.Codecs.Snappy,
		MaxRowGroupLength: 64 * 1024,
		DataPageSize:      1024 * 1024,
		CreatedBy:         "pqbridge",
	}
}

func (o *ParquetWriteOptions) writerProperties(alloc memory.Allocator) *parquet.WriterProperties {
	props := []parquet.WriterProperty{
		parquet.WithAllocator(alloc),
		parquet.WithCompression(o.Compression),
		parquet.WithVersion(parquet.V2_LATEST),
	}
	if o.MaxRowGroupLength > 0 {
		props = append(props, parquet.WithMaxRowGroupLength(o.MaxRowGroupLength))
	}
	if o.DataPageSize > 0 {
		props = append(props, parquet.WithDataPageSize(o.DataPageSize))
	}
	if o.CreatedBy != "" {
		props = append(props, parquet.WithCreatedBy(o.CreatedBy))
	}
	return parquet.NewWriterProperties(props...)
}

// ParquetWriter appends records to a Parquet file. Records are buffered into
// row groups of at most MaxRowGroupLength rows and reach the file on Close.
type ParquetWriter struct {
	writer  *pqarrow.FileWriter
	file    *os.File
	schema  *arrow.Schema
	release func()
	rows    int64
}

// NewParquetWriter creates filePath and a writer for schema.
func NewParquetWriter(filePath string, schema *arrow.Schema, opts *ParquetWriteOptions) (*ParquetWriter, error) {
	if opts == nil {
		opts = NewDefaultParquetWriteOptions()
	}
	alloc, release := pool.Acquire(opts.Allocator)

	f, err := os.Create(filePath)
	if err != nil {
		release()
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	writer, err := pqarrow.NewFileWriter(schema, f, opts.writerProperties(alloc),
		pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema(), pqarrow.WithAllocator(alloc)))
	if err != nil {
		f.Close()
		release()
		return nil, fmt.Errorf("failed to create Parquet writer: %w", err)
	}

	return &ParquetWriter{
		writer:  writer,
		file:    f,
		schema:  schema,
		release: release,
	}, nil
}

func (p *ParquetWriter) Schema() *arrow.Schema { return p.schema }

// Rows reports how many rows were accepted so far.
func (p *ParquetWriter) Rows() int64 { return p.rows }

func (p *ParquetWriter) Write(record arrow.Record) error {
	if err := p.writer.WriteBuffered(record); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	p.rows += record.NumRows()
	return nil
}

// Close flushes the buffered row group and the footer, then closes the file.
func (p *ParquetWriter) Close() error {
	defer p.release()
	if err := p.writer.Close(); err != nil {
		p.file.Close()
		return fmt.Errorf("failed to close Parquet writer: %w", err)
	}
	if err := p.file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}

// LeafIndex returns the leaf column index of the top-level column name, or
// -1 when the file has no such column.
func (f *ParquetFile) LeafIndex(name string) int {
	return f.rdr.MetaData().Schema.ColumnIndexByName(name)
}

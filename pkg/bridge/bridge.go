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
	"errors"

	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/arrowarc/pqbridge/integrations/filesystem"
	"github.com/arrowarc/pqbridge/pkg/common/config"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Bridge is the boundary a host calls through. Every method either returns
// its result and a nil error, or the zero value (0 handle, nil array, nil
// list) and an *Exception.
//
// Calls on distinct handles may run concurrently; calls on one handle must
// be serialized by the caller.
type Bridge struct {
	cfg    *config.Config
	logger log.Logger
	mem    memory.Allocator

	readers *registry[*readerSession]
	columns *registry[*columnStream]
	writers *registry[*rowWriter]
}

type Option func(*Bridge)

// WithAllocator makes every engine reader, writer and row batch allocate
// from mem instead of the shared pool.
func WithAllocator(mem memory.Allocator) Option {
	return func(b *Bridge) { b.mem = mem }
}

// New returns a Bridge. A nil cfg uses config.Default(); a nil logger
// discards output.
func New(cfg *config.Config, logger log.Logger, opts ...Option) *Bridge {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	b := &Bridge{
		cfg:     cfg,
		logger:  log.With(logger, "component", "bridge"),
		readers: newRegistry[*readerSession](classReader),
		columns: newRegistry[*columnStream](classColumn),
		writers: newRegistry[*rowWriter](classWriter),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bridge) raise(op string, err error) error {
	return raise(b.logger, op, err)
}

func (b *Bridge) readOptions() *filesystem.ParquetReadOptions {
	return &filesystem.ParquetReadOptions{
		MemoryMap: b.cfg.Reader.MemoryMap,
		Parallel:  b.cfg.Reader.Parallel,
		BatchSize: b.cfg.Reader.BatchSize,
		Allocator: b.mem,
	}
}

func (b *Bridge) writeOptions() *filesystem.ParquetWriteOptions {
	return &filesystem.ParquetWriteOptions{
		Compression:       b.cfg.Writer.Codec(),
		MaxRowGroupLength: b.cfg.Writer.MaxRowGroupLength,
		DataPageSize:      b.cfg.Writer.DataPageSize,
		CreatedBy:         b.cfg.Writer.CreatedBy,
		Allocator:         b.mem,
	}
}

func (b *Bridge) builderAllocator() memory.Allocator {
	if b.mem != nil {
		return b.mem
	}
	return memory.DefaultAllocator
}

// OpenReader opens path for reading and validates its footer.
func (b *Bridge) OpenReader(path string) (h Handle, err error) {
	const op = "open_reader"
	defer recoverTo(b.logger, op, &err)

	r, err := openReaderSession(path, b.readOptions())
	if err != nil {
		return 0, b.raise(op, err)
	}
	h = b.readers.insert(r)
	level.Debug(b.logger).Log("msg", "reader opened", "handle", h, "path", path)
	return h, nil
}

// CloseReader releases the reader behind h. Closing 0 does nothing. Column
// streams opened from the reader stay valid.
func (b *Bridge) CloseReader(h Handle) (err error) {
	const op = "close_reader"
	defer recoverTo(b.logger, op, &err)

	r, ok, err := b.readers.remove(op, h)
	if err != nil {
		return b.raise(op, err)
	}
	if !ok {
		return nil
	}
	if err := r.close(); err != nil {
		return b.raise(op, err)
	}
	level.Debug(b.logger).Log("msg", "reader closed", "handle", h)
	return nil
}

// Columns returns the reader's field names in storage order.
func (b *Bridge) Columns(h Handle) (names []string, err error) {
	const op = "get_columns"
	defer recoverTo(b.logger, op, &err)

	r, release, err := b.readers.acquire(op, h)
	if err != nil {
		return nil, b.raise(op, err)
	}
	defer release()

	names, err = r.columns()
	if err != nil {
		return nil, b.raise(op, err)
	}
	return names, nil
}

// ColumnKinds returns the storage kind of every field, Null for fields the
// bridge cannot transcode.
func (b *Bridge) ColumnKinds(h Handle) (kinds []Kind, err error) {
	const op = "column_kinds"
	defer recoverTo(b.logger, op, &err)

	r, release, err := b.readers.acquire(op, h)
	if err != nil {
		return nil, b.raise(op, err)
	}
	defer release()

	kinds, err = r.kinds()
	if err != nil {
		return nil, b.raise(op, err)
	}
	return kinds, nil
}

// NumRows returns the row count recorded in the file footer.
func (b *Bridge) NumRows(h Handle) (n int64, err error) {
	const op = "num_rows"
	defer recoverTo(b.logger, op, &err)

	r, release, err := b.readers.acquire(op, h)
	if err != nil {
		return 0, b.raise(op, err)
	}
	defer release()
	return r.numRows(), nil
}

// ReadColumn returns the whole of column name as one host array.
func (b *Bridge) ReadColumn(h Handle, name string) (out any, err error) {
	const op = "read_column"
	defer recoverTo(b.logger, op, &err)

	r, release, err := b.readers.acquire(op, h)
	if err != nil {
		return nil, b.raise(op, err)
	}
	defer release()

	out, err = r.readColumn(name)
	if err != nil {
		return nil, b.raise(op, err)
	}
	return out, nil
}

// OpenColumn starts a stream over column name of the reader's file. The
// stream reads its own copy of the file.
func (b *Bridge) OpenColumn(reader Handle, name string) (h Handle, err error) {
	const op = "open_column"
	defer recoverTo(b.logger, op, &err)

	r, release, err := b.readers.acquire(op, reader)
	if err != nil {
		return 0, b.raise(op, err)
	}
	defer release()

	stream, err := r.openStream(name, b.cfg.Reader.SkipUnsupported)
	if err != nil {
		return 0, b.raise(op, err)
	}
	h = b.columns.insert(stream)
	level.Debug(b.logger).Log("msg", "column opened", "handle", h, "reader", reader, "column", name)
	return h, nil
}

// ColumnNext returns the next batch of the column as a host array, or nil
// once the stream is exhausted.
func (b *Bridge) ColumnNext(h Handle) (out any, err error) {
	const op = "column_next"
	defer recoverTo(b.logger, op, &err)

	c, release, err := b.columns.acquire(op, h)
	if err != nil {
		return nil, b.raise(op, err)
	}
	defer release()

	out, err = c.advance()
	if err != nil {
		return nil, b.raise(op, err)
	}
	return out, nil
}

// CloseColumn releases the stream behind h from any state. Closing 0 does nothing.
func (b *Bridge) CloseColumn(h Handle) (err error) {
	const op = "close_column"
	defer recoverTo(b.logger, op, &err)

	c, ok, err := b.columns.remove(op, h)
	if err != nil {
		return b.raise(op, err)
	}
	if !ok {
		return nil
	}
	if err := c.close(); err != nil {
		return b.raise(op, err)
	}
	level.Debug(b.logger).Log("msg", "column closed", "handle", h, "column", c.name, "state", c.state, "batches", c.batches, "rows", c.rows)
	return nil
}

// OpenWriter creates path with a schema derived from fields, in order.
func (b *Bridge) OpenWriter(path string, fields []FieldSpec) (h Handle, err error) {
	const op = "open_writer"
	defer recoverTo(b.logger, op, &err)

	schema, err := BuildSchema(fields)
	if err != nil {
		return 0, b.raise(op, err)
	}
	if degraded := schema.Degraded(); len(degraded) > 0 {
		if b.cfg.Writer.StrictSchema {
			return 0, b.raise(op, newError(KindUnsupportedType, op, "fields %q have unrecognised type tokens", degraded))
		}
		level.Warn(b.logger).Log("msg", "fields declared without a storage type", "path", path, "fields", len(degraded), "names", degraded)
	}

	w, err := openRowWriter(path, schema, b.writeOptions(), b.builderAllocator())
	if err != nil {
		return 0, b.raise(op, err)
	}
	h = b.writers.insert(w)
	level.Debug(b.logger).Log("msg", "writer opened", "handle", h, "path", path, "fields", schema.Len())
	return h, nil
}

// WriteRow appends one batch assembled from values.
func (b *Bridge) WriteRow(h Handle, values map[string]any) (err error) {
	const op = "write_row"
	defer recoverTo(b.logger, op, &err)

	w, release, err := b.writers.acquire(op, h)
	if err != nil {
		return b.raise(op, err)
	}
	defer release()

	if err := w.writeRow(values); err != nil {
		return b.raise(op, err)
	}
	return nil
}

// DegradedFields lists the writer's fields that were declared with an
// unrecognised type token and therefore hold no typed data.
func (b *Bridge) DegradedFields(h Handle) (names []string, err error) {
	const op = "degraded_fields"
	defer recoverTo(b.logger, op, &err)

	w, release, err := b.writers.acquire(op, h)
	if err != nil {
		return nil, b.raise(op, err)
	}
	defer release()
	return w.schema.Degraded(), nil
}

// CloseWriter flushes and closes the writer behind h. The handle is retired
// even when the flush fails, so a failed close cannot be retried.
func (b *Bridge) CloseWriter(h Handle) (err error) {
	const op = "close_writer"
	defer recoverTo(b.logger, op, &err)

	w, ok, err := b.writers.remove(op, h)
	if err != nil {
		return b.raise(op, err)
	}
	if !ok {
		return nil
	}
	rows := w.sink.Rows()
	if err := w.close(); err != nil {
		return b.raise(op, err)
	}
	level.Debug(b.logger).Log("msg", "writer closed", "handle", h, "rows", rows)
	return nil
}

// Live reports how many reader, column and writer handles are open.
func (b *Bridge) Live() (readers, columns, writers int) {
	return b.readers.len(), b.columns.len(), b.writers.len()
}

// Shutdown closes every open handle: columns first, then readers, then
// writers. Handles issued before Shutdown are invalid afterwards.
func (b *Bridge) Shutdown() error {
	var errs []error
	for _, c := range b.columns.drain() {
		errs = append(errs, c.close())
	}
	for _, r := range b.readers.drain() {
		errs = append(errs, r.close())
	}
	for _, w := range b.writers.drain() {
		errs = append(errs, w.close())
	}
	if err := errors.Join(errs...); err != nil {
		level.Error(b.logger).Log("msg", "shutdown left errors", "err", err)
		return err
	}
	return nil
}

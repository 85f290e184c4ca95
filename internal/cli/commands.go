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

// Package cli implements the pqbridge commands shared by the command line
// and the interactive menu.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arrowarc/pqbridge/generator"
	"github.com/arrowarc/pqbridge/integrations/filesystem"
	"github.com/arrowarc/pqbridge/internal/arrio"
	"github.com/arrowarc/pqbridge/internal/json"
	"github.com/arrowarc/pqbridge/internal/pipeline"
	"github.com/arrowarc/pqbridge/internal/ui"
	"github.com/arrowarc/pqbridge/pkg/bridge"
	"github.com/arrowarc/pqbridge/pkg/common/config"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Runner executes commands against one Bridge. Output goes to Out; the
// menu reads its prompts from In.
type Runner struct {
	Bridge *bridge.Bridge
	Config *config.Config
	Logger log.Logger
	In     io.Reader
	Out    io.Writer
}

func NewRunner(cfg *config.Config, logger log.Logger, in io.Reader, out io.Writer) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Runner{
		Bridge: bridge.New(cfg, logger),
		Config: cfg,
		Logger: logger,
		In:     in,
		Out:    out,
	}
}

// NewLogger returns a logfmt logger on w that drops records below lvl.
func NewLogger(w io.Writer, lvl string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	var opt level.Option
	switch strings.ToLower(lvl) {
	case "debug":
		opt = level.AllowDebug()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		opt = level.AllowInfo()
	}
	return level.NewFilter(logger, opt)
}

// Close closes every handle the runner still holds.
func (r *Runner) Close() error {
	return r.Bridge.Shutdown()
}

// ParseSchema parses "name:Token,name:Token" into writer fields.
func ParseSchema(spec string) ([]bridge.FieldSpec, error) {
	var fields []bridge.FieldSpec
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, token, ok := strings.Cut(part, ":")
		if !ok || name == "" || token == "" {
			return nil, fmt.Errorf("invalid field %q, want name:Token", part)
		}
		fields = append(fields, bridge.FieldSpec{Name: name, Token: bridge.TypeToken(token)})
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("schema %q declares no fields", spec)
	}
	return fields, nil
}

// Columns prints every column of path with its storage kind and the row count.
func (r *Runner) Columns(path string) error {
	h, err := r.Bridge.OpenReader(path)
	if err != nil {
		return err
	}
	defer r.Bridge.CloseReader(h)

	names, err := r.Bridge.Columns(h)
	if err != nil {
		return err
	}
	kinds, err := r.Bridge.ColumnKinds(h)
	if err != nil {
		return err
	}
	rows, err := r.Bridge.NumRows(h)
	if err != nil {
		return err
	}

	fmt.Fprintln(r.Out, ui.HeaderStyle.Render(fmt.Sprintf("%s: %d rows", path, rows)))
	for i, name := range names {
		kind := kinds[i].String()
		if kinds[i] == bridge.Null {
			kind = "unsupported"
		}
		fmt.Fprintf(r.Out, "%s\t%s\n", name, kind)
	}
	return nil
}

// Cat prints column name of path one batch per line as a JSON array.
func (r *Runner) Cat(path, column string) error {
	h, err := r.Bridge.OpenReader(path)
	if err != nil {
		return err
	}
	defer r.Bridge.CloseReader(h)

	it, err := r.Bridge.IterateColumn(h, column)
	if err != nil {
		return err
	}
	defer it.Close()

	enc := json.NewEncoder(r.Out)
	batches := 0
	for it.HasNext() {
		if err := enc.Encode(it.Next()); err != nil {
			return fmt.Errorf("failed to encode batch %d: %w", batches, err)
		}
		batches++
	}
	if err := it.Err(); err != nil {
		return err
	}
	level.Debug(r.Logger).Log("msg", "column printed", "path", path, "column", column, "batches", batches)
	return nil
}

// Read prints the whole of column name of path as one JSON array.
func (r *Runner) Read(path, column string) error {
	h, err := r.Bridge.OpenReader(path)
	if err != nil {
		return err
	}
	defer r.Bridge.CloseReader(h)

	out, err := r.Bridge.ReadColumn(h, column)
	if err != nil {
		return err
	}
	return json.NewEncoder(r.Out).Encode(out)
}

// Write creates path with the fields of schema and writes one batch per JSON
// object read from rows. It returns the number of objects written.
func (r *Runner) Write(path, schema string, rows io.Reader) (int, error) {
	fields, err := ParseSchema(schema)
	if err != nil {
		return 0, err
	}
	h, err := r.Bridge.OpenWriter(path, fields)
	if err != nil {
		return 0, err
	}

	dec := json.NewRowDecoder(rows)
	n := 0
	for {
		row, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			r.Bridge.CloseWriter(h)
			return n, fmt.Errorf("failed to decode row %d: %w", n+1, err)
		}
		if err := r.Bridge.WriteRow(h, row); err != nil {
			r.Bridge.CloseWriter(h)
			return n, fmt.Errorf("row %d: %w", n+1, err)
		}
		n++
	}
	if err := r.Bridge.CloseWriter(h); err != nil {
		return n, err
	}
	level.Info(r.Logger).Log("msg", "file written", "path", path, "rows", n)
	return n, nil
}

type exportWriter interface {
	arrio.Writer
	io.Closer
	Rows() int64
}

// Export copies every record of path to out as JSON lines or CSV. An empty
// out writes JSON lines to the runner's output.
func (r *Runner) Export(ctx context.Context, path, out, format string) (int64, error) {
	rdr, err := filesystem.NewParquetReader(ctx, path, nil, &filesystem.ParquetReadOptions{
		MemoryMap: r.Config.Reader.MemoryMap,
		Parallel:  r.Config.Reader.Parallel,
		BatchSize: r.Config.Reader.BatchSize,
	})
	if err != nil {
		return 0, err
	}
	defer rdr.Close()

	var dst exportWriter
	switch strings.ToLower(format) {
	case "", "jsonl", "json":
		if out == "" {
			dst = filesystem.NewJSONLinesWriter(r.Out)
		} else if dst, err = filesystem.CreateJSONLinesFile(out); err != nil {
			return 0, err
		}
	case "csv":
		if out == "" {
			return 0, fmt.Errorf("csv export needs an output path")
		}
		if dst, err = filesystem.NewCSVWriter(out, rdr.Schema(), nil); err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("unknown export format %q", format)
	}

	metrics, err := pipeline.NewDataPipeline(rdr, dst, r.Logger, 4).Start(ctx)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, err
	}
	level.Info(r.Logger).Log("msg", "file exported", "path", path, "out", out, "format", format,
		"batches", metrics.Records, "rows", metrics.Rows, "duration", metrics.Duration())
	return dst.Rows(), nil
}

// Generate writes a sample file of rows rows in row groups of batch rows.
func (r *Runner) Generate(path string, rows, batch int) error {
	if _, err := generator.GenerateParquetFile(path, rows, batch); err != nil {
		return err
	}
	level.Info(r.Logger).Log("msg", "sample file generated", "path", path, "rows", rows)
	return nil
}

// ExecuteCommand runs the menu entry named choice, prompting on In.
func (r *Runner) ExecuteCommand(choice string) error {
	switch choice {
	case "List Columns":
		return r.Columns(r.prompt("Enter the path of the Parquet file: "))
	case "Read Column":
		path := r.prompt("Enter the path of the Parquet file: ")
		return r.Cat(path, r.prompt("Enter the column name: "))
	case "Export to JSON":
		path := r.prompt("Enter the path of the Parquet file: ")
		_, err := r.Export(context.Background(), path, r.prompt("Enter the path for the output JSON file: "), "jsonl")
		return err
	case "Export to CSV":
		path := r.prompt("Enter the path of the Parquet file: ")
		_, err := r.Export(context.Background(), path, r.prompt("Enter the path for the output CSV file: "), "csv")
		return err
	case "Generate Parquet":
		return r.Generate(r.prompt("Enter the path for the new Parquet file: "), 1000, 100)
	default:
		return fmt.Errorf("unknown command: %s", choice)
	}
}

func (r *Runner) prompt(text string) string {
	fmt.Fprint(r.Out, text)
	var answer string
	fmt.Fscanln(r.input(), &answer)
	return answer
}

func (r *Runner) input() io.Reader {
	if r.In != nil {
		return r.In
	}
	return os.Stdin
}

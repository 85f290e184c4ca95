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

package filesystem

import (
	"fmt"
	"os"
	"strconv"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/csv"
)

// CSVWriteOptions controls the layout of exported CSV files.
type CSVWriteOptions struct {
	Delimiter     rune
	IncludeHeader bool
	NullValue     string
}

func NewDefaultCSVWriteOptions() *CSVWriteOptions {
	return &CSVWriteOptions{Delimiter: ',', IncludeHeader: true}
}

// CSVWriter implements arrio.Writer for writing records to a CSV file.
type CSVWriter struct {
	writer *csv.Writer
	file   *os.File
	rows   int64
}

// NewCSVWriter creates filePath and writes records of schema to it.
func NewCSVWriter(filePath string, schema *arrow.Schema, opts *CSVWriteOptions) (*CSVWriter, error) {
	if opts == nil {
		opts = NewDefaultCSVWriteOptions()
	}
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV file: %w", err)
	}

	writer := csv.NewWriter(file, schema,
		csv.WithComma(opts.Delimiter),
		csv.WithHeader(opts.IncludeHeader),
		csv.WithNullWriter(opts.NullValue),
		csv.WithBoolWriter(strconv.FormatBool),
	)
	return &CSVWriter{writer: writer, file: file}, nil
}

// Write writes a record to the CSV file.
func (w *CSVWriter) Write(record arrow.Record) error {
	if err := w.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write record to CSV: %w", err)
	}
	if err := w.writer.Error(); err != nil {
		return fmt.Errorf("CSV writer encountered an error: %w", err)
	}
	w.rows += record.NumRows()
	return nil
}

// Rows reports how many rows were written.
func (w *CSVWriter) Rows() int64 { return w.rows }

// Close flushes the CSV writer and closes the file.
func (w *CSVWriter) Close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to flush CSV output: %w", err)
	}
	return w.file.Close()
}

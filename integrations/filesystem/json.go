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
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/arrowarc/pqbridge/internal/json"
)

// JSONLinesWriter writes every row of the records it receives as one JSON
// object per line. It implements arrio.Writer.
type JSONLinesWriter struct {
	w    *bufio.Writer
	enc  *json.Encoder
	file *os.File
	rows int64
}

// NewJSONLinesWriter writes to w. It does not own w.
func NewJSONLinesWriter(w io.Writer) *JSONLinesWriter {
	bw := bufio.NewWriter(w)
	return &JSONLinesWriter{w: bw, enc: json.NewEncoder(bw)}
}

// CreateJSONLinesFile creates filePath and writes to it; Close closes it.
func CreateJSONLinesFile(filePath string) (*JSONLinesWriter, error) {
	f, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create JSON file: %w", err)
	}
	jw := NewJSONLinesWriter(f)
	jw.file = f
	return jw, nil
}

func (j *JSONLinesWriter) Write(record arrow.Record) error {
	schema := record.Schema()
	row := make(map[string]any, record.NumCols())
	for i := 0; i < int(record.NumRows()); i++ {
		for c, col := range record.Columns() {
			row[schema.Field(c).Name] = col.GetOneForMarshal(i)
		}
		if err := j.enc.Encode(row); err != nil {
			return fmt.Errorf("failed to encode row %d: %w", j.rows, err)
		}
		j.rows++
	}
	return nil
}

// Rows reports how many rows were written.
func (j *JSONLinesWriter) Rows() int64 { return j.rows }

func (j *JSONLinesWriter) Close() error {
	if err := j.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush JSON output: %w", err)
	}
	if j.file != nil {
		return j.file.Close()
	}
	return nil
}

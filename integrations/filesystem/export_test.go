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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arrowarc/pqbridge/generator"
	"github.com/arrowarc/pqbridge/internal/arrio"
	"github.com/arrowarc/pqbridge/internal/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportJSONLines(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "sample.parquet")
	sample, err := generator.GenerateParquetFile(filePath, 40, 16)
	require.NoError(t, err)

	rdr, err := NewParquetReader(context.Background(), filePath, nil, &ParquetReadOptions{BatchSize: 16})
	require.NoError(t, err)
	defer rdr.Close()

	var buf bytes.Buffer
	jw := NewJSONLinesWriter(&buf)
	n, err := arrio.Copy(jw, rdr)
	require.NoError(t, err)
	require.NoError(t, jw.Close())
	assert.Equal(t, int64(3), n, "40 rows in batches of 16")
	assert.Equal(t, int64(40), jw.Rows())

	scanner := bufio.NewScanner(&buf)
	var i int
	for scanner.Scan() {
		var row map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &row))
		assert.Equal(t, float64(sample[i].ID), row["id"])
		assert.Equal(t, sample[i].Name, row["name"])
		assert.Equal(t, sample[i].Flag, row["flag"])
		i++
	}
	assert.Equal(t, 40, i)
}

func TestExportCSV(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "sample.parquet")
	_, err := generator.GenerateParquetFile(filePath, 25, 10)
	require.NoError(t, err)

	rdr, err := NewParquetReader(context.Background(), filePath, nil, nil)
	require.NoError(t, err)
	defer rdr.Close()

	out := filepath.Join(dir, "sample.csv")
	cw, err := NewCSVWriter(out, rdr.Schema(), nil)
	require.NoError(t, err)
	_, err = arrio.Copy(cw, rdr)
	require.NoError(t, err)
	require.NoError(t, cw.Close())
	assert.Equal(t, int64(25), cw.Rows())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 26, "header plus one line per row")
	assert.Equal(t, "flag,tiny,small,id,big,ratio,score,octet,name", lines[0])
}

func TestCreateJSONLinesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.jsonl")
	jw, err := CreateJSONLinesFile(out)
	require.NoError(t, err)
	require.NoError(t, jw.Close())

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Zero(t, info.Size())

	_, err = CreateJSONLinesFile(filepath.Join(t.TempDir(), "no", "such", "dir.jsonl"))
	assert.Error(t, err)
}

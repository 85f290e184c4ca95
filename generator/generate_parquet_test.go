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

package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParquetFile(t *testing.T) {
	t.Parallel()
	tests := []struct {
		numRows      int
		rowsPerGroup int
		wantGroups   int
		description  string
	}{
		{numRows: 10, rowsPerGroup: 100, wantGroups: 1, description: "Generate single row group"},
		{numRows: 1000, rowsPerGroup: 300, wantGroups: 4, description: "Generate several row groups"},
		{numRows: 0, rowsPerGroup: 10, wantGroups: 0, description: "Generate empty file"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.description, func(t *testing.T) {
			t.Parallel()

			filePath := filepath.Join(t.TempDir(), "sample.parquet")
			rows, err := GenerateParquetFile(filePath, test.numRows, test.rowsPerGroup)
			require.NoError(t, err, "Error should be nil when generating Parquet file")
			require.Len(t, rows, test.numRows)
			for i, row := range rows {
				assert.Equal(t, int32(i), row.ID, "ids count up from zero")
			}

			// check the file with a second Parquet implementation
			f, err := os.Open(filePath)
			require.NoError(t, err)
			defer f.Close()
			info, err := f.Stat()
			require.NoError(t, err)
			pf, err := parquet.OpenFile(f, info.Size())
			require.NoError(t, err)
			assert.Equal(t, int64(test.numRows), pf.NumRows())
			if test.numRows > 0 {
				assert.Len(t, pf.RowGroups(), test.wantGroups)
			}
			assert.Len(t, pf.Root().Columns(), SampleSchema.NumFields())
		})
	}
}

func TestGenerateParquetFileInvalidSizes(t *testing.T) {
	dir := t.TempDir()
	_, err := GenerateParquetFile(filepath.Join(dir, "a.parquet"), -1, 10)
	assert.Error(t, err)
	_, err = GenerateParquetFile(filepath.Join(dir, "b.parquet"), 10, 0)
	assert.Error(t, err)
}

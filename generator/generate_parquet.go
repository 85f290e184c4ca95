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

// Package generator writes sample Parquet files covering every storage kind
// the bridge transcodes, plus one string column it does not.
package generator

import (
	"fmt"
	"os"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/compress"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
	"github.com/go-faker/faker/v4"
)

// SampleRow is one generated row. Field order matches SampleSchema.
type SampleRow struct {
	Flag  bool
	Tiny  int8
	Small int16
	ID    int32
	Big   int64
	Ratio float32
	Score float64
	Octet uint8
	Name  string `faker:"name"`
}

// SampleSchema is the schema of every generated file.
var SampleSchema = arrow.NewSchema([]arrow.Field{
	{Name: "flag", Type: arrow.FixedWidthTypes.Boolean},
	{Name: "tiny", Type: arrow.PrimitiveTypes.Int8},
	{Name: "small", Type: arrow.PrimitiveTypes.Int16},
	{Name: "id", Type: arrow.PrimitiveTypes.Int32},
	{Name: "big", Type: arrow.PrimitiveTypes.Int64},
	{Name: "ratio", Type: arrow.PrimitiveTypes.Float32},
	{Name: "score", Type: arrow.PrimitiveTypes.Float64},
	{Name: "octet", Type: arrow.PrimitiveTypes.Uint8},
	{Name: "name", Type: arrow.BinaryTypes.String},
}, nil)

// GenerateParquetFile writes numRows random rows to filePath in row groups
// of rowsPerGroup rows and returns the rows in file order. The id column
// counts up from 0 so tests can check ordering.
func GenerateParquetFile(filePath string, numRows, rowsPerGroup int) ([]SampleRow, error) {
	if numRows < 0 || rowsPerGroup <= 0 {
		return nil, fmt.Errorf("invalid sizes: %d rows, %d rows per group", numRows, rowsPerGroup)
	}
	mem := memory.NewGoAllocator()

	rows := make([]SampleRow, numRows)
	for i := range rows {
		if err := faker.FakeData(&rows[i]); err != nil {
			return nil, fmt.Errorf("failed to generate row %d: %w", i, err)
		}
		rows[i].ID = int32(i)
	}

	outputFile, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer outputFile.Close()

	writerProps := parquet.NewWriterProperties(
		parquet.WithAllocator(mem),
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithMaxRowGroupLength(int64(rowsPerGroup)),
	)
	parquetWriter, err := pqarrow.NewFileWriter(SampleSchema, outputFile, writerProps,
		pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema()))
	if err != nil {
		return nil, fmt.Errorf("failed to create Parquet writer: %w", err)
	}

	for start := 0; start < numRows; start += rowsPerGroup {
		end := min(start+rowsPerGroup, numRows)
		record := buildRecord(mem, rows[start:end])
		err := parquetWriter.Write(record)
		record.Release()
		if err != nil {
			parquetWriter.Close()
			return nil, fmt.Errorf("failed to write records to Parquet: %w", err)
		}
	}

	if err := parquetWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close Parquet writer: %w", err)
	}
	return rows, nil
}

func buildRecord(mem memory.Allocator, rows []SampleRow) arrow.Record {
	bldr := array.NewRecordBuilder(mem, SampleSchema)
	defer bldr.Release()

	flag := bldr.Field(0).(*array.BooleanBuilder)
	tiny := bldr.Field(1).(*array.Int8Builder)
	small := bldr.Field(2).(*array.Int16Builder)
	id := bldr.Field(3).(*array.Int32Builder)
	big := bldr.Field(4).(*array.Int64Builder)
	ratio := bldr.Field(5).(*array.Float32Builder)
	score := bldr.Field(6).(*array.Float64Builder)
	octet := bldr.Field(7).(*array.Uint8Builder)
	name := bldr.Field(8).(*array.StringBuilder)

	for _, r := range rows {
		flag.Append(r.Flag)
		tiny.Append(r.Tiny)
		small.Append(r.Small)
		id.Append(r.ID)
		big.Append(r.Big)
		ratio.Append(r.Ratio)
		score.Append(r.Score)
		octet.Append(r.Octet)
		name.Append(r.Name)
	}
	return bldr.NewRecord()
}

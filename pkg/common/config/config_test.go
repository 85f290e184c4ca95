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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v17/parquet/compress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pqbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, int64(64*1024), cfg.Reader.BatchSize)
	assert.Equal(t, compress.Codecs.Snappy, cfg.Writer.Codec())
	assert.False(t, cfg.Reader.SkipUnsupported)
}

func TestParseConfigOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
reader:
  batch_size: 128
  skip_unsupported: true
writer:
  compression: ZSTD
  strict_schema: true
logging:
  level: debug
`)
	cfg, err := ParseConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, int64(128), cfg.Reader.BatchSize)
	assert.True(t, cfg.Reader.SkipUnsupported)
	assert.Equal(t, compress.Codecs.Zstd, cfg.Writer.Codec())
	assert.True(t, cfg.Writer.StrictSchema)
	assert.Equal(t, int64(64*1024), cfg.Writer.MaxRowGroupLength, "unset keys keep their defaults")
	assert.Equal(t, "pqbridge", cfg.Writer.CreatedBy)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestParseConfigErrors(t *testing.T) {
	_, err := ParseConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParseConfig(writeConfig(t, "reader:\n  batch_sise: 10\n"))
	assert.Error(t, err, "unknown keys are rejected")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		description string
		mutate      func(*Config)
		wantErr     string
	}{
		{"zero batch size", func(c *Config) { c.Reader.BatchSize = 0 }, "reader.batch_size"},
		{"unknown codec", func(c *Config) { c.Writer.Compression = "lzo" }, "writer.compression"},
		{"lz4raw codec", func(c *Config) { c.Writer.Compression = "lz4raw" }, "writer.compression"},
		{"lz4 codec", func(c *Config) { c.Writer.Compression = "lz4" }, "writer.compression"},
		{"zero row group", func(c *Config) { c.Writer.MaxRowGroupLength = 0 }, "writer.max_row_group_length"},
		{"negative page size", func(c *Config) { c.Writer.DataPageSize = -1 }, "writer.data_page_size"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			cfg := Default()
			test.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.wantErr)
		})
	}
}

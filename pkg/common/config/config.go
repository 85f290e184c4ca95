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

// Package config provides configuration for the bridge and its command line tools.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/apache/arrow/go/v17/parquet/compress"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Reader  ReaderSettings  `yaml:"reader"`
	Writer  WriterSettings  `yaml:"writer"`
	Logging LoggingSettings `yaml:"logging"`
}

type ReaderSettings struct {
	BatchSize       int64 `yaml:"batch_size"`
	MemoryMap       bool  `yaml:"memory_map"`
	Parallel        bool  `yaml:"parallel"`
	SkipUnsupported bool  `yaml:"skip_unsupported"`
}

type WriterSettings struct {
	Compression       string `yaml:"compression"`
	MaxRowGroupLength int64  `yaml:"max_row_group_length"`
	DataPageSize      int64  `yaml:"data_page_size"`
	CreatedBy         string `yaml:"created_by"`
	StrictSchema      bool   `yaml:"strict_schema"`
}

type LoggingSettings struct {
	Level string `yaml:"level"`
}

var codecs = map[string]compress.Compression{
	"uncompressed": compress.Codecs.Uncompressed,
	"snappy":       compress.Codecs.Snappy,
	"gzip":         compress.Codecs.Gzip,
	"brotli":       compress.Codecs.Brotli,
	"zstd":         compress.Codecs.Zstd,
}

var levels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Default returns the settings used when no configuration file is given.
func Default() *Config {
	return &Config{
		Reader: ReaderSettings{
			BatchSize: 64 * 1024,
		},
		Writer: WriterSettings{
			Compression:       "snappy",
			MaxRowGroupLength: 64 * 1024,
			DataPageSize:      1024 * 1024,
			CreatedBy:         "pqbridge",
		},
		Logging: LoggingSettings{Level: "info"},
	}
}

// ParseConfig decodes the YAML file at configPath over the defaults.
func ParseConfig(configPath string) (*Config, error) {
	configFile, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer configFile.Close()

	config := Default()
	decoder := yaml.NewDecoder(configFile)
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", configPath, err)
	}
	return config, nil
}

func (c *Config) Validate() error {
	if err := c.validateReader(); err != nil {
		return err
	}
	if err := c.validateWriter(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateReader() error {
	if c.Reader.BatchSize <= 0 {
		return fmt.Errorf("reader.batch_size must be greater than 0")
	}
	return nil
}

func (c *Config) validateWriter() error {
	if _, ok := codecs[strings.ToLower(c.Writer.Compression)]; !ok {
		return fmt.Errorf("writer.compression %q is not supported", c.Writer.Compression)
	}
	if c.Writer.MaxRowGroupLength <= 0 {
		return fmt.Errorf("writer.max_row_group_length must be greater than 0")
	}
	if c.Writer.DataPageSize <= 0 {
		return fmt.Errorf("writer.data_page_size must be greater than 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !levels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}

// Codec returns the compression codec named by writer.compression.
// Unknown names fall back to snappy; Validate reports them.
func (w WriterSettings) Codec() compress.Compression {
	if codec, ok := codecs[strings.ToLower(w.Compression)]; ok {
		return codec
	}
	return compress.Codecs.Snappy
}

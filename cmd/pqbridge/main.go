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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/arrowarc/pqbridge/internal/cli"
	"github.com/arrowarc/pqbridge/pkg/common/config"
	"github.com/docopt/docopt-go"
	"github.com/go-kit/log/level"
	"github.com/joho/godotenv"
)

const usage = `pqbridge: read and write Parquet columns as primitive arrays.

Usage:
  pqbridge columns <file> [--config=<file>]
  pqbridge cat <file> --column=<name> [--config=<file>]
  pqbridge read <file> --column=<name> [--config=<file>]
  pqbridge write <file> --schema=<spec> [--rows=<jsonl>] [--config=<file>]
  pqbridge export <file> [--out=<path>] [--format=<fmt>] [--config=<file>]
  pqbridge generate <file> [--count=<n>] [--batch=<n>]
  pqbridge validate [--config=<file>]
  pqbridge menu [--config=<file>]
  pqbridge -h | --help

Options:
  -h --help          Show this screen.
  --config=<file>    YAML configuration file. Defaults to $PQBRIDGE_CONFIG.
  --column=<name>    Column to read.
  --schema=<spec>    Writer fields as name:Token,... with Token one of
                     Boolean, Byte, Short, Integer, Long, Float, Double.
  --rows=<jsonl>     JSON lines file with one row per line [default: -].
  --out=<path>       Export destination; JSON lines go to stdout when empty.
  --format=<fmt>     Export format, jsonl or csv [default: jsonl].
  --count=<n>        Number of sample rows to generate [default: 1000].
  --batch=<n>        Rows per generated row group [default: 100].
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv("PQBRIDGE_CONFIG")
	}
	cfg := config.Default()
	if path != "" {
		parsed, err := config.ParseConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		cfg = parsed
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func run() error {
	arguments, err := docopt.ParseDoc(usage)
	if err != nil {
		return fmt.Errorf("error parsing arguments: %w", err)
	}

	// a missing .env file is fine
	_ = godotenv.Load()

	configPath, _ := arguments.String("--config")
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if ok, _ := arguments.Bool("validate"); ok {
		fmt.Println("Configuration is valid.")
		return nil
	}

	logger := cli.NewLogger(os.Stderr, cfg.Logging.Level)
	runner := cli.NewRunner(cfg, logger, os.Stdin, os.Stdout)
	defer func() {
		if err := runner.Close(); err != nil {
			level.Error(logger).Log("msg", "failed to release handles", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	file, _ := arguments.String("<file>")
	column, _ := arguments.String("--column")

	switch {
	case is(arguments, "columns"):
		return runner.Columns(file)
	case is(arguments, "cat"):
		return runner.Cat(file, column)
	case is(arguments, "read"):
		return runner.Read(file, column)
	case is(arguments, "write"):
		schema, _ := arguments.String("--schema")
		rowsPath, _ := arguments.String("--rows")
		in := os.Stdin
		if rowsPath != "-" {
			if in, err = os.Open(rowsPath); err != nil {
				return err
			}
			defer in.Close()
		}
		_, err := runner.Write(file, schema, in)
		return err
	case is(arguments, "export"):
		out, _ := arguments.String("--out")
		format, _ := arguments.String("--format")
		_, err := runner.Export(ctx, file, out, format)
		return err
	case is(arguments, "generate"):
		count, err := arguments.Int("--count")
		if err != nil {
			return fmt.Errorf("invalid --count: %w", err)
		}
		batch, err := arguments.Int("--batch")
		if err != nil {
			return fmt.Errorf("invalid --batch: %w", err)
		}
		return runner.Generate(file, count, batch)
	case is(arguments, "menu"):
		return cli.RunMenu(runner)
	}
	return fmt.Errorf("no command given")
}

func is(arguments docopt.Opts, command string) bool {
	ok, _ := arguments.Bool(command)
	return ok
}

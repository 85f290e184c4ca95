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
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/arrowarc/pqbridge/internal/arrio"
)

type streamState uint8

const (
	// streamOpen: created, positioned before the first batch.
	streamOpen streamState = iota
	// streamActive: at least one batch has been yielded.
	streamActive
	// streamExhausted: the engine has no further batches.
	streamExhausted
)

func (s streamState) String() string {
	switch s {
	case streamOpen:
		return "open"
	case streamActive:
		return "active"
	case streamExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// columnStream pulls successive batches from its own reopened copy of the
// file and flattens one named column of each into a host array.
type columnStream struct {
	name            string
	state           streamState
	src             arrio.ReadCloser
	skipUnsupported bool
	batches         int
	rows            int64
}

// advance returns the next batch's column as a host array, or nil once the
// engine is exhausted. Exhaustion is sticky.
func (c *columnStream) advance() (any, error) {
	const op = "column_next"
	for c.state != streamExhausted {
		rec, err := c.src.Read()
		if errors.Is(err, io.EOF) {
			c.state = streamExhausted
			return nil, nil
		}
		if err != nil {
			return nil, wrapError(KindFormat, op, err)
		}
		c.state = streamActive
		out, err := c.flatten(op, rec)
		rec.Release()
		if err != nil {
			if c.skipUnsupported && errors.Is(err, ErrUnsupportedType) {
				continue
			}
			return nil, err
		}
		c.batches++
		return out, nil
	}
	return nil, nil
}

func (c *columnStream) flatten(op string, rec arrow.Record) (any, error) {
	col, kind, err := locate(op, rec, c.name)
	if err != nil {
		return nil, err
	}
	out, err := Flatten(kind, []arrow.Array{col})
	if err != nil {
		return nil, err
	}
	c.rows += int64(col.Len())
	return out, nil
}

func (c *columnStream) close() error {
	if err := c.src.Close(); err != nil {
		return wrapError(KindIO, "close_column", err)
	}
	return nil
}

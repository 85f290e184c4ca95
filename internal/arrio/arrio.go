// Package arrio defines the record stream interfaces shared by the engine
// adapter, the bridge sessions and the export path.
package arrio

import (
	"errors"
	"io"

	"github.com/apache/arrow/go/v17/arrow"
)

// Reader is the interface that wraps the Read method.
type Reader interface {
	// Read returns the next record. The caller owns the returned record and
	// must Release it. At the end of the stream Read returns (nil, io.EOF).
	Read() (arrow.Record, error)
}

// ReadCloser is a Reader that holds a file resource until Close.
type ReadCloser interface {
	Reader
	io.Closer
	Schema() *arrow.Schema
}

// Writer is the interface that wraps the Write method.
type Writer interface {
	Write(rec arrow.Record) error
}

// Copy copies all the records available from src to dst, releasing each one
// once written. It returns the number of records copied and the first error
// encountered, if any. Reaching io.EOF on src is not an error.
func Copy(dst Writer, src Reader) (n int64, err error) {
	for {
		rec, err := src.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			return n, err
		}
		err = dst.Write(rec)
		rec.Release()
		if err != nil {
			return n, err
		}
		n++
	}
}

// WriterFunc adapts a function to the Writer interface.
type WriterFunc func(rec arrow.Record) error

func (f WriterFunc) Write(rec arrow.Record) error { return f(rec) }

package bridge

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMatching(t *testing.T) {
	err := fmt.Errorf("context: %w", newError(KindKeyNotFound, "write_row", "field %q is not declared", "x"))
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.NotErrorIs(t, err, ErrShape)
	assert.Equal(t, KindKeyNotFound, ErrorKindOf(err))
	assert.Equal(t, ErrorKind(0), ErrorKindOf(errors.New("plain")))
	assert.Contains(t, err.Error(), `write_row: KeyNotFoundError: field "x" is not declared`)
}

func TestEngineError(t *testing.T) {
	pathErr := fmt.Errorf("failed to open Parquet file: %w", &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrNotExist})
	assert.Equal(t, KindIO, engineError("open_reader", pathErr).Kind)
	assert.Equal(t, KindFormat, engineError("open_reader", errors.New("invalid footer")).Kind)

	inner := newError(KindShape, "write_row", "bad")
	assert.Same(t, inner, engineError("write_row", inner), "classified errors keep their kind")
}

func TestRaise(t *testing.T) {
	logger := log.NewNopLogger()

	ex := raise(logger, "column_next", newError(KindNullHandle, "column_next", "null column handle"))
	assert.Equal(t, SignalInvalidArgument, ex.Signal)
	assert.ErrorIs(t, ex, ErrNullHandle)

	ex = raise(logger, "open_reader", newError(KindFormat, "open_reader", "bad magic"))
	assert.Equal(t, SignalRuntime, ex.Signal)
	assert.Equal(t, KindFormat, ex.Kind)

	assert.Same(t, ex, raise(logger, "again", ex), "exceptions are not wrapped twice")

	ex = raise(logger, "op", errors.New("unclassified"))
	assert.Equal(t, SignalRuntime, ex.Signal)
}

func TestRecoverTo(t *testing.T) {
	call := func() (err error) {
		defer recoverTo(log.NewNopLogger(), "boom", &err)
		panic("index out of range")
	}
	err := call()
	var ex *Exception
	require.ErrorAs(t, err, &ex)
	assert.Equal(t, SignalRuntime, ex.Signal)
	assert.Contains(t, ex.Message, "index out of range")
}

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
	"fmt"
	"io/fs"
)

// ErrorKind classifies every failure the bridge can report.
type ErrorKind uint8

const (
	KindIO ErrorKind = iota + 1
	KindFormat
	KindNullHandle
	KindUnsupportedType
	KindKeyNotFound
	KindShape
)

func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "IOError"
	case KindFormat:
		return "FormatError"
	case KindNullHandle:
		return "NullHandleError"
	case KindUnsupportedType:
		return "UnsupportedTypeError"
	case KindKeyNotFound:
		return "KeyNotFoundError"
	case KindShape:
		return "ShapeError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

// Sentinels for errors.Is. An *Error matches the sentinel of its kind.
var (
	ErrIO              = &Error{Kind: KindIO}
	ErrFormat          = &Error{Kind: KindFormat}
	ErrNullHandle      = &Error{Kind: KindNullHandle}
	ErrUnsupportedType = &Error{Kind: KindUnsupportedType}
	ErrKeyNotFound     = &Error{Kind: KindKeyNotFound}
	ErrShape           = &Error{Kind: KindShape}
)

// Error is a classified bridge failure.
type Error struct {
	Kind ErrorKind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels by kind, so errors.Is(err, ErrKeyNotFound) holds for
// any key-not-found failure regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

func newError(kind ErrorKind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func wrapError(kind ErrorKind, op string, err error) *Error {
	var be *Error
	if errors.As(err, &be) {
		return be
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// engineError classifies an error coming out of the Parquet engine: path
// failures are I/O, anything else is a format failure.
func engineError(op string, err error) *Error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return wrapError(KindIO, op, err)
	}
	return wrapError(KindFormat, op, err)
}

// ErrorKindOf reports the kind of err, or 0 when err is not a bridge error.
func ErrorKindOf(err error) ErrorKind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	var ex *Exception
	if errors.As(err, &ex) {
		return ex.Kind
	}
	return 0
}

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
	"runtime/debug"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Signal is the failure class a host sees when a boundary call raises.
type Signal string

const (
	// SignalInvalidArgument is raised for null, stale or foreign handles.
	SignalInvalidArgument Signal = "invalid_argument"
	// SignalRuntime is raised for every other failure.
	SignalRuntime Signal = "runtime_failure"
)

// Exception is the host-visible form of a failed boundary call.
type Exception struct {
	Signal  Signal
	Kind    ErrorKind
	Op      string
	Message string
	cause   error
}

func (e *Exception) Error() string {
	return fmt.Sprintf("%s: %s", e.Signal, e.Message)
}

func (e *Exception) Unwrap() error {
	return e.cause
}

func signalFor(kind ErrorKind) Signal {
	if kind == KindNullHandle {
		return SignalInvalidArgument
	}
	return SignalRuntime
}

// raise maps err onto the exception handed back across the boundary. Errors
// that never went through the taxonomy are reported as runtime failures.
func raise(logger log.Logger, op string, err error) *Exception {
	var ex *Exception
	if errors.As(err, &ex) {
		return ex
	}
	kind := ErrorKindOf(err)
	ex = &Exception{
		Signal:  signalFor(kind),
		Kind:    kind,
		Op:      op,
		Message: err.Error(),
		cause:   err,
	}
	level.Error(logger).Log("msg", "boundary call failed", "op", op, "kind", kind, "signal", ex.Signal, "err", err)
	return ex
}

// recoverTo turns a panic escaping a boundary call into a runtime exception
// stored in *errp. It must be deferred directly.
func recoverTo(logger log.Logger, op string, errp *error) {
	r := recover()
	if r == nil {
		return
	}
	level.Error(logger).Log("msg", "panic in boundary call", "op", op, "panic", r, "stack", string(debug.Stack()))
	*errp = &Exception{
		Signal:  SignalRuntime,
		Op:      op,
		Message: fmt.Sprintf("%s: internal error: %v", op, r),
	}
}

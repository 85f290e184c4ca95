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
	"fmt"
	"sync"
)

// Handle is the opaque 64-bit identifier a host holds for a live session.
// Zero never identifies a session.
//
// Layout, high to low: 2 bits of object class, 30 bits of generation,
// 32 bits of slot index. A slot's generation is bumped when it is freed, so
// a handle kept after close no longer matches and is rejected.
type Handle uint64

const (
	genBits   = 30
	genMask   = 1<<genBits - 1
	indexMask = 1<<32 - 1
)

// class tags the kind of object a handle refers to, so a column handle
// cannot be passed where a reader handle is expected.
type class uint8

const (
	classReader class = iota + 1
	classColumn
	classWriter
)

func (c class) String() string {
	switch c {
	case classReader:
		return "reader"
	case classColumn:
		return "column"
	case classWriter:
		return "writer"
	default:
		return "unknown"
	}
}

func packHandle(c class, gen uint32, index uint32) Handle {
	return Handle(uint64(c)<<62 | uint64(gen&genMask)<<32 | uint64(index))
}

func (h Handle) unpack() (c class, gen uint32, index uint32) {
	return class(h >> 62), uint32(h>>32) & genMask, uint32(h & indexMask)
}

func (h Handle) String() string {
	c, gen, index := h.unpack()
	return fmt.Sprintf("%s:%d.%d", c, index, gen)
}

type slot[T any] struct {
	gen   uint32
	live  bool
	guard guard
	val   T
}

// registry is a slot map from handles to exclusively owned objects of one
// class. The table lock only protects the slot table itself; operations on
// the objects run outside it, one caller per handle.
type registry[T any] struct {
	class class
	mu    sync.Mutex
	slots []*slot[T]
	free  []uint32
}

func newRegistry[T any](c class) *registry[T] {
	return &registry[T]{class: c}
}

// insert stores val and returns its fresh, non-zero handle.
func (r *registry[T]) insert(val T) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	var index uint32
	if n := len(r.free); n > 0 {
		index = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		index = uint32(len(r.slots))
		r.slots = append(r.slots, &slot[T]{gen: 1})
	}
	s := r.slots[index]
	s.live = true
	s.val = val
	return packHandle(r.class, s.gen, index)
}

func (r *registry[T]) lookupLocked(op string, h Handle) (*slot[T], error) {
	if h == 0 {
		return nil, newError(KindNullHandle, op, "null %s handle", r.class)
	}
	c, gen, index := h.unpack()
	if c != r.class {
		return nil, newError(KindNullHandle, op, "handle %#x is not a %s handle", uint64(h), r.class)
	}
	if int(index) >= len(r.slots) {
		return nil, newError(KindNullHandle, op, "%s handle %#x was never issued", r.class, uint64(h))
	}
	s := r.slots[index]
	if !s.live || s.gen != gen {
		return nil, newError(KindNullHandle, op, "%s handle %#x is closed", r.class, uint64(h))
	}
	return s, nil
}

// acquire resolves h and marks it in use until the returned release is
// called. Concurrent use of one handle is a caller error; the guard reports
// it in debug builds.
func (r *registry[T]) acquire(op string, h Handle) (T, func(), error) {
	r.mu.Lock()
	s, err := r.lookupLocked(op, h)
	r.mu.Unlock()
	if err != nil {
		var zero T
		return zero, nil, err
	}
	if err := s.guard.enter(op, h); err != nil {
		var zero T
		return zero, nil, err
	}
	return s.val, func() { s.guard.exit() }, nil
}

// remove detaches the object behind h and retires h. Removing 0 returns
// ok == false and no error.
func (r *registry[T]) remove(op string, h Handle) (val T, ok bool, err error) {
	if h == 0 {
		return val, false, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.lookupLocked(op, h)
	if err != nil {
		return val, false, err
	}
	if err := s.guard.enter(op, h); err != nil {
		return val, false, err
	}
	defer s.guard.exit()

	val = s.val
	var zero T
	s.val = zero
	s.live = false
	s.gen = (s.gen + 1) & genMask
	if s.gen == 0 {
		s.gen = 1
	}
	_, _, index := h.unpack()
	r.free = append(r.free, index)
	return val, true, nil
}

// drain detaches every live object, in slot order, and retires their handles.
func (r *registry[T]) drain() []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []T
	for index, s := range r.slots {
		if !s.live {
			continue
		}
		out = append(out, s.val)
		var zero T
		s.val = zero
		s.live = false
		s.gen = (s.gen + 1) & genMask
		if s.gen == 0 {
			s.gen = 1
		}
		r.free = append(r.free, uint32(index))
	}
	return out
}

// len reports the number of live handles.
func (r *registry[T]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots) - len(r.free)
}

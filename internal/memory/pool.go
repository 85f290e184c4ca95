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

// Package memory hands out arrow allocators to the engine readers and
// writers opened behind bridge handles.
package memory

import (
	"sync"

	"github.com/apache/arrow/go/v17/arrow/memory"
)

var (
	mu      sync.Mutex
	memPool = newPool()
)

func newPool() *sync.Pool {
	return &sync.Pool{
		New: func() interface{} {
			return memory.NewGoAllocator()
		},
	}
}

func pool() *sync.Pool {
	mu.Lock()
	defer mu.Unlock()
	return memPool
}

// Acquire returns alloc when it is non-nil, otherwise a pooled GoAllocator.
// The returned release func gives a pooled allocator back and is a no-op for
// caller supplied ones.
func Acquire(alloc memory.Allocator) (memory.Allocator, func()) {
	if alloc != nil {
		return alloc, func() {}
	}
	pooled := GetAllocator()
	return pooled, func() { PutAllocator(pooled) }
}

// GetAllocator retrieves an allocator from the pool.
func GetAllocator() memory.Allocator {
	return pool().Get().(memory.Allocator)
}

// PutAllocator returns an allocator back to the pool.
func PutAllocator(alloc memory.Allocator) {
	if alloc == nil {
		return
	}
	pool().Put(alloc)
}

// NewCheckedAllocator wraps a fresh GoAllocator so tests can assert that
// every buffer handed out through a bridge session was released.
func NewCheckedAllocator() *memory.CheckedAllocator {
	return memory.NewCheckedAllocator(memory.NewGoAllocator())
}

// Reset drops every pooled allocator.
func Reset() {
	mu.Lock()
	memPool = newPool()
	mu.Unlock()
}

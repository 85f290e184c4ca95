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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlePacking(t *testing.T) {
	h := packHandle(classColumn, 7, 42)
	c, gen, index := h.unpack()
	assert.Equal(t, classColumn, c)
	assert.Equal(t, uint32(7), gen)
	assert.Equal(t, uint32(42), index)
	assert.Equal(t, "column:42.7", h.String())
	assert.NotZero(t, packHandle(classReader, 1, 0), "first handle of a class must not be 0")
}

func TestRegistryLifecycle(t *testing.T) {
	reg := newRegistry[string](classReader)

	h := reg.insert("a")
	require.NotZero(t, h)

	val, release, err := reg.acquire("get", h)
	require.NoError(t, err)
	assert.Equal(t, "a", val)
	release()

	val, ok, err := reg.remove("close", h)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a", val)
	assert.Equal(t, 0, reg.len())

	// the freed slot is reused with a new generation
	h2 := reg.insert("b")
	_, _, i1 := h.unpack()
	_, _, i2 := h2.unpack()
	assert.Equal(t, i1, i2, "slot should be reused")
	assert.NotEqual(t, h, h2, "reused slot must carry a new generation")

	_, _, err = reg.acquire("get", h)
	assert.ErrorIs(t, err, ErrNullHandle, "stale handle must be rejected")
	val, _, err = reg.acquire("get", h2)
	require.NoError(t, err)
	assert.Equal(t, "b", val)
}

func TestRegistryRejects(t *testing.T) {
	readers := newRegistry[int](classReader)
	writers := newRegistry[int](classWriter)
	h := readers.insert(1)
	w := writers.insert(2)

	tests := []struct {
		description string
		handle      Handle
	}{
		{"null handle", 0},
		{"wrong class", w},
		{"never issued", packHandle(classReader, 1, 99)},
		{"forged generation", packHandle(classReader, 5, 0)},
	}
	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			_, _, err := readers.acquire("get", test.handle)
			assert.ErrorIs(t, err, ErrNullHandle)
		})
	}

	_, _, err := readers.acquire("get", h)
	assert.NoError(t, err, "valid handle must still resolve")
}

func TestRegistryRemove(t *testing.T) {
	reg := newRegistry[int](classWriter)

	_, ok, err := reg.remove("close", 0)
	assert.NoError(t, err, "removing 0 is a no-op")
	assert.False(t, ok)

	h := reg.insert(3)
	_, ok, err = reg.remove("close", h)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = reg.remove("close", h)
	assert.ErrorIs(t, err, ErrNullHandle, "double close must be detected")
	assert.False(t, ok)
}

func TestRegistryDrain(t *testing.T) {
	reg := newRegistry[int](classColumn)
	var handles []Handle
	for i := 0; i < 4; i++ {
		handles = append(handles, reg.insert(i))
	}
	_, _, err := reg.remove("close", handles[1])
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2, 3}, reg.drain())
	assert.Equal(t, 0, reg.len())
	for _, h := range handles {
		_, _, err := reg.acquire("get", h)
		assert.ErrorIs(t, err, ErrNullHandle)
	}
}

//go:build pqbridge_debug

package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardRejectsConcurrentUse(t *testing.T) {
	reg := newRegistry[int](classColumn)
	h := reg.insert(1)

	_, release, err := reg.acquire("column_next", h)
	require.NoError(t, err)

	_, _, err = reg.acquire("column_next", h)
	assert.ErrorIs(t, err, ErrNullHandle, "second caller on one handle must be refused")
	_, _, err = reg.remove("close_column", h)
	assert.ErrorIs(t, err, ErrNullHandle)

	release()
	_, release, err = reg.acquire("column_next", h)
	require.NoError(t, err)
	release()
}

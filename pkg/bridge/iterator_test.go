package bridge_test

import (
	"testing"

	"github.com/arrowarc/pqbridge/pkg/bridge"
	"github.com/arrowarc/pqbridge/pkg/common/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnIterator(t *testing.T) {
	path, sample := generate(t, 250, 50)
	cfg := config.Default()
	cfg.Reader.BatchSize = 100
	b := newBridge(t, cfg)

	r, err := b.OpenReader(path)
	require.NoError(t, err)
	defer b.CloseReader(r)

	it, err := b.IterateColumn(r, "small")
	require.NoError(t, err)

	// peeking twice does not consume
	require.True(t, it.HasNext())
	require.True(t, it.HasNext())
	first := it.Current()

	var got []int16
	for it.HasNext() {
		batch := it.Next()
		got = append(got, batch.([]int16)...)
	}
	require.NoError(t, it.Err())
	assert.Equal(t, first, any(got[:len(first.([]int16))]))
	require.Len(t, got, len(sample))
	for i, row := range sample {
		assert.Equal(t, row.Small, got[i])
	}

	assert.False(t, it.HasNext())
	assert.Nil(t, it.Next())
	require.NoError(t, it.Close())
	require.NoError(t, it.Close(), "closing twice is a no-op")

	_, columns, _ := b.Live()
	assert.Zero(t, columns)
}

func TestColumnIteratorError(t *testing.T) {
	path, _ := generate(t, 20, 20)
	b := newBridge(t, nil)

	r, err := b.OpenReader(path)
	require.NoError(t, err)
	defer b.CloseReader(r)

	it, err := b.IterateColumn(r, "name")
	require.NoError(t, err)
	defer it.Close()

	assert.False(t, it.HasNext())
	assert.ErrorIs(t, it.Err(), bridge.ErrUnsupportedType)
}

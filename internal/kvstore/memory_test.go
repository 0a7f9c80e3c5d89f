package kvstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSetDelete(t *testing.T) {
	m := NewMemory()

	_, ok, err := m.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set("k", "v"))
	v, ok, err := m.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, m.Delete("k"))
	_, ok, err = m.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryFailWrites(t *testing.T) {
	m := NewMemory()
	m.FailWrites = true

	err := m.Set("k", "v")
	assert.ErrorIs(t, err, ErrWriteFailed)

	_, ok, _ := m.Get("k")
	assert.False(t, ok)
}

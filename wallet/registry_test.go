package wallet

import (
	"crypto/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	id := NewIdentity(false, rand.Reader)

	key := r.Add(id)
	_, err := uuid.Parse(key)
	require.NoError(t, err)

	got, ok := r.Get(key)
	require.True(t, ok)
	assert.Same(t, id, got)
	assert.Equal(t, 1, r.Len())

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

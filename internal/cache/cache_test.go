package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	data := []byte("snapshot")
	require.NoError(t, c.Set(ctx, "k", data, time.Minute))
	data[0] = 'X'

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("snapshot"), got, "stored value must not alias the caller's slice")

	now = now.Add(2 * time.Minute)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "entry should expire")

	require.NoError(t, c.Set(ctx, "forever", []byte("x"), 0))
	now = now.Add(24 * time.Hour)
	_, ok, _ = c.Get(ctx, "forever")
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, "forever"))
	_, ok, _ = c.Get(ctx, "forever")
	assert.False(t, ok)
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Close())
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, Options{})
	require.NoError(t, err)
	assert.IsType(t, &NullCache{}, c)

	c, err = New(ctx, Options{Kind: "Memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)

	_, err = New(ctx, Options{Kind: "memcached"})
	require.ErrorIs(t, err, ErrUnknownKind)

	_, err = New(ctx, Options{Kind: "redis"})
	require.Error(t, err, "redis without an address must fail")
}

func TestKey(t *testing.T) {
	a := Key("graph", "file", "/tmp/a.yaml")
	b := Key("graph", "file", "/tmp/a.yaml")
	c := Key("graph", "file/", "tmp/a.yaml")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Regexp(t, `^graph:[0-9a-f]{64}$`, a)
}

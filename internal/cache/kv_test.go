package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemorySetGet(t *testing.T) {
	ctx := context.TODO()
	kv := NewMemory()

	err := kv.Set(ctx, "k", []byte("raw"), 0)
	assert.NoError(t, err)

	data, err := kv.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Equal(t, []byte("raw"), data)

	// non-byte values are stored json encoded
	err = kv.Set(ctx, "meta", map[string]string{"version": "0.0.1"}, 0)
	assert.NoError(t, err)

	data, err = kv.Get(ctx, "meta")
	assert.NoError(t, err)
	assert.JSONEq(t, `{"version":"0.0.1"}`, string(data))
}

func TestMemoryMissAndDelete(t *testing.T) {
	ctx := context.TODO()
	kv := NewMemory()

	_, err := kv.Get(ctx, "absent")
	assert.ErrorIs(t, err, ErrCacheMiss)

	err = kv.Set(ctx, "k", []byte("v"), 0)
	assert.NoError(t, err)

	err = kv.Delete(ctx, "k")
	assert.NoError(t, err)

	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// deleting an absent key is not an error
	err = kv.Delete(ctx, "k")
	assert.NoError(t, err)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.TODO()
	kv := NewMemory()

	err := kv.Set(ctx, "k", []byte("v"), time.Millisecond)
	assert.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

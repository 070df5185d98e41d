package ws

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPresenceRegisterLookup(t *testing.T) {
	p := NewMemoryPresence()
	ctx := context.Background()

	require.NoError(t, p.Register(ctx, "user-1", "conn-a"))

	connID, ok, err := p.Lookup(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "conn-a", connID)
}

func TestMemoryPresenceLookupUnknown(t *testing.T) {
	p := NewMemoryPresence()

	_, ok, err := p.Lookup(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryPresenceReRegisterReplaces(t *testing.T) {
	p := NewMemoryPresence()
	ctx := context.Background()

	require.NoError(t, p.Register(ctx, "user-1", "conn-a"))
	require.NoError(t, p.Register(ctx, "user-1", "conn-b"))

	connID, ok, _ := p.Lookup(ctx, "user-1")
	assert.True(t, ok)
	assert.Equal(t, "conn-b", connID, "a reconnect overrides the previous connection")
}

func TestMemoryPresenceUnregister(t *testing.T) {
	p := NewMemoryPresence()
	ctx := context.Background()

	require.NoError(t, p.Register(ctx, "user-1", "conn-a"))
	require.NoError(t, p.Unregister(ctx, "user-1"))

	_, ok, err := p.Lookup(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, p.Unregister(ctx, "user-1"), "unregistering twice is harmless")
}

func TestMemoryPresenceConcurrentAccess(t *testing.T) {
	p := NewMemoryPresence()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", i)
			_ = p.Register(ctx, userID, "conn")
			_, _, _ = p.Lookup(ctx, userID)
			_ = p.Unregister(ctx, userID)
		}(i)
	}
	wg.Wait()

	_, ok, _ := p.Lookup(ctx, "user-0")
	assert.False(t, ok)
}

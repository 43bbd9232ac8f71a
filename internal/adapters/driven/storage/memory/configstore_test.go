package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetOverwrites(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("crawl.user_agent", "first"))
	require.NoError(t, store.Set("crawl.user_agent", "second"))

	agent, ok := store.String("crawl.user_agent")
	assert.True(t, ok)
	assert.Equal(t, "second", agent)
	assert.Equal(t, "memory", store.Location())
}

func TestConfigStore_Lookups(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("crawl.workers", 3))
	require.NoError(t, store.Set("crawl.rate", 0.5))
	require.NoError(t, store.Set("crawl.timeout", 15*time.Second))
	require.NoError(t, store.Set("crawl.interval", "6h"))

	workers, ok := store.Int("crawl.workers")
	assert.True(t, ok)
	assert.Equal(t, 3, workers)

	rate, ok := store.Float("crawl.rate")
	assert.True(t, ok)
	assert.Equal(t, 0.5, rate)

	timeout, ok := store.Duration("crawl.timeout")
	assert.True(t, ok)
	assert.Equal(t, 15*time.Second, timeout)

	interval, ok := store.Duration("crawl.interval")
	assert.True(t, ok)
	assert.Equal(t, 6*time.Hour, interval)

	_, ok = store.Int("crawl.rate")
	assert.False(t, ok, "fractional rate is not an int")

	_, ok = store.String("crawl.missing")
	assert.False(t, ok)
}

func TestConfigStore_Unset(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("crawl.workers", 8))
	require.NoError(t, store.Set("crawl.rate", 1.0))
	require.NoError(t, store.Set("ui.theme", "dark"))

	require.NoError(t, store.Unset("crawl.workers", "crawl.rate", "crawl.absent"))

	assert.Equal(t, []string{"ui.theme"}, store.Keys())
}

func TestConfigStore_ParallelAccess(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := []string{"crawl.workers", "crawl.rate", "crawl.timeout"}[i%3]
			_ = store.Set(key, i)
			store.Int(key)
			store.Keys()
			if i%5 == 0 {
				_ = store.Unset(key)
			}
		}()
	}
	wg.Wait()
}

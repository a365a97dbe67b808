package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	portssvc "github.com/SscSPs/billistry/internal/core/ports/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCacheTakeIsSingleUse(t *testing.T) {
	c := NewPrintTokens(10, time.Minute)
	job := portssvc.PrintJob{BusinessID: "biz", Kind: "sale", DocumentID: "inv-1", Copies: 2}
	c.Put("tok", job)

	got, ok := c.Take("tok")
	require.True(t, ok)
	assert.Equal(t, job, got)

	_, ok = c.Take("tok")
	assert.False(t, ok)
}

func TestTTLCacheExpires(t *testing.T) {
	c := NewTTLCache[string, int](10, 20*time.Millisecond)
	c.Put("k", 1)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	time.Sleep(60 * time.Millisecond)
	_, ok = c.Take("k")
	assert.False(t, ok)
}

func TestTTLCacheCapacity(t *testing.T) {
	c := NewTTLCache[string, int](2, time.Minute)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry is evicted")
	assert.Equal(t, time.Minute, c.TTL())
}

func TestTTLCacheConcurrentTake(t *testing.T) {
	c := NewTTLCache[string, int](10, time.Minute)
	c.Put("k", 1)

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := c.Take("k"); ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins)
}

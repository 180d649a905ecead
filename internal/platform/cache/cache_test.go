// internal/platform/cache/cache_test.go
package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"overseerx/internal/testutil"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(10)

	c.Set("key", "value", 0)

	got, ok := c.Get("key")
	testutil.AssertTrue(t, ok, "key should be found")
	testutil.AssertEqual(t, got.(string), "value", "value should match")
}

func TestMemoryCache_Miss(t *testing.T) {
	c := NewMemoryCache(10)

	got, ok := c.Get("absent")
	testutil.AssertFalse(t, ok, "absent key should miss")
	testutil.AssertNil(t, got, "miss returns nil")
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	c := NewMemoryCache(10)

	c.Set("ephemeral", 1, 10*time.Millisecond)
	_, ok := c.Get("ephemeral")
	testutil.AssertTrue(t, ok, "fresh entry should be found")

	time.Sleep(20 * time.Millisecond)

	_, ok = c.Get("ephemeral")
	testutil.AssertFalse(t, ok, "expired entry should miss")
	testutil.AssertEqual(t, c.Size(), 0, "expired entry removed lazily")
}

func TestMemoryCache_ZeroTTLNeverExpires(t *testing.T) {
	c := NewMemoryCache(10)

	c.Set("forever", 1, 0)
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("forever")
	testutil.AssertTrue(t, ok, "zero ttl never expires")
}

func TestMemoryCache_LRUEviction(t *testing.T) {
	c := NewMemoryCache(2)

	c.Set("a", 1, 0)
	c.Set("b", 2, 0)

	// Touch "a" so "b" becomes the oldest
	c.Get("a")
	c.Set("c", 3, 0)

	_, ok := c.Get("b")
	testutil.AssertFalse(t, ok, "least recently used entry evicted")
	_, ok = c.Get("a")
	testutil.AssertTrue(t, ok, "recently used entry survives")
	_, ok = c.Get("c")
	testutil.AssertTrue(t, ok, "new entry present")
	testutil.AssertEqual(t, c.Size(), 2, "size bounded by capacity")
}

func TestMemoryCache_UpdateExisting(t *testing.T) {
	c := NewMemoryCache(2)

	c.Set("key", "old", 0)
	c.Set("key", "new", 0)

	got, _ := c.Get("key")
	testutil.AssertEqual(t, got.(string), "new", "value updated in place")
	testutil.AssertEqual(t, c.Size(), 1, "no duplicate entry")
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	c := NewMemoryCache(10)

	c.Set("a", 1, 0)
	c.Set("b", 2, 0)

	c.Delete("a")
	_, ok := c.Get("a")
	testutil.AssertFalse(t, ok, "deleted key misses")
	testutil.AssertEqual(t, c.Size(), 1, "size after delete")

	c.Clear()
	testutil.AssertEqual(t, c.Size(), 0, "size after clear")
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	c := NewMemoryCache(128)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key-%d-%d", id, j%16)
				c.Set(key, j, time.Minute)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	testutil.AssertTrue(t, c.Size() <= 128, "size never exceeds capacity")
}

func TestNewMemoryCache_InvalidCapacity(t *testing.T) {
	c := NewMemoryCache(0)

	for i := 0; i < 150; i++ {
		c.Set(fmt.Sprintf("k%d", i), i, 0)
	}
	testutil.AssertEqual(t, c.Size(), 100, "default capacity applied")
}

package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapCache(t *testing.T) {
	c := NewMapCache[string, string]()

	_, ok := c.Get("btc")
	assert.False(t, ok)

	c.Set("btc", "bitcoin")
	v, ok := c.Get("btc")
	assert.True(t, ok)
	assert.Equal(t, "bitcoin", v)
	assert.Equal(t, 1, c.Len())
}

func TestMapCache_ConcurrentWriters(t *testing.T) {
	c := NewMapCache[string, int]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set(fmt.Sprintf("k%d", i%10), i%10)
			c.Get("k0")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, c.Len())
	v, ok := c.Get("k3")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

package cache_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shashiranjanraj/fastfood-api/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPutGet(t *testing.T) {
	m := cache.NewMemory()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, m.Put("products:/products", payload{Name: "kebab", Count: 3}, time.Minute))

	var got payload
	assert.True(t, m.Get("products:/products", &got))
	assert.Equal(t, "kebab", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestMemoryMiss(t *testing.T) {
	m := cache.NewMemory()

	var got string
	assert.False(t, m.Get("nope", &got))
}

func TestMemoryExpiry(t *testing.T) {
	m := cache.NewMemory()

	require.NoError(t, m.Put("k", "v", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	var got string
	assert.False(t, m.Get("k", &got))
	assert.Equal(t, 0, m.Len())
}

func TestMemoryInvalidatePrefix(t *testing.T) {
	m := cache.NewMemory()

	require.NoError(t, m.Put("products:/products?page=1", "a", time.Minute))
	require.NoError(t, m.Put("products:/products/7", "b", time.Minute))
	require.NoError(t, m.Put("orders:/orders", "c", time.Minute))

	require.NoError(t, m.Invalidate("products:"))

	var got string
	assert.False(t, m.Get("products:/products?page=1", &got))
	assert.False(t, m.Get("products:/products/7", &got))
	assert.True(t, m.Get("orders:/orders", &got))
	assert.Equal(t, "c", got)
}

func TestMemoryFlush(t *testing.T) {
	m := cache.NewMemory()

	require.NoError(t, m.Put("a", 1, time.Minute))
	require.NoError(t, m.Put("b", 2, time.Minute))
	require.NoError(t, m.Flush())

	assert.Equal(t, 0, m.Len())
}

func TestKeySortsQueryParams(t *testing.T) {
	r1 := httptest.NewRequest("GET", "/products?page=2&brand=mamapizza", nil)
	r2 := httptest.NewRequest("GET", "/products?brand=mamapizza&page=2", nil)

	assert.Equal(t, cache.Key("products", r1), cache.Key("products", r2))
	assert.Equal(t, "products:/products?brand=mamapizza&page=2", cache.Key("products", r1))
}

func TestKeyNoQuery(t *testing.T) {
	r := httptest.NewRequest("GET", "/orders/42", nil)
	assert.Equal(t, "orders:/orders/42", cache.Key("orders", r))
}

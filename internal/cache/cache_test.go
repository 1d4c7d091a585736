package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, 15*time.Minute), mr
}

func TestGetJSON_Success(t *testing.T) {
	c, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(cacheKey("categories"), `{"id":3,"title":"Shoes"}`))

	var got entry
	require.NoError(t, c.GetJSON(context.Background(), "categories", &got))
	assert.Equal(t, entry{ID: 3, Title: "Shoes"}, got)
}

func TestGetJSON_CacheMiss(t *testing.T) {
	c, _ := setupTestRedis(t)

	var got entry
	err := c.GetJSON(context.Background(), "nonexistent", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestGetJSON_InvalidJSON(t *testing.T) {
	c, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(cacheKey("broken"), `{"id":`))

	var got entry
	err := c.GetJSON(context.Background(), "broken", &got)
	require.ErrorContains(t, err, "unmarshal broken failed")
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestSetJSON_StoresWithJitteredTTL(t *testing.T) {
	c, mr := setupTestRedis(t)

	require.NoError(t, c.SetJSON(context.Background(), "category:7", entry{ID: 7, Title: "Hats"}))

	stored, err := mr.Get(cacheKey("category:7"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"title":"Hats"}`, stored)

	ttl := mr.TTL(cacheKey("category:7"))
	assert.GreaterOrEqual(t, ttl, 15*time.Minute)
	assert.LessOrEqual(t, ttl, 15*time.Minute+15*time.Minute/4)
}

func TestDelete(t *testing.T) {
	c, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(cacheKey("a"), "1"))
	require.NoError(t, mr.Set(cacheKey("b"), "2"))

	require.NoError(t, c.Delete(context.Background(), "a", "b", "missing"))
	assert.False(t, mr.Exists(cacheKey("a")))
	assert.False(t, mr.Exists(cacheKey("b")))

	assert.NoError(t, c.Delete(context.Background()))
}

func TestCacheKey_Format(t *testing.T) {
	assert.Equal(t, "storefront:category:tree", cacheKey("category:tree"))
}

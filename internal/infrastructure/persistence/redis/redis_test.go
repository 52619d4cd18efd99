package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshop/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

func TestSessionStore_Blacklist(t *testing.T) {
	client, fake := newFakeClient()
	store := NewSessionStore(client)
	ctx := context.Background()

	blacklisted, err := store.IsInBlacklist(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, blacklisted)

	require.NoError(t, store.AddToBlacklist(ctx, "token-a", 2*time.Hour))
	blacklisted, err = store.IsInBlacklist(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, blacklisted)
	assert.Equal(t, 2*time.Hour, fake.ttls["blacklist:token-a"])
}

func TestSessionStore_Session(t *testing.T) {
	client, fake := newFakeClient()
	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, 7, map[string]interface{}{"email": "a@b.com"}, 24*time.Hour))
	assert.Equal(t, 24*time.Hour, fake.ttls["session:7"])

	session, err := store.GetSession(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", session["email"])

	require.NoError(t, store.DeleteSession(ctx, 7))
	_, err = store.GetSession(ctx, 7)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestSessionStore_RedisError(t *testing.T) {
	client, fake := newFakeClient()
	fake.failErr = errors.New("connection refused")
	store := NewSessionStore(client)

	_, err := store.IsInBlacklist(context.Background(), "t")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeRedisError))
}

func TestSearchCache_RoundTrip(t *testing.T) {
	client, fake := newFakeClient()
	cache := NewSearchCache(client)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "golang")
	require.NoError(t, err)
	assert.False(t, ok)

	books := []*catalog.Book{{
		ID: 1, ExternalID: "g1", Title: "Go", Authors: []string{"Rob"},
		Price: 999, Stock: 10, Categories: []string{"Computers"},
	}}
	require.NoError(t, cache.Put(ctx, "golang", books, time.Hour))
	assert.Equal(t, time.Hour, fake.ttls["catalog:search:golang"])

	got, ok, err := cache.Get(ctx, "golang")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "g1", got[0].ExternalID)
	assert.Equal(t, []string{"Rob"}, got[0].Authors)
	assert.Equal(t, int64(999), got[0].Price)

	_, ok, _ = cache.Get(ctx, "Golang")
	assert.False(t, ok, "Key区分大小写")
}

func TestSearchCache_Errors(t *testing.T) {
	client, fake := newFakeClient()
	cache := NewSearchCache(client)
	ctx := context.Background()

	fake.strings["catalog:search:bad"] = "{not json"
	_, _, err := cache.Get(ctx, "bad")
	assert.Error(t, err)

	fake.failErr = errors.New("timeout")
	_, _, err = cache.Get(ctx, "golang")
	assert.Error(t, err)
	assert.Error(t, cache.Put(ctx, "golang", nil, time.Hour))
}

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ikkim/foodgram-backend/config"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBlacklistTest(t *testing.T) (*TokenBlacklist, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewTokenBlacklist(client), mr
}

func TestTokenBlacklist_RevokeAndExpire(t *testing.T) {
	blacklist, mr := setupBlacklistTest(t)
	ctx := context.Background()

	revoked, err := blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, blacklist.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, time.Minute, mr.TTL(revokedKeyPrefix+"jti-1"))

	mr.FastForward(2 * time.Minute)

	revoked, err = blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenBlacklist_IgnoresExpiredTokens(t *testing.T) {
	blacklist, mr := setupBlacklistTest(t)

	require.NoError(t, blacklist.Revoke(context.Background(), "jti-old", -time.Second))
	assert.False(t, mr.Exists(revokedKeyPrefix+"jti-old"))
}

func TestTokenBlacklist_ServerDown(t *testing.T) {
	blacklist, mr := setupBlacklistTest(t)
	mr.Close()

	_, err := blacklist.IsRevoked(context.Background(), "jti-1")
	assert.Error(t, err)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	blacklist, err := Connect(&config.RedisConfig{Host: mr.Host(), Port: mr.Port()})
	require.NoError(t, err)
	assert.NoError(t, blacklist.Close())
}

func TestConnect_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := mr.Host(), mr.Port()
	mr.Close()

	_, err := Connect(&config.RedisConfig{Host: host, Port: port})
	assert.Error(t, err)
}

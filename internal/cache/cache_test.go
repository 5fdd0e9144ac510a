package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_AcquireSeat(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := NewRedisCacheWithClient(db)
	ctx := context.Background()

	mockRedis.ExpectSetNX("seat:trip:GOV001:2024-01-20:12", "bk-1", 0).SetVal(true)
	mockRedis.ExpectSetNX("seat:trip:GOV001:2024-01-20:12", "bk-2", 0).SetVal(false)

	ok, err := c.AcquireSeat(ctx, "GOV001:2024-01-20", 12, "bk-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.AcquireSeat(ctx, "GOV001:2024-01-20", 12, "bk-2")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestRedisCache_AcquireSeatError(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := NewRedisCacheWithClient(db)

	mockRedis.ExpectSetNX("seat:trip:T:3", "bk", 0).SetErr(errors.New("connection refused"))

	ok, err := c.AcquireSeat(context.Background(), "T", 3, "bk")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestRedisCache_ReleaseSeat(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := NewRedisCacheWithClient(db)

	ctx := context.Background()
	key := "seat:trip:PVT001:2024-01-20:5"

	mockRedis.ExpectEvalSha(releaseSeatScript.Hash(), []string{key}, "bk-1").SetVal(int64(1))
	mockRedis.ExpectEvalSha(releaseSeatScript.Hash(), []string{key}, "BK001").SetVal(int64(0))

	released, err := c.ReleaseSeat(ctx, "PVT001:2024-01-20", 5, "bk-1")
	require.NoError(t, err)
	assert.True(t, released)

	// someone else's lock stays put
	released, err = c.ReleaseSeat(ctx, "PVT001:2024-01-20", 5, "BK001")
	require.NoError(t, err)
	assert.False(t, released)

	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestRedisCache_ReleaseSeatError(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := NewRedisCacheWithClient(db)

	mockRedis.ExpectEvalSha(releaseSeatScript.Hash(), []string{"seat:trip:T:3"}, "bk").SetErr(errors.New("connection refused"))

	released, err := c.ReleaseSeat(context.Background(), "T", 3, "bk")
	assert.Error(t, err)
	assert.False(t, released)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestRedisCache_Ping(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := NewRedisCacheWithClient(db)

	mockRedis.ExpectPing().SetVal("PONG")

	assert.NoError(t, c.Ping(context.Background()))
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestMemorySeats(t *testing.T) {
	ctx := context.Background()
	m := NewMemorySeats()

	ok, err := m.AcquireSeat(ctx, "trip", 1, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.AcquireSeat(ctx, "trip", 1, "b")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = m.AcquireSeat(ctx, "other", 1, "b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, m.Occupied("trip"))

	released, err := m.ReleaseSeat(ctx, "trip", 1, "b")
	require.NoError(t, err)
	assert.False(t, released)
	assert.Equal(t, 1, m.Occupied("trip"))

	released, err = m.ReleaseSeat(ctx, "trip", 1, "a")
	require.NoError(t, err)
	assert.True(t, released)
	assert.Zero(t, m.Occupied("trip"))

	released, err = m.ReleaseSeat(ctx, "nowhere", 1, "a")
	require.NoError(t, err)
	assert.False(t, released)

	ok, err = m.AcquireSeat(ctx, "trip", 1, "b")
	require.NoError(t, err)
	assert.True(t, ok)
}

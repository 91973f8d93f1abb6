package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisClient_Exists(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &redisClient{client: db}
	ctx := context.TODO()

	mock.ExpectExists("key").SetVal(1)
	ok, err := client.Exists(ctx, "key")
	assert.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectExists("key").SetVal(0)
	ok, err = client.Exists(ctx, "key")
	assert.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectExists("key").SetErr(errors.New("redis error"))
	_, err = client.Exists(ctx, "key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "redis exists failure")

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestRedisClient_SetGetDel(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &redisClient{client: db}
	ctx := context.TODO()

	mock.ExpectSet("key", "value", 15*time.Second).SetVal("OK")
	assert.NoError(t, client.Set(ctx, "key", "value", 15*time.Second))

	mock.ExpectGet("key").SetVal("value")
	val, ok, err := client.Get(ctx, "key")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "value", val)

	mock.ExpectGet("missing").RedisNil()
	_, ok, err = client.Get(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectGet("key").SetErr(errors.New("redis error"))
	_, _, err = client.Get(ctx, "key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "redis get failure")

	mock.ExpectDel("key").SetVal(1)
	assert.NoError(t, client.Del(ctx, "key"))

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestRedisClient_RPushBLPop(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &redisClient{client: db}
	ctx := context.TODO()

	mock.ExpectRPush("inbox", "payload").SetVal(1)
	assert.NoError(t, client.RPush(ctx, "inbox", "payload"))

	mock.ExpectBLPop(time.Second, "inbox").SetVal([]string{"inbox", "payload"})
	val, ok, err := client.BLPop(ctx, time.Second, "inbox")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "payload", val)

	mock.ExpectBLPop(time.Second, "inbox").RedisNil()
	_, ok, err = client.BLPop(ctx, time.Second, "inbox")
	assert.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectBLPop(time.Second, "inbox").SetErr(errors.New("redis error"))
	_, _, err = client.BLPop(ctx, time.Second, "inbox")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "redis blpop failure")

	mock.ExpectExpire("inbox", time.Minute).SetVal(true)
	assert.NoError(t, client.Expire(ctx, "inbox", time.Minute))

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestNewRedisClient(t *testing.T) {
	client := NewRedisClient("localhost", "6379")
	assert.NotNil(t, client)
}

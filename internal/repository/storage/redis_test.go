package storage

import (
	"context"
	"testing"
	"time"

	"github.com/rocketscienceinc/quantum-tictactoe/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisStorage(t *testing.T) {
	t.Run("Connects to a running redis", func(t *testing.T) {
		ctx, st := suite.New(t)

		redisStorage, err := NewRedisStorage(ctx, st.Addr)

		require.NoError(t, err)
		assert.NoError(t, redisStorage.Connection.Ping(ctx).Err())
		assert.NoError(t, redisStorage.Close())
	})

	t.Run("Fails when nothing listens", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		_, err := NewRedisStorage(ctx, "127.0.0.1:1")

		assert.Error(t, err)
	})
}

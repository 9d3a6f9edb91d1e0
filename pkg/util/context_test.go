package util

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRequestID(t *testing.T) {
	t.Run("keeps given id", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "req-1")
		assert.Equal(t, "req-1", GetRequestID(ctx))
	})

	t.Run("generates uuid when empty", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "")
		_, err := uuid.Parse(GetRequestID(ctx))
		require.NoError(t, err)
	})

	t.Run("missing id", func(t *testing.T) {
		assert.Empty(t, GetRequestID(context.Background()))
	})
}

func TestWithSymbol(t *testing.T) {
	ctx := WithSymbol(context.Background(), "BTCUSD")
	assert.Equal(t, "BTCUSD", GetSymbol(ctx))
	assert.Empty(t, GetSymbol(context.Background()))
}

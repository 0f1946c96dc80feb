package cache

import (
	"context"
	"testing"

	"github.com/astevko/randombmir/model"

	"github.com/stretchr/testify/assert"
)

func TestKeyFormats(t *testing.T) {
	assert.Equal(t, "player:state:abc-123", PlayerStateKey("abc-123"))
	assert.Equal(t, "player:session:abc-123", SessionKey("abc-123"))
}

func TestNewSessionIDIsUnique(t *testing.T) {
	a := NewSessionID()
	b := NewSessionID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestOperationsWithoutClientArePersistenceFailures(t *testing.T) {
	// The client is nil unless ConnectRedis ran; every operation must
	// degrade into a typed persistence failure, never a panic.
	RedisClient = nil
	ctx := context.Background()

	_, err := EnsureSession(ctx, "sid")
	assert.ErrorIs(t, err, ErrPersistence)

	_, err = GetPlayerState(ctx, "sid")
	assert.ErrorIs(t, err, ErrPersistence)

	_, err = UpdatePlayerState(ctx, "sid", model.PlayerStateUpdate{})
	assert.ErrorIs(t, err, ErrPersistence)

	err = ResetSession(ctx, "sid")
	assert.ErrorIs(t, err, ErrPersistence)
}

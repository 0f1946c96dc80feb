package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/astevko/randombmir/model"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ErrPersistence marks storage-substrate failures (connection down,
// serialization problems). Callers must treat these as non-fatal: the
// in-memory player state stays authoritative and the next successful
// update supersedes the failure.
var ErrPersistence = errors.New("player state persistence failed")

var (
	// Serializes read-modify-write cycles so that a get never observes an
	// interleaved partial write from the same process.
	stateMu sync.Mutex

	sessionTTL = 720 * time.Hour
)

// SetSessionTTL overrides the session expiry. Called once during wiring.
func SetSessionTTL(ttl time.Duration) {
	if ttl > 0 {
		sessionTTL = ttl
	}
}

// PlayerStateKey builds the Redis key holding a session's player state.
func PlayerStateKey(sessionID string) string {
	return fmt.Sprintf("player:state:%s", sessionID)
}

// SessionKey builds the Redis key marking a session identifier as known.
func SessionKey(sessionID string) string {
	return fmt.Sprintf("player:session:%s", sessionID)
}

// NewSessionID mints a fresh opaque session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// EnsureSession returns sessionID if it is already registered, otherwise
// generates, registers and returns a new identifier. Idempotent for a
// registered id, so repeated calls with the same id keep returning it.
func EnsureSession(ctx context.Context, sessionID string) (string, error) {
	if RedisClient == nil {
		return "", fmt.Errorf("%w: Redis client not initialized", ErrPersistence)
	}

	if sessionID != "" {
		exists, err := RedisClient.Exists(ctx, SessionKey(sessionID)).Result()
		if err != nil {
			return "", fmt.Errorf("%w: failed to check session %s: %v", ErrPersistence, sessionID, err)
		}
		if exists > 0 {
			return sessionID, nil
		}
	}

	newID := NewSessionID()
	if err := RedisClient.Set(ctx, SessionKey(newID), time.Now().UnixMilli(), sessionTTL).Err(); err != nil {
		return "", fmt.Errorf("%w: failed to register session: %v", ErrPersistence, err)
	}
	return newID, nil
}

// GetPlayerState returns the last persisted snapshot for the session, or
// nil if none exists yet.
func GetPlayerState(ctx context.Context, sessionID string) (*model.PlayerState, error) {
	if RedisClient == nil {
		return nil, fmt.Errorf("%w: Redis client not initialized", ErrPersistence)
	}

	raw, err := RedisClient.Get(ctx, PlayerStateKey(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // No snapshot yet
		}
		return nil, fmt.Errorf("%w: failed to get player state for %s: %v", ErrPersistence, sessionID, err)
	}

	var state model.PlayerState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal player state for %s: %v", ErrPersistence, sessionID, err)
	}
	return &state, nil
}

// UpdatePlayerState merges the partial update into the session's snapshot
// (creating one if absent), stamps LastUpdated, and writes it back. The
// read-modify-write cycle is serialized so a concurrent GetPlayerState in
// this process never sees a half-applied update.
func UpdatePlayerState(ctx context.Context, sessionID string, update model.PlayerStateUpdate) (*model.PlayerState, error) {
	if RedisClient == nil {
		return nil, fmt.Errorf("%w: Redis client not initialized", ErrPersistence)
	}

	stateMu.Lock()
	defer stateMu.Unlock()

	state, err := GetPlayerState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = &model.PlayerState{Volume: 1.0}
	}

	update.Apply(state)
	state.LastUpdated = time.Now().UnixMilli()

	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal player state for %s: %v", ErrPersistence, sessionID, err)
	}

	if err := RedisClient.Set(ctx, PlayerStateKey(sessionID), raw, sessionTTL).Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to write player state for %s: %v", ErrPersistence, sessionID, err)
	}
	return state, nil
}

// ResetSession deletes all persisted state for the session, including the
// session identifier itself. Used for debugging and recovery.
func ResetSession(ctx context.Context, sessionID string) error {
	if RedisClient == nil {
		return fmt.Errorf("%w: Redis client not initialized", ErrPersistence)
	}

	if err := RedisClient.Del(ctx, PlayerStateKey(sessionID), SessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("%w: failed to reset session %s: %v", ErrPersistence, sessionID, err)
	}
	return nil
}

package player

import (
	"context"
	"sync"

	"github.com/astevko/randombmir/cache"
	"github.com/astevko/randombmir/model"
	"github.com/astevko/randombmir/repository"
)

// Manager hands out one Controller per session, creating and initializing
// it on first use.
type Manager struct {
	mu          sync.Mutex
	controllers map[string]*Controller

	source   ClipSource
	sessions SessionStore
	syncer   TranscriptSyncer
}

// NewManager creates a controller registry.
func NewManager(source ClipSource, sessions SessionStore, syncer TranscriptSyncer) *Manager {
	return &Manager{
		controllers: make(map[string]*Controller),
		source:      source,
		sessions:    sessions,
		syncer:      syncer,
	}
}

// Controller returns the controller for a session, initializing a new one
// if the session has not been seen yet.
func (m *Manager) Controller(ctx context.Context, sessionID string) (*Controller, InitOutcome) {
	m.mu.Lock()
	if c, ok := m.controllers[sessionID]; ok {
		m.mu.Unlock()
		// A controller whose catalog never loaded gets another Init
		// instead of being served in its failed state forever.
		if c.catalogLoadFailed() {
			return c, c.Init(ctx)
		}
		return c, OutcomeRecovered
	}
	c := NewController(sessionID, m.source, m.sessions, m.syncer)
	m.controllers[sessionID] = c
	m.mu.Unlock()

	outcome := c.Init(ctx)
	return c, outcome
}

// Drop forgets a session's controller, forcing a fresh Init on next use.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	delete(m.controllers, sessionID)
	m.mu.Unlock()
}

// RepositorySource adapts a ClipRepository to the ClipSource interface.
type RepositorySource struct {
	Repo repository.ClipRepository
}

func (s RepositorySource) LoadAll(ctx context.Context) ([]*model.AudioClip, error) {
	return s.Repo.GetAllClips()
}

// RedisSessions adapts the cache package to the SessionStore interface.
type RedisSessions struct{}

func (RedisSessions) Get(ctx context.Context, sessionID string) (*model.PlayerState, error) {
	return cache.GetPlayerState(ctx, sessionID)
}

func (RedisSessions) Update(ctx context.Context, sessionID string, update model.PlayerStateUpdate) (*model.PlayerState, error) {
	return cache.UpdatePlayerState(ctx, sessionID, update)
}

func (RedisSessions) Reset(ctx context.Context, sessionID string) error {
	return cache.ResetSession(ctx, sessionID)
}

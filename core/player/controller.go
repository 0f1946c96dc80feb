// Package player implements the stateful orchestration layer a UI drives:
// it owns the loaded clip list and the playback snapshot for one session,
// and wires navigation, transcript sync and session persistence together.
package player

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/astevko/randombmir/core/navigation"
	"github.com/astevko/randombmir/core/transcript"
	"github.com/astevko/randombmir/logger"
	"github.com/astevko/randombmir/model"
)

// State is the controller's lifecycle state.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StatePlaying State = "playing"
	StatePaused  State = "paused"
	// StateEmpty is terminal: the clip store returned zero clips, or
	// initialization exhausted its retries.
	StateEmpty State = "empty"
)

// InitOutcome is the typed result of the bounded-retry initialization.
type InitOutcome string

const (
	// OutcomeRecovered means the clip list loaded within the retry budget.
	OutcomeRecovered InitOutcome = "recovered"
	// OutcomeExhaustedNeedsReset means every attempt failed; the caller
	// decides whether to reset session state and try again.
	OutcomeExhaustedNeedsReset InitOutcome = "exhausted-needs-reset"
)

const (
	initAttempts    = 3
	initBackoff     = 500 * time.Millisecond
	persistInterval = 5 * time.Second
)

// ClipSource loads the full clip catalog.
type ClipSource interface {
	LoadAll(ctx context.Context) ([]*model.AudioClip, error)
}

// SessionStore persists per-session player state.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*model.PlayerState, error)
	Update(ctx context.Context, sessionID string, update model.PlayerStateUpdate) (*model.PlayerState, error)
	Reset(ctx context.Context, sessionID string) error
}

// TranscriptSyncer reconciles transcript edits across their three tiers.
type TranscriptSyncer interface {
	LoadFull(ctx context.Context, clip *model.AudioClip) string
	Save(ctx context.Context, clip *model.AudioClip, newText string, newTitle *string) (*model.AudioClip, transcript.SaveResult, error)
}

// Controller orchestrates playback for one session.
type Controller struct {
	mu sync.Mutex

	sessionID string
	source    ClipSource
	sessions  SessionStore
	syncer    TranscriptSyncer

	state       State
	clips       []*model.AudioClip
	current     *model.AudioClip
	volume      float64
	currentTime float64
	loadFailed  bool

	lastTickPersist time.Time
}

// NewController creates a controller in the Loading state. Call Init
// before anything else.
func NewController(sessionID string, source ClipSource, sessions SessionStore, syncer TranscriptSyncer) *Controller {
	return &Controller{
		sessionID: sessionID,
		source:    source,
		sessions:  sessions,
		syncer:    syncer,
		state:     StateLoading,
		volume:    1.0,
	}
}

// Init loads the clip catalog with bounded retry and backoff, restores the
// session's last snapshot, and resolves the starting clip: the snapshot's
// clip if still present, else the first clip, else Empty. A failed load
// never strands the controller in Loading; it lands in Empty with the
// error flag set so the caller can offer a retry or reset.
func (c *Controller) Init(ctx context.Context) InitOutcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = StateLoading
	c.loadFailed = false

	clips, ok := c.loadClipsWithRetry(ctx)
	if !ok {
		c.state = StateEmpty
		c.loadFailed = true
		c.clips = nil
		c.current = nil
		return OutcomeExhaustedNeedsReset
	}

	c.clips = clips
	if len(clips) == 0 {
		c.state = StateEmpty
		c.current = nil
		return OutcomeRecovered
	}

	snapshot, err := c.sessions.Get(ctx, c.sessionID)
	if err != nil {
		// Snapshot loss is recoverable; fall back to defaults.
		logger.Warn("Failed to restore session snapshot",
			logger.String("sessionId", c.sessionID),
			logger.ErrorField(err))
		snapshot = nil
	}

	c.current = clips[0]
	c.state = StateReady
	if snapshot != nil {
		if clip := findClip(clips, snapshot.CurrentClipID); clip != nil {
			c.current = clip
			c.currentTime = snapshot.CurrentTime
		}
		// Zero is a valid (muted) volume; the store always writes the
		// full struct, so the snapshot value is authoritative.
		c.volume = snapshot.Volume
		// isPlaying is a best-effort hint only; restore paused and let the
		// UI decide whether autoplay is even permitted.
		if snapshot.IsPlaying {
			c.state = StatePaused
		}
	}
	return OutcomeRecovered
}

func (c *Controller) loadClipsWithRetry(ctx context.Context) ([]*model.AudioClip, bool) {
	backoff := initBackoff
	for attempt := 1; attempt <= initAttempts; attempt++ {
		clips, err := c.source.LoadAll(ctx)
		if err == nil {
			return clips, true
		}
		logger.Warn("Clip catalog load failed",
			logger.Int("attempt", attempt),
			logger.ErrorField(err))
		if attempt < initAttempts {
			select {
			case <-ctx.Done():
				return nil, false
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return nil, false
}

// Play transitions to Playing and persists the hint, fire-and-forget.
func (c *Controller) Play(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return
	}
	c.state = StatePlaying
	playing := true
	c.persist(ctx, model.PlayerStateUpdate{IsPlaying: &playing})
}

// Pause transitions to Paused and persists the hint, fire-and-forget.
func (c *Controller) Pause(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return
	}
	c.state = StatePaused
	playing := false
	c.persist(ctx, model.PlayerStateUpdate{IsPlaying: &playing})
}

// Seek moves the playback position and persists it immediately.
func (c *Controller) Seek(ctx context.Context, t float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentTime = t
	c.lastTickPersist = time.Now()
	c.persist(ctx, model.PlayerStateUpdate{CurrentTime: &t})
}

// Tick records a periodic playback-time update. Persistence is throttled;
// the in-memory position is always current.
func (c *Controller) Tick(ctx context.Context, t float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentTime = t
	if time.Since(c.lastTickPersist) < persistInterval {
		return
	}
	c.lastTickPersist = time.Now()
	c.persist(ctx, model.PlayerStateUpdate{CurrentTime: &t})
}

// SetVolume adjusts the volume and persists it.
func (c *Controller) SetVolume(ctx context.Context, v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.volume = v
	c.persist(ctx, model.PlayerStateUpdate{Volume: &v})
}

// Next advances to the next clip in list order.
func (c *Controller) Next(ctx context.Context) (*model.AudioClip, error) {
	return c.navigate(ctx, func(clips []*model.AudioClip, currentID string) (*model.AudioClip, error) {
		return navigation.Next(clips, currentID)
	})
}

// Previous steps back to the previous clip in list order.
func (c *Controller) Previous(ctx context.Context) (*model.AudioClip, error) {
	return c.navigate(ctx, func(clips []*model.AudioClip, currentID string) (*model.AudioClip, error) {
		return navigation.Previous(clips, currentID)
	})
}

// Random jumps to a uniformly selected clip; repeats are possible.
func (c *Controller) Random(ctx context.Context) (*model.AudioClip, error) {
	return c.navigate(ctx, func(clips []*model.AudioClip, _ string) (*model.AudioClip, error) {
		return navigation.Random(clips)
	})
}

func (c *Controller) navigate(ctx context.Context, pick func([]*model.AudioClip, string) (*model.AudioClip, error)) (*model.AudioClip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	currentID := ""
	if c.current != nil {
		currentID = c.current.ID
	}
	clip, err := pick(c.clips, currentID)
	if err != nil {
		// EmptyCollection leaves playback state unchanged.
		if errors.Is(err, navigation.ErrEmptyCollection) {
			return c.current, err
		}
		return nil, err
	}

	c.current = clip
	c.currentTime = 0
	zero := 0.0
	c.persist(ctx, model.PlayerStateUpdate{CurrentClipID: &clip.ID, CurrentTime: &zero})
	return clip, nil
}

// LoadTranscript returns the full transcript for the current clip,
// degrading to the stored preview when the file is unavailable.
func (c *Controller) LoadTranscript(ctx context.Context) string {
	c.mu.Lock()
	current := c.current
	c.mu.Unlock()
	if current == nil {
		return ""
	}
	return c.syncer.LoadFull(ctx, current)
}

// SaveTranscript saves an edited transcript (and optionally a new title)
// for the current clip. On success the current clip and its list entry
// are replaced with the updated copy. On failure nothing changes and the
// caller keeps the edit buffer for retry.
func (c *Controller) SaveTranscript(ctx context.Context, newText string, newTitle *string) (*model.AudioClip, transcript.SaveResult, error) {
	c.mu.Lock()
	current := c.current
	c.mu.Unlock()
	if current == nil {
		return nil, transcript.SaveResult{}, errors.New("no current clip")
	}

	updated, result, err := c.syncer.Save(ctx, current, newText, newTitle)
	if err != nil {
		return nil, result, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = updated
	c.clips = replaceClip(c.clips, updated)
	return updated, result, nil
}

// Reset wipes all persisted state for the session.
func (c *Controller) Reset(ctx context.Context) error {
	return c.sessions.Reset(ctx, c.sessionID)
}

// Snapshot is an immutable view of the controller for API responses.
type Snapshot struct {
	SessionID   string           `json:"sessionId"`
	State       State            `json:"state"`
	Clip        *model.AudioClip `json:"clip,omitempty"`
	Volume      float64          `json:"volume"`
	CurrentTime float64          `json:"currentTime"`
	ClipCount   int              `json:"clipCount"`
	LoadFailed  bool             `json:"loadFailed,omitempty"`
}

// Snapshot returns the controller's current view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		SessionID:   c.sessionID,
		State:       c.state,
		Clip:        c.current,
		Volume:      c.volume,
		CurrentTime: c.currentTime,
		ClipCount:   len(c.clips),
		LoadFailed:  c.loadFailed,
	}
}

// persist issues a fire-and-forget session update. Persistence failures
// are logged and swallowed: playback keeps working even when every
// secondary persistence path is down. Callers must hold c.mu.
func (c *Controller) persist(ctx context.Context, update model.PlayerStateUpdate) {
	if _, err := c.sessions.Update(ctx, c.sessionID, update); err != nil {
		logger.Warn("Player state persistence failed",
			logger.String("sessionId", c.sessionID),
			logger.ErrorField(err))
	}
}

func (c *Controller) catalogLoadFailed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadFailed
}

func findClip(clips []*model.AudioClip, id string) *model.AudioClip {
	if id == "" {
		return nil
	}
	for _, clip := range clips {
		if clip.ID == id {
			return clip
		}
	}
	return nil
}

// replaceClip swaps the matching entry for updated in a new slice, leaving
// the old slice intact for concurrent readers.
func replaceClip(clips []*model.AudioClip, updated *model.AudioClip) []*model.AudioClip {
	next := make([]*model.AudioClip, len(clips))
	copy(next, clips)
	for i, clip := range next {
		if clip.ID == updated.ID {
			next[i] = updated
			break
		}
	}
	return next
}

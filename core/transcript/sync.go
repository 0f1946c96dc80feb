// Package transcript keeps a clip's transcript and title consistent across
// the external text file, the clip store, and the caller's in-memory copy.
// The text file is the source of truth for full transcript text; the clip
// store field is a denormalized preview cache; the in-memory copy is a
// render cache. Writes go strictly file first, then store.
package transcript

import (
	"context"
	"errors"
	"fmt"

	"github.com/astevko/randombmir/logger"
	"github.com/astevko/randombmir/model"
	"github.com/astevko/randombmir/repository"
)

// ErrSaveFailed marks a failed external file write during Save. This is
// the one fatal-to-the-operation case: the caller must surface it and keep
// the user's edit buffer for retry.
var ErrSaveFailed = errors.New("transcript save failed")

// SaveResult reports the outcome of a successful Save.
type SaveResult struct {
	// CacheStale is set when the clip store update failed after the file
	// write succeeded. The saved text is durable; the store preview is
	// briefly stale until the next successful save.
	CacheStale bool
}

// Service reconciles transcript and title edits across the three tiers.
type Service struct {
	client *Client
	clips  repository.ClipRepository
}

// NewService creates a transcript sync service.
func NewService(client *Client, clips repository.ClipRepository) *Service {
	return &Service{client: client, clips: clips}
}

// LoadFull returns the full transcript for a clip. Any fetch failure
// (missing file, network, malformed response) degrades to the stored
// preview; the absence of a full transcript is a valid state, not an
// error, so this never fails.
func (s *Service) LoadFull(ctx context.Context, clip *model.AudioClip) string {
	text, err := s.client.Fetch(ctx, clip.Filename)
	if err != nil {
		logger.Debug("Full transcript unavailable, falling back to preview",
			logger.String("filename", clip.Filename),
			logger.ErrorField(err))
		return clip.Transcript
	}
	return text
}

// Save writes newText to the external file endpoint and, only if that
// succeeds, updates the in-memory copy and then the clip store. The store
// update is best-effort: its failure is logged and reported via
// SaveResult.CacheStale but never rolls back the file write, because
// "file and UI agree, store briefly stale" beats "store updated, file
// write failed, UI shows phantom success".
//
// The returned clip is a new copy; the input clip is never mutated, so
// concurrent readers of the old list cannot observe a half-updated entry.
// An empty newText is a valid save that clears the transcript.
func (s *Service) Save(ctx context.Context, clip *model.AudioClip, newText string, newTitle *string) (*model.AudioClip, SaveResult, error) {
	if err := s.client.Write(ctx, clip.Filename, newText, newTitle); err != nil {
		return nil, SaveResult{}, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	updated := *clip
	updated.Transcript = newText
	if newTitle != nil {
		updated.Title = *newTitle
	}

	result := SaveResult{}
	if err := s.clips.UpdateClipText(updated.ID, updated.Transcript, newTitle); err != nil {
		logger.Warn("Clip store update failed after transcript file write; preview cache is stale",
			logger.String("clipId", updated.ID),
			logger.String("filename", updated.Filename),
			logger.ErrorField(err))
		result.CacheStale = true
	}

	return &updated, result, nil
}

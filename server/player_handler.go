package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/astevko/randombmir/core/navigation"
	"github.com/astevko/randombmir/core/player"
	"github.com/astevko/randombmir/core/transcript"
	"github.com/astevko/randombmir/logger"

	"github.com/gorilla/mux"
)

type playerActionRequest struct {
	Time   *float64 `json:"time,omitempty"`
	Volume *float64 `json:"volume,omitempty"`
}

// GetPlayerHandler returns the session's player snapshot, initializing the
// controller on first use.
func (h *APIHandler) GetPlayerHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sid"]
	c, outcome := h.players.Controller(r.Context(), sessionID)
	snap := c.Snapshot()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": outcome == player.OutcomeRecovered,
		"outcome": outcome,
		"player":  snap,
	})
}

// PlayerActionHandler applies a playback action for the session:
// next, previous, random, play, pause, seek, tick, volume.
func (h *APIHandler) PlayerActionHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["sid"]
	action := vars["action"]

	var req playerActionRequest
	if r.Body != nil {
		// Actions without parameters arrive with an empty body.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	c, _ := h.players.Controller(r.Context(), sessionID)
	ctx := r.Context()

	switch action {
	case "next":
		if _, err := c.Next(ctx); err != nil && !errors.Is(err, navigation.ErrEmptyCollection) {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	case "previous":
		if _, err := c.Previous(ctx); err != nil && !errors.Is(err, navigation.ErrEmptyCollection) {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	case "random":
		if _, err := c.Random(ctx); err != nil && !errors.Is(err, navigation.ErrEmptyCollection) {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	case "play":
		c.Play(ctx)
	case "pause":
		c.Pause(ctx)
	case "seek":
		if req.Time == nil {
			writeError(w, http.StatusBadRequest, "time is required for seek")
			return
		}
		c.Seek(ctx, *req.Time)
	case "tick":
		if req.Time == nil {
			writeError(w, http.StatusBadRequest, "time is required for tick")
			return
		}
		c.Tick(ctx, *req.Time)
	case "volume":
		if req.Volume == nil {
			writeError(w, http.StatusBadRequest, "volume is required")
			return
		}
		c.SetVolume(ctx, *req.Volume)
	default:
		writeError(w, http.StatusNotFound, "unknown action: "+action)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"player":  c.Snapshot(),
	})
}

// GetPlayerTranscriptHandler returns the full transcript for the current
// clip, degraded to the stored preview when the file is unavailable.
func (h *APIHandler) GetPlayerTranscriptHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sid"]
	c, _ := h.players.Controller(r.Context(), sessionID)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"content": c.LoadTranscript(r.Context()),
	})
}

type saveTranscriptRequest struct {
	Content string  `json:"content"`
	Title   *string `json:"title,omitempty"`
}

// SavePlayerTranscriptHandler saves an edited transcript for the current
// clip. A failed file write is the one fatal case; it is surfaced so the
// client keeps its edit buffer for retry. A stale store cache after a
// durable file write is still reported as success.
func (h *APIHandler) SavePlayerTranscriptHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sid"]

	var req saveTranscriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, _ := h.players.Controller(r.Context(), sessionID)
	clip, result, err := c.SaveTranscript(r.Context(), req.Content, req.Title)
	if err != nil {
		if errors.Is(err, transcript.ErrSaveFailed) {
			writeError(w, http.StatusBadGateway, "transcript save failed")
			return
		}
		logger.Error("Transcript save failed",
			logger.String("sessionId", sessionID),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"cacheStale": result.CacheStale,
		"clip":       clip,
	})
}

package server

import (
	"encoding/json"
	"net/http"

	"github.com/astevko/randombmir/cache"
	"github.com/astevko/randombmir/logger"
	"github.com/astevko/randombmir/model"

	"github.com/gorilla/mux"
)

type createSessionRequest struct {
	SessionID string `json:"sessionId"`
}

// CreateSessionHandler implements get-or-create for session identifiers:
// a known sessionId is echoed back, anything else yields a fresh one.
func (h *APIHandler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.Body != nil {
		// An empty body just means "mint a new session".
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	sessionID, err := cache.EnsureSession(r.Context(), req.SessionID)
	if err != nil {
		logger.Error("Failed to ensure session", logger.ErrorField(err))
		writeError(w, http.StatusServiceUnavailable, "session store unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"sessionId": sessionID,
	})
}

// GetSessionStateHandler returns the last persisted snapshot, or a null
// state when none exists yet. Absence is a normal condition, not an error.
func (h *APIHandler) GetSessionStateHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sid"]

	state, err := cache.GetPlayerState(r.Context(), sessionID)
	if err != nil {
		logger.Error("Failed to get player state",
			logger.String("sessionId", sessionID),
			logger.ErrorField(err))
		writeError(w, http.StatusServiceUnavailable, "session store unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"state":   state,
	})
}

// UpdateSessionStateHandler merges a partial update into the snapshot and
// returns the merged result.
func (h *APIHandler) UpdateSessionStateHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sid"]

	var update model.PlayerStateUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := cache.UpdatePlayerState(r.Context(), sessionID, update)
	if err != nil {
		logger.Error("Failed to update player state",
			logger.String("sessionId", sessionID),
			logger.ErrorField(err))
		writeError(w, http.StatusServiceUnavailable, "session store unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"state":   state,
	})
}

// DeleteSessionHandler wipes all persisted state for the session and
// forgets its controller.
func (h *APIHandler) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sid"]

	if err := cache.ResetSession(r.Context(), sessionID); err != nil {
		logger.Error("Failed to reset session",
			logger.String("sessionId", sessionID),
			logger.ErrorField(err))
		writeError(w, http.StatusServiceUnavailable, "session store unavailable")
		return
	}
	h.players.Drop(sessionID)

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

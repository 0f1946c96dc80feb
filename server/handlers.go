package server

import (
	"encoding/json"
	"net/http"

	"github.com/astevko/randombmir/config"
	"github.com/astevko/randombmir/core/player"
	"github.com/astevko/randombmir/logger"
	"github.com/astevko/randombmir/repository"
	"github.com/astevko/randombmir/storage"
)

// APIHandler holds the dependencies shared by all HTTP handlers.
type APIHandler struct {
	clipRepo    repository.ClipRepository
	transcripts *storage.TranscriptStore
	players     *player.Manager
	cfg         *config.Config
}

// NewAPIHandler creates the API handler set.
func NewAPIHandler(
	clipRepo repository.ClipRepository,
	transcripts *storage.TranscriptStore,
	players *player.Manager,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		clipRepo:    clipRepo,
		transcripts: transcripts,
		players:     players,
		cfg:         cfg,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode JSON response", logger.ErrorField(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   msg,
	})
}

package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/astevko/randombmir/logger"
	"github.com/astevko/randombmir/model"
	"github.com/astevko/randombmir/storage"
)

// GetTranscriptFileHandler serves the transcript file endpoint read side:
// GET ?filename=<f> -> {success, content}. Media filenames are normalized
// to their .txt resource names.
func (h *APIHandler) GetTranscriptFileHandler(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		writeError(w, http.StatusBadRequest, "filename is required")
		return
	}

	content, err := h.transcripts.ReadTranscript(r.Context(), model.TranscriptFilename(filename))
	if err != nil {
		if errors.Is(err, storage.ErrTranscriptNotFound) {
			writeError(w, http.StatusNotFound, "transcript not found")
			return
		}
		logger.Error("Failed to read transcript",
			logger.String("filename", filename),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to read transcript")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"content": content,
	})
}

type transcriptWriteRequest struct {
	Filename string  `json:"filename"`
	Content  string  `json:"content"`
	Title    *string `json:"title,omitempty"`
}

// PostTranscriptFileHandler serves the write side:
// POST {filename, content, title?} -> {success}. There is no file copy of
// the title; it travels with the request for callers that keep the store
// in sync themselves. Empty content is a valid clear.
func (h *APIHandler) PostTranscriptFileHandler(w http.ResponseWriter, r *http.Request) {
	var req transcriptWriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Filename == "" {
		writeError(w, http.StatusBadRequest, "filename is required")
		return
	}

	if err := h.transcripts.WriteTranscript(r.Context(), model.TranscriptFilename(req.Filename), req.Content); err != nil {
		logger.Error("Failed to write transcript",
			logger.String("filename", req.Filename),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to write transcript")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/astevko/randombmir/core/archive"
	"github.com/astevko/randombmir/logger"
	"github.com/astevko/randombmir/model"

	"github.com/gorilla/mux"
)

// GetClipsHandler returns the clip catalog in insertion order, optionally
// filtered by category via ?category= and bounded via ?limit=.
func (h *APIHandler) GetClipsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	var clips []*model.AudioClip
	var err error
	if raw := r.URL.Query().Get("category"); raw != "" {
		category, perr := model.ParseCategory(raw)
		if perr != nil {
			writeError(w, http.StatusBadRequest, perr.Error())
			return
		}
		clips, err = h.clipRepo.GetClipsByCategory(category, limit)
	} else {
		clips, err = h.clipRepo.GetAllClips()
	}
	if err != nil {
		logger.Error("Failed to load clips", logger.ErrorField(err))
		writeError(w, http.StatusServiceUnavailable, "clip store unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"docs":    clips,
	})
}

// GetClipHandler returns one clip by id.
func (h *APIHandler) GetClipHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	clip, err := h.clipRepo.GetClipByID(id)
	if err != nil {
		logger.Error("Failed to load clip", logger.String("id", id), logger.ErrorField(err))
		writeError(w, http.StatusServiceUnavailable, "clip store unavailable")
		return
	}
	if clip == nil {
		writeError(w, http.StatusNotFound, "clip not found")
		return
	}
	writeJSON(w, http.StatusOK, clip)
}

type createClipRequest struct {
	Title      string `json:"title"`
	AudioURL   string `json:"audioUrl"`
	Category   string `json:"category"`
	Filename   string `json:"filename"`
	Transcript string `json:"transcript"`
}

// CreateClipHandler creates a clip document. Filenames must be unique
// within their category; duplicates are rejected.
func (h *APIHandler) CreateClipHandler(w http.ResponseWriter, r *http.Request) {
	var req createClipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Filename == "" {
		writeError(w, http.StatusBadRequest, "filename is required")
		return
	}

	category, err := model.ParseCategory(req.Category)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := h.clipRepo.GetClipByFilename(category, req.Filename)
	if err != nil {
		logger.Error("Duplicate check failed", logger.String("filename", req.Filename), logger.ErrorField(err))
		writeError(w, http.StatusServiceUnavailable, "clip store unavailable")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "clip with this filename already exists")
		return
	}

	title := req.Title
	if title == "" {
		title = archive.TitleFromFilename(req.Filename)
	}
	audioURL := req.AudioURL
	if audioURL == "" {
		audioURL = archive.AudioURL(h.cfg.AudioBaseURL, category, req.Filename)
	}

	clip := &model.AudioClip{
		Title:      title,
		AudioURL:   audioURL,
		Category:   category,
		Filename:   req.Filename,
		Transcript: req.Transcript,
	}
	if _, err := h.clipRepo.CreateClip(clip); err != nil {
		logger.Error("Failed to create clip", logger.String("filename", req.Filename), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to create clip")
		return
	}

	writeJSON(w, http.StatusCreated, clip)
}

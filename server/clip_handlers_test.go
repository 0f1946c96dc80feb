package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/astevko/randombmir/config"
	"github.com/astevko/randombmir/model"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClipRepo struct {
	clips []*model.AudioClip
	err   error
}

func (s *stubClipRepo) CreateClip(clip *model.AudioClip) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	clip.ID = "new-id"
	s.clips = append(s.clips, clip)
	return clip.ID, nil
}

func (s *stubClipRepo) GetClipByID(id string) (*model.AudioClip, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, clip := range s.clips {
		if clip.ID == id {
			return clip, nil
		}
	}
	return nil, nil
}

func (s *stubClipRepo) GetClipByFilename(category model.Category, filename string) (*model.AudioClip, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, clip := range s.clips {
		if clip.Category == category && clip.Filename == filename {
			return clip, nil
		}
	}
	return nil, nil
}

func (s *stubClipRepo) GetClipsByCategory(category model.Category, limit int) ([]*model.AudioClip, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []*model.AudioClip
	for _, clip := range s.clips {
		if clip.Category == category {
			out = append(out, clip)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubClipRepo) GetAllClips() ([]*model.AudioClip, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.clips, nil
}

func (s *stubClipRepo) UpdateClipText(id string, transcript string, title *string) error {
	return s.err
}

func newClipRouter(repo *stubClipRepo) *mux.Router {
	h := NewAPIHandler(repo, nil, nil, &config.Config{
		AudioBaseURL: "https://s3-us-west-1.amazonaws.com/randombmir",
	})
	router := mux.NewRouter()
	router.HandleFunc("/api/clips", h.GetClipsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/clips", h.CreateClipHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/clips/{id}", h.GetClipHandler).Methods(http.MethodGet)
	return router
}

func TestGetClipsHandler(t *testing.T) {
	repo := &stubClipRepo{clips: []*model.AudioClip{
		{ID: "1", Category: model.CategoryRandom, Filename: "a.mp3"},
		{ID: "2", Category: model.CategoryWarnings, Filename: "b.mp3"},
	}}
	router := newClipRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clips", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool               `json:"success"`
		Docs    []*model.AudioClip `json:"docs"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Len(t, body.Docs, 2)
}

func TestGetClipsHandlerFiltersByCategory(t *testing.T) {
	repo := &stubClipRepo{clips: []*model.AudioClip{
		{ID: "1", Category: model.CategoryRandom, Filename: "a.mp3"},
		{ID: "2", Category: model.CategoryWarnings, Filename: "b.mp3"},
	}}
	router := newClipRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clips?category=warnings", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Docs []*model.AudioClip `json:"docs"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Docs, 1)
	assert.Equal(t, "2", body.Docs[0].ID)
}

func TestGetClipsHandlerRejectsUnknownCategory(t *testing.T) {
	router := newClipRouter(&stubClipRepo{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clips?category=bogus", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetClipsHandlerStoreUnavailable(t *testing.T) {
	router := newClipRouter(&stubClipRepo{err: errors.New("connection refused")})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clips", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCreateClipHandler(t *testing.T) {
	repo := &stubClipRepo{}
	router := newClipRouter(repo)

	payload, _ := json.Marshal(map[string]string{
		"category": "warnings",
		"filename": "04+dust+storm.mp3",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/clips", bytes.NewReader(payload)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var clip model.AudioClip
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&clip))
	assert.Equal(t, "new-id", clip.ID)
	assert.Equal(t, "Dust Storm", clip.Title, "missing title derives from the filename")
	assert.Equal(t, "https://s3-us-west-1.amazonaws.com/randombmir/warnings/04+dust+storm.mp3", clip.AudioURL)
}

func TestCreateClipHandlerRejectsDuplicateFilename(t *testing.T) {
	repo := &stubClipRepo{clips: []*model.AudioClip{
		{ID: "1", Category: model.CategoryWarnings, Filename: "04+dust+storm.mp3"},
	}}
	router := newClipRouter(repo)

	payload, _ := json.Marshal(map[string]string{
		"category": "warnings",
		"filename": "04+dust+storm.mp3",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/clips", bytes.NewReader(payload)))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetClipHandlerNotFound(t *testing.T) {
	router := newClipRouter(&stubClipRepo{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clips/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/astevko/randombmir/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClipRepo records UpdateClipText calls and can be told to fail.
type fakeClipRepo struct {
	updateErr      error
	updateCalls    int
	lastID         string
	lastTranscript string
	lastTitle      *string
}

func (f *fakeClipRepo) CreateClip(clip *model.AudioClip) (string, error) { return clip.ID, nil }
func (f *fakeClipRepo) GetClipByID(id string) (*model.AudioClip, error)  { return nil, nil }
func (f *fakeClipRepo) GetClipByFilename(category model.Category, filename string) (*model.AudioClip, error) {
	return nil, nil
}
func (f *fakeClipRepo) GetClipsByCategory(category model.Category, limit int) ([]*model.AudioClip, error) {
	return nil, nil
}
func (f *fakeClipRepo) GetAllClips() ([]*model.AudioClip, error) { return nil, nil }
func (f *fakeClipRepo) UpdateClipText(id string, transcript string, title *string) error {
	f.updateCalls++
	f.lastID = id
	f.lastTranscript = transcript
	f.lastTitle = title
	return f.updateErr
}

type endpointState struct {
	getFails   bool
	postFails  bool
	content    string
	postCount  int
	lastWrite  writeRequest
	lastGetArg string
}

func newEndpoint(t *testing.T, state *endpointState) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			state.lastGetArg = r.URL.Query().Get("filename")
			if state.getFails {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(fileResponse{Success: false, Error: "not found"})
				return
			}
			json.NewEncoder(w).Encode(fileResponse{Success: true, Content: state.content})
		case http.MethodPost:
			if state.postFails {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&state.lastWrite))
			state.postCount++
			json.NewEncoder(w).Encode(fileResponse{Success: true})
		}
	}))
}

func testClip() *model.AudioClip {
	return &model.AudioClip{
		ID:         "clip-1",
		Title:      "Old Title",
		Category:   model.CategoryRandom,
		Filename:   "01+morning+show.mp3",
		Transcript: "old preview",
	}
}

func TestLoadFullReturnsEndpointContent(t *testing.T) {
	state := &endpointState{content: "the complete transcript"}
	srv := newEndpoint(t, state)
	defer srv.Close()

	svc := NewService(NewClient(srv.URL), &fakeClipRepo{})
	got := svc.LoadFull(context.Background(), testClip())

	assert.Equal(t, "the complete transcript", got)
	assert.Equal(t, "01+morning+show.txt", state.lastGetArg, "media filename must map to the .txt resource")
}

func TestLoadFullDegradesToPreview(t *testing.T) {
	state := &endpointState{getFails: true}
	srv := newEndpoint(t, state)
	defer srv.Close()

	svc := NewService(NewClient(srv.URL), &fakeClipRepo{})
	got := svc.LoadFull(context.Background(), testClip())

	assert.Equal(t, "old preview", got, "a missing file degrades to the stored preview, never an error")
}

func TestLoadFullUnreachableEndpoint(t *testing.T) {
	svc := NewService(NewClient("http://127.0.0.1:1"), &fakeClipRepo{})
	got := svc.LoadFull(context.Background(), testClip())
	assert.Equal(t, "old preview", got)
}

func TestSaveWritesFileThenStore(t *testing.T) {
	state := &endpointState{}
	srv := newEndpoint(t, state)
	defer srv.Close()

	repo := &fakeClipRepo{}
	svc := NewService(NewClient(srv.URL), repo)

	clip := testClip()
	title := "New Title"
	updated, result, err := svc.Save(context.Background(), clip, "new text", &title)
	require.NoError(t, err)

	assert.Equal(t, "new text", updated.Transcript)
	assert.Equal(t, "New Title", updated.Title)
	assert.False(t, result.CacheStale)

	// The input clip is never mutated; the update is a structural copy.
	assert.Equal(t, "old preview", clip.Transcript)
	assert.Equal(t, "Old Title", clip.Title)

	assert.Equal(t, 1, state.postCount)
	assert.Equal(t, "01+morning+show.txt", state.lastWrite.Filename)
	assert.Equal(t, "new text", state.lastWrite.Content)

	assert.Equal(t, 1, repo.updateCalls)
	assert.Equal(t, "clip-1", repo.lastID)
	assert.Equal(t, "new text", repo.lastTranscript)
	require.NotNil(t, repo.lastTitle)
	assert.Equal(t, "New Title", *repo.lastTitle)
}

func TestSaveFileWriteFailureIsFatalAndHappensFirst(t *testing.T) {
	state := &endpointState{postFails: true}
	srv := newEndpoint(t, state)
	defer srv.Close()

	repo := &fakeClipRepo{}
	svc := NewService(NewClient(srv.URL), repo)

	clip := testClip()
	updated, _, err := svc.Save(context.Background(), clip, "new text", nil)

	assert.ErrorIs(t, err, ErrSaveFailed)
	assert.Nil(t, updated)
	assert.Equal(t, "old preview", clip.Transcript, "a failed file write leaves the clip untouched")
	assert.Equal(t, 0, repo.updateCalls, "the store must never be written before the file write succeeds")
}

func TestSaveStoreFailureIsDegradedSuccess(t *testing.T) {
	state := &endpointState{}
	srv := newEndpoint(t, state)
	defer srv.Close()

	repo := &fakeClipRepo{updateErr: errors.New("store down")}
	svc := NewService(NewClient(srv.URL), repo)

	updated, result, err := svc.Save(context.Background(), testClip(), "new text", nil)
	require.NoError(t, err, "a stale store cache is not a save failure")

	assert.Equal(t, "new text", updated.Transcript)
	assert.True(t, result.CacheStale)
	assert.Equal(t, 1, state.postCount, "the file write still happened")
}

func TestSaveEmptyTextClearsTranscript(t *testing.T) {
	state := &endpointState{}
	srv := newEndpoint(t, state)
	defer srv.Close()

	svc := NewService(NewClient(srv.URL), &fakeClipRepo{})
	updated, _, err := svc.Save(context.Background(), testClip(), "", nil)
	require.NoError(t, err)

	assert.Equal(t, "", updated.Transcript)
	assert.Equal(t, "", state.lastWrite.Content)
}

package archive

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/astevko/randombmir/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memClipRepo struct {
	clips     []*model.AudioClip
	createErr error
}

func (m *memClipRepo) CreateClip(clip *model.AudioClip) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	if clip.ID == "" {
		clip.ID = clip.Filename
	}
	m.clips = append(m.clips, clip)
	return clip.ID, nil
}

func (m *memClipRepo) GetClipByID(id string) (*model.AudioClip, error) {
	for _, clip := range m.clips {
		if clip.ID == id {
			return clip, nil
		}
	}
	return nil, nil
}

func (m *memClipRepo) GetClipByFilename(category model.Category, filename string) (*model.AudioClip, error) {
	for _, clip := range m.clips {
		if clip.Category == category && clip.Filename == filename {
			return clip, nil
		}
	}
	return nil, nil
}

func (m *memClipRepo) GetClipsByCategory(category model.Category, limit int) ([]*model.AudioClip, error) {
	var out []*model.AudioClip
	for _, clip := range m.clips {
		if clip.Category == category {
			out = append(out, clip)
		}
	}
	return out, nil
}

func (m *memClipRepo) GetAllClips() ([]*model.AudioClip, error) { return m.clips, nil }

func (m *memClipRepo) UpdateClipText(id string, transcript string, title *string) error { return nil }

type memTranscripts struct {
	written map[string]string
}

func (m *memTranscripts) WriteTranscript(ctx context.Context, filename, content string) error {
	if m.written == nil {
		m.written = make(map[string]string)
	}
	m.written[filename] = content
	return nil
}

func TestCategoryForFilename(t *testing.T) {
	assert.Equal(t, model.CategoryLongTalks, CategoryForFilename("01+fire+talk.mp3"))
	assert.Equal(t, model.CategoryRandom, CategoryForFilename("02+station+id.mp3"))
	assert.Equal(t, model.CategoryCampsArts, CategoryForFilename("03+camp+tour.mp3"))
	assert.Equal(t, model.CategoryWarnings, CategoryForFilename("04+dust+storm.mp3"))
	assert.Equal(t, model.CategoryRandom, CategoryForFilename("99+unknown.mp3"), "unknown prefixes default to random")
	assert.Equal(t, model.CategoryRandom, CategoryForFilename("no-prefix.mp3"))
}

func TestAudioURL(t *testing.T) {
	url := AudioURL("https://s3-us-west-1.amazonaws.com/randombmir", model.CategoryCampsArts, "03+camp+tour.mp3")
	assert.Equal(t, "https://s3-us-west-1.amazonaws.com/randombmir/camps+and+arts/03+camp+tour.mp3", url)

	// A trailing slash on the base does not double up.
	url = AudioURL("https://example.com/bucket/", model.CategoryRandom, "x.mp3")
	assert.Equal(t, "https://example.com/bucket/random/x.mp3", url)
}

func TestTitleFromFilename(t *testing.T) {
	assert.Equal(t, "Fire Safety Talk", TitleFromFilename("01+fire+safety+talk.mp3"))
	assert.Equal(t, "Dust Storm", TitleFromFilename("04+dust+storm.mp3"))
	assert.Equal(t, "Plain", TitleFromFilename("plain.mp3"))
}

func TestFirstSentence(t *testing.T) {
	assert.Equal(t, "Welcome to BMIR", FirstSentence("Welcome to BMIR. The voice of the man."))
	assert.Equal(t, "Hello there", FirstSentence("  Hello   there!  "))

	long := "This opening sentence keeps going and going far past any reasonable title length"
	got := FirstSentence(long + ".")
	assert.Len(t, got, 50)
	assert.Equal(t, "...", got[47:])
}

func TestFirstSentenceTruncatesOnRuneBoundary(t *testing.T) {
	// 46 ASCII characters followed by multi-byte runes straddling the
	// cutoff; truncation must not split a rune.
	long := strings.Repeat("a", 46) + strings.Repeat("é", 10)
	got := FirstSentence(long)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", 46)+"é...", got)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestImportDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "01+fire+talk.mp3", "audio")
	writeFile(t, dir, "01+fire+talk.title", "Fire Talk Special")
	writeFile(t, dir, "01+fire+talk.txt", "A talk about fire safety. Stay safe out there.")
	writeFile(t, dir, "04+dust+storm.mp3", "audio")
	writeFile(t, dir, "04+dust+storm.txt", "Whiteout conditions expected this afternoon. Seek shelter.")
	writeFile(t, dir, "notes.md", "ignored")

	repo := &memClipRepo{}
	transcripts := &memTranscripts{}
	importer := NewImporter(repo, transcripts, "https://s3-us-west-1.amazonaws.com/randombmir")

	stats, err := importer.ImportDir(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Imported)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, 0, stats.Failed)

	fire, err := repo.GetClipByFilename(model.CategoryLongTalks, "01+fire+talk.mp3")
	require.NoError(t, err)
	require.NotNil(t, fire)
	assert.Equal(t, "Fire Talk Special", fire.Title, "sidecar .title wins")
	assert.Equal(t, "https://s3-us-west-1.amazonaws.com/randombmir/long+talks/01+fire+talk.mp3", fire.AudioURL)
	assert.Equal(t, "A talk about fire safety. Stay safe out there.", fire.Transcript)

	storm, err := repo.GetClipByFilename(model.CategoryWarnings, "04+dust+storm.mp3")
	require.NoError(t, err)
	require.NotNil(t, storm)
	assert.Equal(t, "Whiteout conditions expected this afternoon", storm.Title, "no sidecar title falls back to the transcript's first sentence")

	assert.Equal(t, "A talk about fire safety. Stay safe out there.", transcripts.written["01+fire+talk.txt"])
	assert.Contains(t, transcripts.written, "04+dust+storm.txt")
}

func TestImportDirSkipsDuplicates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "02+station+id.mp3", "audio")

	repo := &memClipRepo{}
	importer := NewImporter(repo, nil, "https://example.com")

	stats, err := importer.ImportDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Imported)

	stats, err = importer.ImportDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Imported)
	assert.Equal(t, 1, stats.Skipped)
	assert.Len(t, repo.clips, 1)
}

func TestImportDirTitleFromFilenameWhenNoSidecars(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "02+late+night.mp3", "audio")

	repo := &memClipRepo{}
	importer := NewImporter(repo, nil, "https://example.com")

	_, err := importer.ImportDir(context.Background(), dir)
	require.NoError(t, err)

	clip, err := repo.GetClipByFilename(model.CategoryRandom, "02+late+night.mp3")
	require.NoError(t, err)
	require.NotNil(t, clip)
	assert.Equal(t, "Late Night", clip.Title)
}

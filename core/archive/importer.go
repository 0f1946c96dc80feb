// Package archive holds the offline utilities around the clip catalog:
// seeding clips from a directory of media files with sidecar title and
// transcript files, and bulk-downloading audio assets for backup.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/astevko/randombmir/logger"
	"github.com/astevko/randombmir/model"
	"github.com/astevko/randombmir/repository"
)

// prefixCategories maps the numeric filename prefix used by the source
// recordings to a category. Unrecognized prefixes default to random.
var prefixCategories = map[string]model.Category{
	"01": model.CategoryLongTalks,
	"02": model.CategoryRandom,
	"03": model.CategoryCampsArts,
	"04": model.CategoryWarnings,
}

var numericPrefix = regexp.MustCompile(`^(\d{2})[+_\- ]`)

// CategoryForFilename derives a clip's category from its filename's
// numeric prefix.
func CategoryForFilename(filename string) model.Category {
	if m := numericPrefix.FindStringSubmatch(filename); m != nil {
		if cat, ok := prefixCategories[m[1]]; ok {
			return cat
		}
	}
	return model.CategoryRandom
}

// AudioURL builds the remote asset URL for a filename: the base URL plus
// the category's +-encoded path segment plus the filename as stored.
func AudioURL(baseURL string, category model.Category, filename string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(baseURL, "/"), category.URLSegment(), filename)
}

// TitleFromFilename cleans a media filename into a display title:
// numeric prefix and extension stripped, + separators replaced by spaces.
func TitleFromFilename(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	if m := numericPrefix.FindStringSubmatch(name); m != nil {
		name = name[len(m[0]):]
	}
	name = strings.ReplaceAll(name, "+", " ")
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// FirstSentence extracts the first sentence of a transcript, cleaned and
// truncated to 50 characters, as a title of last resort.
func FirstSentence(transcript string) string {
	text := strings.TrimSpace(transcript)
	if idx := strings.IndexAny(text, ".!?"); idx >= 0 {
		text = text[:idx]
	}
	text = strings.Join(strings.Fields(text), " ")
	if runes := []rune(text); len(runes) > 50 {
		text = string(runes[:47]) + "..."
	}
	return text
}

// TranscriptWriter stores full transcript text under a clip's transcript
// resource name.
type TranscriptWriter interface {
	WriteTranscript(ctx context.Context, filename, content string) error
}

// ImportStats summarizes one import run.
type ImportStats struct {
	Total    int
	Imported int
	Skipped  int
	Failed   int
}

// Importer seeds AudioClip documents from a directory of media files
// paired with sidecar .title and .txt files.
type Importer struct {
	clips       repository.ClipRepository
	transcripts TranscriptWriter
	baseURL     string
}

// NewImporter creates an importer. transcripts may be nil when transcript
// upload is not wanted.
func NewImporter(clips repository.ClipRepository, transcripts TranscriptWriter, baseURL string) *Importer {
	return &Importer{clips: clips, transcripts: transcripts, baseURL: baseURL}
}

// ImportDir walks dir for .mp3 files and creates a clip for each one not
// already present, reading sidecar files for titles and transcripts.
// Already-imported filenames are skipped, so re-running is safe.
func (im *Importer) ImportDir(ctx context.Context, dir string) (*ImportStats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read import directory %s: %w", dir, err)
	}

	stats := &ImportStats{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".mp3") {
			continue
		}
		stats.Total++

		if err := im.importFile(ctx, dir, entry.Name(), stats); err != nil {
			stats.Failed++
			logger.Error("Failed to import clip",
				logger.String("filename", entry.Name()),
				logger.ErrorField(err))
		}
	}

	logger.Info("Import finished",
		logger.Int("total", stats.Total),
		logger.Int("imported", stats.Imported),
		logger.Int("skipped", stats.Skipped),
		logger.Int("failed", stats.Failed))
	return stats, nil
}

func (im *Importer) importFile(ctx context.Context, dir, filename string, stats *ImportStats) error {
	category := CategoryForFilename(filename)

	existing, err := im.clips.GetClipByFilename(category, filename)
	if err != nil {
		return fmt.Errorf("duplicate check failed: %w", err)
	}
	if existing != nil {
		stats.Skipped++
		logger.Debug("Clip already imported, skipping", logger.String("filename", filename))
		return nil
	}

	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	transcriptText := readSidecar(filepath.Join(dir, base+".txt"))
	title := readSidecar(filepath.Join(dir, base+".title"))
	if title == "" && transcriptText != "" {
		title = FirstSentence(transcriptText)
	}
	if title == "" {
		title = TitleFromFilename(filename)
	}

	clip := &model.AudioClip{
		Title:      title,
		AudioURL:   AudioURL(im.baseURL, category, filename),
		Category:   category,
		Filename:   filename,
		Transcript: transcriptText,
		CreatedAt:  time.Now().UnixMilli(),
	}
	if _, err := im.clips.CreateClip(clip); err != nil {
		return fmt.Errorf("create failed: %w", err)
	}

	if im.transcripts != nil && transcriptText != "" {
		if err := im.transcripts.WriteTranscript(ctx, model.TranscriptFilename(filename), transcriptText); err != nil {
			// The clip exists; the full transcript can be re-uploaded later.
			logger.Warn("Failed to upload transcript file",
				logger.String("filename", filename),
				logger.ErrorField(err))
		}
	}

	stats.Imported++
	return nil
}

func readSidecar(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

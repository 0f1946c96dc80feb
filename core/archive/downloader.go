package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/astevko/randombmir/logger"
	"github.com/astevko/randombmir/model"
	"github.com/astevko/randombmir/repository"
)

// DownloadStats summarizes one backup run.
type DownloadStats struct {
	Total      int
	Downloaded int
	Skipped    int
	Failed     int
	TotalBytes int64
}

// Downloader bulk-downloads every clip's audio asset to a local,
// category-structured directory for backup.
type Downloader struct {
	clips      repository.ClipRepository
	httpClient *http.Client
	backupDir  string
}

// NewDownloader creates a backup downloader writing under backupDir.
func NewDownloader(clips repository.ClipRepository, backupDir string) *Downloader {
	return &Downloader{
		clips:      clips,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		backupDir:  backupDir,
	}
}

// DownloadAll fetches every clip's audio file, mirroring the remote
// category layout. Files already present on disk with a non-zero size are
// skipped, so interrupted runs can simply be restarted.
func (d *Downloader) DownloadAll(ctx context.Context) (*DownloadStats, error) {
	clips, err := d.clips.GetAllClips()
	if err != nil {
		return nil, fmt.Errorf("failed to load clip catalog: %w", err)
	}

	stats := &DownloadStats{}
	for _, clip := range clips {
		stats.Total++
		size, err := d.downloadClip(ctx, clip)
		if err != nil {
			stats.Failed++
			logger.Error("Failed to download audio asset",
				logger.String("filename", clip.Filename),
				logger.String("url", clip.AudioURL),
				logger.ErrorField(err))
			continue
		}
		if size < 0 {
			stats.Skipped++
			continue
		}
		stats.Downloaded++
		stats.TotalBytes += size
	}

	logger.Info("Backup finished",
		logger.Int("total", stats.Total),
		logger.Int("downloaded", stats.Downloaded),
		logger.Int("skipped", stats.Skipped),
		logger.Int("failed", stats.Failed),
		logger.Int64("bytes", stats.TotalBytes))
	return stats, nil
}

// downloadClip returns the downloaded size, or -1 when the file already
// existed.
func (d *Downloader) downloadClip(ctx context.Context, clip *model.AudioClip) (int64, error) {
	dir := filepath.Join(d.backupDir, clip.Category.URLSegment())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create backup directory %s: %w", dir, err)
	}

	localPath := filepath.Join(dir, clip.Filename)
	if info, err := os.Stat(localPath); err == nil && info.Size() > 0 {
		return -1, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, clip.AudioURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, clip.AudioURL)
	}

	tmpPath := localPath + ".part"
	out, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", tmpPath, err)
	}

	size, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to write %s: %w", localPath, err)
	}

	if err := os.Rename(tmpPath, localPath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to finalize %s: %w", localPath, err)
	}

	logger.Debug("Downloaded audio asset",
		logger.String("filename", clip.Filename),
		logger.Int64("bytes", size))
	return size, nil
}

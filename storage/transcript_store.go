package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
)

// ErrTranscriptNotFound is returned when no transcript object exists for
// a filename. Callers treat this as a degraded-but-valid state.
var ErrTranscriptNotFound = errors.New("transcript not found")

const transcriptPrefix = "transcripts/"

// TranscriptStore holds transcript text files as objects under a fixed
// prefix in the bucket.
type TranscriptStore struct {
	client *minio.Client
	bucket string
}

// NewTranscriptStore creates a transcript store over the shared client.
func NewTranscriptStore(client *minio.Client, bucket string) *TranscriptStore {
	return &TranscriptStore{client: client, bucket: bucket}
}

func objectName(filename string) string {
	return transcriptPrefix + strings.TrimPrefix(filename, "/")
}

// ReadTranscript returns the stored transcript text for a .txt resource
// name, or ErrTranscriptNotFound when no object exists.
func (s *TranscriptStore) ReadTranscript(ctx context.Context, filename string) (string, error) {
	object, err := s.client.GetObject(ctx, s.bucket, objectName(filename), minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to get transcript object %s: %w", filename, err)
	}
	defer object.Close()

	content, err := io.ReadAll(object)
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return "", ErrTranscriptNotFound
		}
		return "", fmt.Errorf("failed to read transcript object %s: %w", filename, err)
	}
	return string(content), nil
}

// WriteTranscript stores transcript text under a .txt resource name.
// Empty content is a valid write that clears the transcript.
func (s *TranscriptStore) WriteTranscript(ctx context.Context, filename, content string) error {
	reader := strings.NewReader(content)
	_, err := s.client.PutObject(ctx, s.bucket, objectName(filename), reader, int64(len(content)), minio.PutObjectOptions{
		ContentType: "text/plain",
	})
	if err != nil {
		return fmt.Errorf("failed to put transcript object %s: %w", filename, err)
	}
	return nil
}

// ListTranscripts returns the stored transcript resource names, optionally
// filtered by prefix.
func (s *TranscriptStore) ListTranscripts(ctx context.Context, prefix string) ([]string, error) {
	opts := minio.ListObjectsOptions{
		Prefix:    transcriptPrefix + prefix,
		Recursive: true,
	}

	var names []string
	for object := range s.client.ListObjects(ctx, s.bucket, opts) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list transcript objects: %w", object.Err)
		}
		names = append(names, strings.TrimPrefix(object.Key, transcriptPrefix))
	}
	return names, nil
}

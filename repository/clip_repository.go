package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/astevko/randombmir/db"
	"github.com/astevko/randombmir/logger"
	"github.com/astevko/randombmir/model"

	"github.com/google/uuid"
)

// ClipRepository defines the interface for audio clip data operations.
type ClipRepository interface {
	CreateClip(clip *model.AudioClip) (string, error)
	GetClipByID(id string) (*model.AudioClip, error)
	GetClipByFilename(category model.Category, filename string) (*model.AudioClip, error)
	GetClipsByCategory(category model.Category, limit int) ([]*model.AudioClip, error)
	GetAllClips() ([]*model.AudioClip, error)
	UpdateClipText(id string, transcript string, title *string) error
}

// mysqlClipRepository implements ClipRepository for MySQL.
type mysqlClipRepository struct {
	DB *sql.DB
}

// NewMySQLClipRepository creates a new instance of mysqlClipRepository.
func NewMySQLClipRepository() ClipRepository {
	return &mysqlClipRepository{DB: db.DB}
}

const clipColumns = `id, title, audio_url, category, filename, transcript, created_at`

// CreateClip adds a new clip to the database, assigning its id.
func (r *mysqlClipRepository) CreateClip(clip *model.AudioClip) (string, error) {
	if clip.ID == "" {
		clip.ID = uuid.NewString()
	}
	if clip.CreatedAt == 0 {
		clip.CreatedAt = time.Now().UnixMilli()
	}

	query := `INSERT INTO clips (id, title, audio_url, category, filename, transcript, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	stmt, err := r.DB.Prepare(query)
	if err != nil {
		return "", fmt.Errorf("failed to prepare statement for CreateClip: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(clip.ID, clip.Title, clip.AudioURL, string(clip.Category), clip.Filename, clip.Transcript, clip.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to execute CreateClip: %w", err)
	}
	logger.Info("Clip created", logger.String("id", clip.ID), logger.String("title", clip.Title))
	return clip.ID, nil
}

// GetClipByID retrieves a clip by its ID.
func (r *mysqlClipRepository) GetClipByID(id string) (*model.AudioClip, error) {
	query := `SELECT ` + clipColumns + ` FROM clips WHERE id = ?`
	row := r.DB.QueryRow(query, id)

	clip, err := scanClip(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Clip not found
		}
		return nil, fmt.Errorf("failed to scan clip by ID %s: %w", id, err)
	}
	return clip, nil
}

// GetClipByFilename retrieves a clip by its source filename within a
// category, used for duplicate-import detection.
func (r *mysqlClipRepository) GetClipByFilename(category model.Category, filename string) (*model.AudioClip, error) {
	query := `SELECT ` + clipColumns + ` FROM clips WHERE category = ? AND filename = ?`
	row := r.DB.QueryRow(query, string(category), filename)

	clip, err := scanClip(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Clip not found
		}
		return nil, fmt.Errorf("failed to scan clip by category %s and filename %s: %w", category, filename, err)
	}
	return clip, nil
}

// GetClipsByCategory retrieves clips for one category in insertion order.
// The returned order is what navigation treats as authoritative.
func (r *mysqlClipRepository) GetClipsByCategory(category model.Category, limit int) ([]*model.AudioClip, error) {
	query := `SELECT ` + clipColumns + ` FROM clips WHERE category = ? ORDER BY created_at ASC, id ASC`
	args := []interface{}{string(category)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query clips for category %s: %w", category, err)
	}
	defer rows.Close()

	return collectClips(rows, "GetClipsByCategory")
}

// GetAllClips retrieves every clip in insertion order.
func (r *mysqlClipRepository) GetAllClips() ([]*model.AudioClip, error) {
	query := `SELECT ` + clipColumns + ` FROM clips ORDER BY created_at ASC, id ASC`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query all clips: %w", err)
	}
	defer rows.Close()

	return collectClips(rows, "GetAllClips")
}

// UpdateClipText updates a clip's transcript preview and, when title is
// non-nil, its display title.
func (r *mysqlClipRepository) UpdateClipText(id string, transcript string, title *string) error {
	var err error
	if title != nil {
		query := `UPDATE clips SET transcript = ?, title = ? WHERE id = ?`
		_, err = r.DB.Exec(query, transcript, *title, id)
	} else {
		query := `UPDATE clips SET transcript = ? WHERE id = ?`
		_, err = r.DB.Exec(query, transcript, id)
	}
	if err != nil {
		return fmt.Errorf("failed to execute UpdateClipText for clip ID %s: %w", id, err)
	}
	logger.Info("Clip text updated", logger.String("id", id))
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClip(row rowScanner) (*model.AudioClip, error) {
	clip := &model.AudioClip{}
	var category string
	var transcript sql.NullString
	err := row.Scan(&clip.ID, &clip.Title, &clip.AudioURL, &category, &clip.Filename, &transcript, &clip.CreatedAt)
	if err != nil {
		return nil, err
	}
	clip.Category = model.Category(category)
	clip.Transcript = transcript.String
	return clip, nil
}

func collectClips(rows *sql.Rows, op string) ([]*model.AudioClip, error) {
	clips := make([]*model.AudioClip, 0)
	for rows.Next() {
		clip, err := scanClip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clip in %s: %w", op, err)
		}
		clips = append(clips, clip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in %s: %w", op, err)
	}
	return clips, nil
}

// Package videosql stores videos in the embedded SQL database.
package videosql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/riverdub/riverdub/internal/domain"
	domvideo "github.com/riverdub/riverdub/internal/domain/video"
)

const columns = `id, title, type, description, filename, mime, preview_filename, threshold, season, episode, created_at`

// querier is the consumer interface for the SQL driver (ISP).
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repo implements usecase/video.Repository and usecase/catalog.Lister on SQLite.
type Repo struct {
	db querier
}

// New creates a SQL video repository.
func New(db querier) *Repo {
	return &Repo{db: db}
}

// Create inserts a new video.
func (r *Repo) Create(ctx context.Context, v domvideo.Video) error {
	var exists int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM videos WHERE id = ?`, v.ID()).Scan(&exists); err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists > 0 {
		return domain.ErrAlreadyExists
	}

	row := toRow(v)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO videos (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.id, row.title, row.typ, row.description, row.filename, row.mime,
		row.previewFilename, row.threshold, row.season, row.episode, row.createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert video %s: %w", v.ID(), err)
	}
	return nil
}

// Update overwrites the mutable fields of an existing video. created_at is kept.
func (r *Repo) Update(ctx context.Context, v domvideo.Video) error {
	row := toRow(v)
	res, err := r.db.ExecContext(ctx,
		`UPDATE videos
         SET title = ?, type = ?, description = ?, filename = ?, mime = ?,
             preview_filename = ?, threshold = ?, season = ?, episode = ?
         WHERE id = ?`,
		row.title, row.typ, row.description, row.filename, row.mime,
		row.previewFilename, row.threshold, row.season, row.episode, row.id,
	)
	if err != nil {
		return fmt.Errorf("update video %s: %w", v.ID(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Get fetches a video by ID.
func (r *Repo) Get(ctx context.Context, id string) (domvideo.Video, error) {
	v, err := scanVideo(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM videos WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domvideo.Video{}, domain.ErrNotFound
	}
	if err != nil {
		return domvideo.Video{}, fmt.Errorf("get video %s: %w", id, err)
	}
	return v, nil
}

// List returns videos newest first, ties broken by ID descending.
// A non-empty typ keeps only videos of that exact type.
func (r *Repo) List(ctx context.Context, typ domvideo.Type) ([]domvideo.Video, error) {
	query := `SELECT ` + columns + ` FROM videos`
	var args []any
	if typ != "" {
		query += ` WHERE type = ?`
		args = append(args, string(typ))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	videos := []domvideo.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return videos, nil
}

package videosql

import (
	"database/sql"
	"fmt"

	domvideo "github.com/riverdub/riverdub/internal/domain/video"
)

type videoRow struct {
	id              string
	title           string
	typ             string
	description     string
	filename        string
	mime            string
	previewFilename sql.NullString
	threshold       int
	season          sql.NullInt64
	episode         sql.NullInt64
	createdAt       string
}

type scanner interface {
	Scan(dest ...any) error
}

func toRow(v domvideo.Video) videoRow {
	row := videoRow{
		id:          v.ID(),
		title:       v.Title(),
		typ:         string(v.Type()),
		description: v.Description(),
		filename:    v.Filename(),
		mime:        v.Mime(),
		threshold:   v.Threshold(),
		createdAt:   domvideo.FormatTimestamp(v.CreatedAt()),
	}
	if preview, ok := v.PreviewFilename(); ok {
		row.previewFilename = sql.NullString{String: preview, Valid: true}
	}
	if season, ok := v.Numbering().Season(); ok {
		episode, _ := v.Numbering().Episode()
		row.season = sql.NullInt64{Int64: int64(season), Valid: true}
		row.episode = sql.NullInt64{Int64: int64(episode), Valid: true}
	}
	return row
}

func scanVideo(s scanner) (domvideo.Video, error) {
	var (
		row         videoRow
		description sql.NullString
	)
	if err := s.Scan(
		&row.id, &row.title, &row.typ, &description, &row.filename, &row.mime,
		&row.previewFilename, &row.threshold, &row.season, &row.episode, &row.createdAt,
	); err != nil {
		return domvideo.Video{}, err
	}

	createdAt, err := domvideo.ParseTimestamp(row.createdAt)
	if err != nil {
		return domvideo.Video{}, err
	}

	numbering := domvideo.Unnumbered()
	if row.season.Valid && row.episode.Valid {
		numbering, err = domvideo.NewNumbering(int(row.season.Int64), int(row.episode.Int64))
		if err != nil {
			return domvideo.Video{}, fmt.Errorf("video %s: %w", row.id, err)
		}
	}

	return domvideo.Reconstruct(domvideo.Params{
		ID:              row.id,
		Title:           row.title,
		Type:            domvideo.Type(row.typ),
		Description:     description.String,
		Numbering:       numbering,
		Filename:        row.filename,
		Mime:            row.mime,
		PreviewFilename: row.previewFilename.String,
		Threshold:       row.threshold,
		CreatedAt:       createdAt,
	}), nil
}

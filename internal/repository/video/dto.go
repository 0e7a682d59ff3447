package video

import (
	"fmt"
	"strconv"

	domvideo "github.com/riverdub/riverdub/internal/domain/video"
)

// videoToHash converts a domain Video to a map for HSET.
// Absent optional values are stored as empty strings.
func videoToHash(v domvideo.Video) map[string]string {
	m := map[string]string{
		"id":               v.ID(),
		"title":            v.Title(),
		"type":             string(v.Type()),
		"description":      v.Description(),
		"filename":         v.Filename(),
		"mime":             v.Mime(),
		"preview_filename": "",
		"season":           "",
		"episode":          "",
		"threshold":        strconv.Itoa(v.Threshold()),
		"created_at":       domvideo.FormatTimestamp(v.CreatedAt()),
	}
	if preview, ok := v.PreviewFilename(); ok {
		m["preview_filename"] = preview
	}
	if season, ok := v.Numbering().Season(); ok {
		episode, _ := v.Numbering().Episode()
		m["season"] = strconv.Itoa(season)
		m["episode"] = strconv.Itoa(episode)
	}
	return m
}

// videoFromHash hydrates a domain Video from an HGETALL result map.
func videoFromHash(m map[string]string) (domvideo.Video, error) {
	createdAt, err := domvideo.ParseTimestamp(m["created_at"])
	if err != nil {
		return domvideo.Video{}, err
	}

	numbering, err := domvideo.ParseNumbering(m["season"], m["episode"])
	if err != nil {
		return domvideo.Video{}, fmt.Errorf("invalid numbering: %w", err)
	}

	threshold := domvideo.DefaultThreshold
	if s := m["threshold"]; s != "" {
		if parsed, err := strconv.Atoi(s); err == nil {
			threshold = parsed
		}
	}

	return domvideo.Reconstruct(domvideo.Params{
		ID:              m["id"],
		Title:           m["title"],
		Type:            domvideo.Type(m["type"]),
		Description:     m["description"],
		Numbering:       numbering,
		Filename:        m["filename"],
		Mime:            m["mime"],
		PreviewFilename: m["preview_filename"],
		Threshold:       threshold,
		CreatedAt:       createdAt,
	}), nil
}

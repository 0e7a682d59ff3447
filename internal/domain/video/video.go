package video

import (
	"fmt"
	"strings"
	"time"

	"github.com/riverdub/riverdub/internal/domain"
)

// TimestampLayout is the stored created_at format: UTC with millisecond precision,
// so lexical order equals chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Type is a catalog tag from the configured vocabulary.
type Type string

// Params carries the fields of a new or updated video.
type Params struct {
	ID              string
	Title           string
	Type            Type
	Description     string
	Numbering       Numbering
	Filename        string
	Mime            string
	PreviewFilename string
	Threshold       int
	CreatedAt       time.Time
}

// Video is the catalog entry aggregate (immutable value object).
type Video struct {
	id              string
	title           string
	videoType       Type
	description     string
	numbering       Numbering
	filename        string
	mime            string
	previewFilename string
	threshold       int
	createdAt       time.Time
}

// New validates and creates a Video.
// Title and type are required and the type must be in vocab. File name and mime are required.
func New(p Params, vocab Vocabulary) (Video, error) {
	if p.ID == "" {
		return Video{}, fmt.Errorf("video ID is required")
	}
	if strings.TrimSpace(p.Title) == "" || p.Type == "" {
		return Video{}, fmt.Errorf("title and type are required: %w", domain.ErrFieldsRequired)
	}
	if !vocab.Allows(p.Type) {
		return Video{}, fmt.Errorf("type %q: %w", p.Type, domain.ErrInvalidType)
	}
	if p.Filename == "" {
		return Video{}, fmt.Errorf("media file is required: %w", domain.ErrFileRequired)
	}
	if p.Mime == "" {
		p.Mime = "application/octet-stream"
	}
	if p.Threshold < MinThreshold || p.Threshold > MaxThreshold {
		return Video{}, fmt.Errorf("threshold must be between %d and %d, got %d", MinThreshold, MaxThreshold, p.Threshold)
	}
	if p.CreatedAt.IsZero() {
		return Video{}, fmt.Errorf("created_at is required")
	}
	return Reconstruct(p), nil
}

// Reconstruct creates a Video without validation (storage hydration).
func Reconstruct(p Params) Video {
	return Video{
		id:              p.ID,
		title:           p.Title,
		videoType:       p.Type,
		description:     p.Description,
		numbering:       p.Numbering,
		filename:        p.Filename,
		mime:            p.Mime,
		previewFilename: p.PreviewFilename,
		threshold:       p.Threshold,
		createdAt:       p.CreatedAt.UTC().Truncate(time.Millisecond),
	}
}

// ID returns the video identifier.
func (v *Video) ID() string { return v.id }

// Title returns the video title.
func (v *Video) Title() string { return v.title }

// Type returns the catalog tag.
func (v *Video) Type() Type { return v.videoType }

// Description returns the description, possibly empty.
func (v *Video) Description() string { return v.description }

// Numbering returns the season/episode pair.
func (v *Video) Numbering() Numbering { return v.numbering }

// Filename returns the stored media file name.
func (v *Video) Filename() string { return v.filename }

// Mime returns the media content type.
func (v *Video) Mime() string { return v.mime }

// PreviewFilename returns the stored preview file name and whether one exists.
func (v *Video) PreviewFilename() (string, bool) { return v.previewFilename, v.previewFilename != "" }

// Threshold returns the playback threshold percentage.
func (v *Video) Threshold() int { return v.threshold }

// CreatedAt returns the creation time in UTC.
func (v *Video) CreatedAt() time.Time { return v.createdAt }

// Params returns the fields as Params, for building an updated copy.
func (v *Video) Params() Params {
	return Params{
		ID:              v.id,
		Title:           v.title,
		Type:            v.videoType,
		Description:     v.description,
		Numbering:       v.numbering,
		Filename:        v.filename,
		Mime:            v.mime,
		PreviewFilename: v.previewFilename,
		Threshold:       v.threshold,
		CreatedAt:       v.createdAt,
	}
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Millisecond).Format(TimestampLayout)
}

// ParseTimestamp parses a stored created_at value.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at %q: %w", s, err)
	}
	return t.UTC(), nil
}

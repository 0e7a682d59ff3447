package video

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/riverdub/riverdub/internal/domain"
	domvideo "github.com/riverdub/riverdub/internal/domain/video"
	"github.com/riverdub/riverdub/internal/logger"
	"github.com/riverdub/riverdub/internal/metrics"
)

// Upload is one uploaded file.
type Upload struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Input holds the raw form fields of a create or update request.
type Input struct {
	Title       string
	Type        string
	Description string
	Threshold   string
	Season      string
	Episode     string
}

// Service manages catalog entries and their media files.
type Service struct {
	repo  Repository
	media MediaStore
	vocab domvideo.Vocabulary
	newID func() string
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the creation time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides the video ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// New creates a video service.
func New(repo Repository, media MediaStore, vocab domvideo.Vocabulary, opts ...Option) *Service {
	s := &Service{repo: repo, media: media, vocab: vocab, newID: uuid.NewString, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Vocabulary returns the allowed video types.
func (s *Service) Vocabulary() domvideo.Vocabulary { return s.vocab }

// Get returns a video by ID.
func (s *Service) Get(ctx context.Context, id string) (domvideo.Video, error) {
	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return domvideo.Video{}, fmt.Errorf("get video: %w", err)
	}
	return v, nil
}

// Create validates the input, stores the uploads and persists a new video.
// The media file is required; the preview is optional.
func (s *Service) Create(ctx context.Context, in Input, file, preview *Upload) (domvideo.Video, error) {
	if file == nil {
		return domvideo.Video{}, domain.ErrFileRequired
	}
	typ, numbering, err := s.validate(in)
	if err != nil {
		return domvideo.Video{}, err
	}

	saved, err := s.saveUploads(ctx, file, preview)
	if err != nil {
		return domvideo.Video{}, err
	}

	v, err := domvideo.New(domvideo.Params{
		ID:              s.newID(),
		Title:           strings.TrimSpace(in.Title),
		Type:            typ,
		Description:     in.Description,
		Numbering:       numbering,
		Filename:        saved.file,
		Mime:            file.ContentType,
		PreviewFilename: saved.preview,
		Threshold:       domvideo.CoerceThreshold(in.Threshold),
		CreatedAt:       s.now(),
	}, s.vocab)
	if err != nil {
		s.discard(ctx, saved.file, saved.preview)
		return domvideo.Video{}, err
	}

	if err := s.repo.Create(ctx, v); err != nil {
		s.discard(ctx, saved.file, saved.preview)
		metrics.VideoWritesTotal.WithLabelValues("create", "error").Inc()
		return domvideo.Video{}, fmt.Errorf("create video: %w", err)
	}

	metrics.VideoWritesTotal.WithLabelValues("create", "ok").Inc()
	logger.FromContext(ctx).Info("Video created",
		zap.String("video_id", v.ID()),
		zap.String("type", string(v.Type())),
	)
	return v, nil
}

// Update replaces the fields of an existing video. Files not re-uploaded are kept;
// replaced files are removed after the update succeeds.
func (s *Service) Update(ctx context.Context, id string, in Input, file, preview *Upload) (domvideo.Video, error) {
	typ, numbering, err := s.validate(in)
	if err != nil {
		return domvideo.Video{}, err
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return domvideo.Video{}, fmt.Errorf("get video: %w", err)
	}

	saved, err := s.saveUploads(ctx, file, preview)
	if err != nil {
		return domvideo.Video{}, err
	}

	p := current.Params()
	p.Title = strings.TrimSpace(in.Title)
	p.Type = typ
	p.Description = in.Description
	p.Numbering = numbering
	p.Threshold = domvideo.CoerceThreshold(in.Threshold)

	var replaced []string
	if saved.file != "" {
		replaced = append(replaced, p.Filename)
		p.Filename, p.Mime = saved.file, file.ContentType
	}
	if saved.preview != "" {
		if old, ok := current.PreviewFilename(); ok {
			replaced = append(replaced, old)
		}
		p.PreviewFilename = saved.preview
	}

	updated, err := domvideo.New(p, s.vocab)
	if err != nil {
		s.discard(ctx, saved.file, saved.preview)
		return domvideo.Video{}, err
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		s.discard(ctx, saved.file, saved.preview)
		metrics.VideoWritesTotal.WithLabelValues("update", "error").Inc()
		return domvideo.Video{}, fmt.Errorf("update video: %w", err)
	}
	s.discard(ctx, replaced...)

	metrics.VideoWritesTotal.WithLabelValues("update", "ok").Inc()
	logger.FromContext(ctx).Info("Video updated", zap.String("video_id", id))
	return updated, nil
}

func (s *Service) validate(in Input) (domvideo.Type, domvideo.Numbering, error) {
	typ := domvideo.Type(strings.TrimSpace(in.Type))
	if strings.TrimSpace(in.Title) == "" || typ == "" {
		return "", domvideo.Numbering{}, domain.ErrFieldsRequired
	}
	if !s.vocab.Allows(typ) {
		return "", domvideo.Numbering{}, fmt.Errorf("type %q: %w", typ, domain.ErrInvalidType)
	}
	numbering, err := domvideo.ParseNumbering(in.Season, in.Episode)
	if err != nil {
		return "", domvideo.Numbering{}, err
	}
	return typ, numbering, nil
}

type savedUploads struct {
	file    string
	preview string
}

func (s *Service) saveUploads(ctx context.Context, file, preview *Upload) (savedUploads, error) {
	var saved savedUploads
	if file != nil {
		name, n, err := s.media.Save(ctx, file.Name, file.Body)
		if err != nil {
			return savedUploads{}, fmt.Errorf("save file: %w", err)
		}
		saved.file = name
		metrics.UploadBytesTotal.WithLabelValues("file").Add(float64(n))
	}
	if preview != nil {
		name, n, err := s.media.Save(ctx, preview.Name, preview.Body)
		if err != nil {
			s.discard(ctx, saved.file)
			return savedUploads{}, fmt.Errorf("save preview: %w", err)
		}
		saved.preview = name
		metrics.UploadBytesTotal.WithLabelValues("preview").Add(float64(n))
	}
	return saved, nil
}

// discard removes stored files, logging failures.
func (s *Service) discard(ctx context.Context, names ...string) {
	for _, name := range names {
		if name == "" {
			continue
		}
		if err := s.media.Remove(name); err != nil {
			logger.FromContext(ctx).Warn("Failed to remove upload", zap.String("file", name), zap.Error(err))
		}
	}
}

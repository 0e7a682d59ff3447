// Package riverdub is an embeddable client for the RiverDub media catalog: it opens
// the catalog storage directly and runs the same fuzzy search as the HTTP API.
package riverdub

import (
	"context"
	"errors"
	"fmt"
	"time"

	dbRedis "github.com/riverdub/riverdub/internal/db/redis"
	dbSQLite "github.com/riverdub/riverdub/internal/db/sqlite"
	"github.com/riverdub/riverdub/internal/domain"
	"github.com/riverdub/riverdub/internal/domain/search/catalog"
	"github.com/riverdub/riverdub/internal/domain/search/fuzzy"
	domvideo "github.com/riverdub/riverdub/internal/domain/video"
	"github.com/riverdub/riverdub/internal/logger"
	"github.com/riverdub/riverdub/internal/media"
	videorepo "github.com/riverdub/riverdub/internal/repository/video"
	"github.com/riverdub/riverdub/internal/repository/videosql"
	cataloguc "github.com/riverdub/riverdub/internal/usecase/catalog"
	videouc "github.com/riverdub/riverdub/internal/usecase/video"
)

const defaultReadinessTimeout = 10 * time.Second

// Errors returned by the client. Domain failures wrap these so errors.Is works.
var (
	ErrNotFound         = domain.ErrNotFound
	ErrFileRequired     = domain.ErrFileRequired
	ErrFieldsRequired   = domain.ErrFieldsRequired
	ErrInvalidType      = domain.ErrInvalidType
	ErrInvalidNumbering = domain.ErrInvalidNumbering
	ErrUploadTooLarge   = domain.ErrUploadTooLarge
	// ErrReadOnly is returned by Create and Update without WithUploadDir.
	ErrReadOnly = errors.New("riverdub: client is read-only (use WithUploadDir)")
)

type backend interface {
	Ping(ctx context.Context) error
	WaitForReady(ctx context.Context, timeout time.Duration) error
	Close()
}

type repository interface {
	videouc.Repository
	cataloguc.Lister
}

// Client is the riverdub SDK entry point.
type Client struct {
	backend backend
	repo    repository
	vocab   domvideo.Vocabulary
	catalog *cataloguc.Service
	engine  *catalog.Engine
	videos  *videouc.Service
	cfg     *clientConfig
}

// New opens the configured storage and returns a ready Client.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("riverdub: storage required (use WithSQLite or WithRedis)")
	}

	b, repo, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := b.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		b.Close()
		return nil, fmt.Errorf("riverdub: database not ready: %w", err)
	}

	c, err := wireClient(b, repo, cfg)
	if err != nil {
		b.Close()
		return nil, err
	}
	return c, nil
}

func openBackend(ctx context.Context, cfg *clientConfig) (backend, repository, error) {
	switch cfg.driver {
	case driverSQLite:
		d, err := dbSQLite.Open(ctx, cfg.sqlitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("riverdub: open sqlite: %w", err)
		}
		return d, videosql.New(d), nil
	case driverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Username: cfg.username,
			Password: cfg.password,
			DB:       cfg.redisDB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("riverdub: create redis store: %w", err)
		}
		return s, videorepo.New(s, cfg.keyPrefix), nil
	default:
		return nil, nil, fmt.Errorf("riverdub: unknown driver %q", cfg.driver)
	}
}

func wireClient(b backend, repo repository, cfg *clientConfig) (*Client, error) {
	vocab := domvideo.DefaultVocabulary()
	if len(cfg.types) > 0 {
		entries := make([]domvideo.Entry, len(cfg.types))
		for i, t := range cfg.types {
			entries[i] = domvideo.Entry{Type: domvideo.Type(t.Type), Label: t.Label}
		}
		var err error
		if vocab, err = domvideo.NewVocabulary(entries); err != nil {
			return nil, fmt.Errorf("riverdub: types: %w", err)
		}
	}

	matcher := fuzzy.DefaultMatcher()
	if cfg.matching != nil {
		var err error
		if matcher, err = fuzzy.NewMatcher(cfg.matching.thresholds()); err != nil {
			return nil, fmt.Errorf("riverdub: matching: %w", err)
		}
	}
	var engineOpts []catalog.EngineOption
	if cfg.workers > 1 {
		engineOpts = append(engineOpts, catalog.WithParallelism(cfg.workers, cfg.parallelThreshold))
	}
	engine := catalog.NewEngine(matcher, engineOpts...)

	c := &Client{
		backend: b,
		repo:    repo,
		vocab:   vocab,
		catalog: cataloguc.New(repo, engine),
		engine:  engine,
		cfg:     cfg,
	}

	if cfg.uploadDir != "" {
		maxBytes := cfg.maxUploadBytes
		if maxBytes <= 0 {
			maxBytes = media.DefaultMaxUploadBytes
		}
		store, err := media.NewStore(cfg.uploadDir, maxBytes)
		if err != nil {
			return nil, fmt.Errorf("riverdub: upload dir: %w", err)
		}
		c.videos = videouc.New(repo, store, vocab)
	}
	return c, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.backend != nil {
		c.backend.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.backend.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Types returns the allowed video types in display order.
func (c *Client) Types() []TypeLabel {
	types := c.vocab.Types()
	out := make([]TypeLabel, len(types))
	for i, t := range types {
		out[i] = TypeLabel{Type: string(t), Label: c.vocab.Label(t)}
	}
	return out
}

// Get returns a video by ID.
func (c *Client) Get(ctx context.Context, id string) (Video, error) {
	v, err := c.repo.Get(c.withLogger(ctx), id)
	if err != nil {
		return Video{}, fmt.Errorf("get video: %w", err)
	}
	return videoFromDomain(&v, c.vocab), nil
}

// Create stores the uploads and adds a video to the catalog.
func (c *Client) Create(ctx context.Context, in VideoInput, file Upload, preview *Upload) (Video, error) {
	if c.videos == nil {
		return Video{}, ErrReadOnly
	}
	v, err := c.videos.Create(c.withLogger(ctx), videoInput(in), toUpload(&file), toUpload(preview))
	if err != nil {
		return Video{}, err
	}
	return videoFromDomain(&v, c.vocab), nil
}

// Update edits a video. Nil uploads keep the stored files.
func (c *Client) Update(ctx context.Context, id string, in VideoInput, file, preview *Upload) (Video, error) {
	if c.videos == nil {
		return Video{}, ErrReadOnly
	}
	v, err := c.videos.Update(c.withLogger(ctx), id, videoInput(in), toUpload(file), toUpload(preview))
	if err != nil {
		return Video{}, err
	}
	return videoFromDomain(&v, c.vocab), nil
}

// Search starts a catalog query.
func (c *Client) Search() *SearchBuilder {
	return &SearchBuilder{client: c}
}

func (c *Client) withLogger(ctx context.Context) context.Context {
	if c.cfg.logger == nil {
		return ctx
	}
	return logger.ContextWithLogger(ctx, c.cfg.logger)
}

func videoInput(in VideoInput) videouc.Input {
	return videouc.Input{
		Title:       in.Title,
		Type:        in.Type,
		Description: in.Description,
		Threshold:   in.Threshold,
		Season:      in.Season,
		Episode:     in.Episode,
	}
}

func toUpload(u *Upload) *videouc.Upload {
	if u == nil || u.Body == nil {
		return nil
	}
	return &videouc.Upload{Name: u.Name, ContentType: u.ContentType, Body: u.Body}
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/riverdub/riverdub/internal/config"
	dbRedis "github.com/riverdub/riverdub/internal/db/redis"
	dbSQLite "github.com/riverdub/riverdub/internal/db/sqlite"
	"github.com/riverdub/riverdub/internal/domain/search/catalog"
	"github.com/riverdub/riverdub/internal/domain/search/fuzzy"
	domvideo "github.com/riverdub/riverdub/internal/domain/video"
	videorepo "github.com/riverdub/riverdub/internal/repository/video"
	"github.com/riverdub/riverdub/internal/repository/videosql"
	cataloguc "github.com/riverdub/riverdub/internal/usecase/catalog"
	videouc "github.com/riverdub/riverdub/internal/usecase/video"
)

// storage is an opened database with its video repository.
type storage struct {
	db interface {
		Ping(ctx context.Context) error
		WaitForReady(ctx context.Context, timeout time.Duration) error
		Close()
	}
	repo interface {
		videouc.Repository
		cataloguc.Lister
	}
}

func openStorage(ctx context.Context, cfg config.DatabaseConfig) (*storage, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		d, err := dbSQLite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.Path, err)
		}
		return &storage{db: d, repo: videosql.New(d)}, nil
	case config.DriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis store: %w", err)
		}
		return &storage{db: s, repo: videorepo.New(s, cfg.KeyPrefix)}, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func buildVocabulary(cfg config.CatalogConfig) (domvideo.Vocabulary, error) {
	if len(cfg.Types) == 0 {
		return domvideo.DefaultVocabulary(), nil
	}
	entries := make([]domvideo.Entry, len(cfg.Types))
	for i, t := range cfg.Types {
		entries[i] = domvideo.Entry{Type: domvideo.Type(t.Name), Label: t.Label}
	}
	vocab, err := domvideo.NewVocabulary(entries)
	if err != nil {
		return domvideo.Vocabulary{}, fmt.Errorf("catalog.types: %w", err)
	}
	return vocab, nil
}

func buildThresholds(cfg config.SearchConfig) fuzzy.Thresholds {
	th := fuzzy.Thresholds{
		ShortTermMaxLen: cfg.ShortTermMaxLen,
		LongMaxDistance: cfg.LongMaxDistance,
		MinSimilarity:   cfg.MinSimilarity,
	}
	for _, t := range cfg.Tiers {
		th.Tiers = append(th.Tiers, fuzzy.Tier{MaxTermLen: t.MaxTermLen, MaxDistance: t.MaxDistance})
	}
	return th
}

func buildEngine(cfg config.SearchConfig) (*catalog.Engine, error) {
	matcher, err := fuzzy.NewMatcher(buildThresholds(cfg))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return catalog.NewEngine(matcher, catalog.WithParallelism(cfg.Workers, cfg.ParallelThreshold)), nil
}

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riverdub/riverdub/internal/config"
	domvideo "github.com/riverdub/riverdub/internal/domain/video"
)

func TestBuildVocabulary(t *testing.T) {
	t.Run("empty config uses stock types", func(t *testing.T) {
		vocab, err := buildVocabulary(config.CatalogConfig{})
		require.NoError(t, err)
		assert.Equal(t, domvideo.DefaultVocabulary().Types(), vocab.Types())
	})

	t.Run("configured types keep order and labels", func(t *testing.T) {
		vocab, err := buildVocabulary(config.CatalogConfig{Types: []config.TypeConfig{
			{Name: "clip", Label: "Clip"},
			{Name: "promo"},
		}})
		require.NoError(t, err)
		assert.Equal(t, []domvideo.Type{"clip", "promo"}, vocab.Types())
		assert.Equal(t, "Clip", vocab.Label("clip"))
		assert.Equal(t, "Promo", vocab.Label("promo"))
	})

	t.Run("duplicates are rejected", func(t *testing.T) {
		_, err := buildVocabulary(config.CatalogConfig{Types: []config.TypeConfig{{Name: "clip"}, {Name: "clip"}}})
		assert.Error(t, err)
	})
}

func TestBuildEngine(t *testing.T) {
	cfg := config.SearchConfig{
		ShortTermMaxLen: 2,
		Tiers:           []config.TierConfig{{MaxTermLen: 4, MaxDistance: 1}, {MaxTermLen: 7, MaxDistance: 2}},
		LongMaxDistance: 3,
		MinSimilarity:   0.70,
		Workers:         4,
	}
	engine, err := buildEngine(cfg)
	require.NoError(t, err)

	m := engine.Matcher()
	assert.Equal(t, 1, m.MaxDistance("demo"))
	assert.Equal(t, 2, m.MaxDistance("rivers"))
	assert.Equal(t, 3, m.MaxDistance("mountains"))
	assert.True(t, m.Matches("dema", "river demo"))
}

func TestBuildEngine_InvalidThresholds(t *testing.T) {
	_, err := buildEngine(config.SearchConfig{MinSimilarity: 1.5})
	assert.Error(t, err)
}

func TestOpenStorage(t *testing.T) {
	t.Run("sqlite in memory", func(t *testing.T) {
		s, err := openStorage(context.Background(), config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
		require.NoError(t, err)
		defer s.db.Close()

		require.NoError(t, s.db.Ping(context.Background()))
		videos, err := s.repo.List(context.Background(), "")
		require.NoError(t, err)
		assert.Empty(t, videos)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := openStorage(context.Background(), config.DatabaseConfig{Driver: "mongo"})
		assert.ErrorContains(t, err, "unknown database driver")
	})
}

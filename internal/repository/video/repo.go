package video

import (
	"context"
	"errors"
	"fmt"

	"github.com/riverdub/riverdub/internal/domain"
	domvideo "github.com/riverdub/riverdub/internal/domain/video"
)

// DefaultKeyPrefix namespaces every key written by the repository.
const DefaultKeyPrefix = "riverdub:"

// store is the consumer interface for videos (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Claim(ctx context.Context, key, field, value string) (bool, error)
	Del(ctx context.Context, key string) error
	PutIndexed(ctx context.Context, key string, fields map[string]string, index string, score float64, member string) error
	Members(ctx context.Context, index string) ([]string, error)
}

// Repo implements usecase/video.Repository and usecase/catalog.Lister on a hash store.
// Each video is a hash; a sorted set scored by created_at millis lists them newest first.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a video repository. An empty prefix uses DefaultKeyPrefix.
func New(s store, keyPrefix string) *Repo {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Create stores a new video. The id field is claimed first so concurrent creates
// of the same ID cannot both succeed.
func (r *Repo) Create(ctx context.Context, v domvideo.Video) error {
	key := r.videoKey(v.ID())
	claimed, err := r.store.Claim(ctx, key, "id", v.ID())
	if err != nil {
		return fmt.Errorf("claim video %s: %w", v.ID(), err)
	}
	if !claimed {
		return domain.ErrAlreadyExists
	}

	if err := r.put(ctx, v); err != nil {
		if delErr := r.store.Del(ctx, key); delErr != nil {
			err = errors.Join(err, fmt.Errorf("release claim: %w", delErr))
		}
		return err
	}
	return nil
}

// Update overwrites an existing video.
func (r *Repo) Update(ctx context.Context, v domvideo.Video) error {
	exists, err := r.store.Exists(ctx, r.videoKey(v.ID()))
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return r.put(ctx, v)
}

func (r *Repo) put(ctx context.Context, v domvideo.Video) error {
	score := float64(v.CreatedAt().UnixMilli())
	if err := r.store.PutIndexed(ctx, r.videoKey(v.ID()), videoToHash(v), r.indexKey(), score, v.ID()); err != nil {
		return fmt.Errorf("store video %s: %w", v.ID(), err)
	}
	return nil
}

// Get retrieves a video by ID.
func (r *Repo) Get(ctx context.Context, id string) (domvideo.Video, error) {
	m, err := r.store.HGetAll(ctx, r.videoKey(id))
	if err != nil {
		return domvideo.Video{}, fmt.Errorf("hgetall video %s: %w", id, err)
	}
	if len(m) == 0 {
		return domvideo.Video{}, domain.ErrNotFound
	}
	return videoFromHash(m)
}

// List returns videos newest first, ties broken by ID descending (the sorted set order).
// A non-empty typ keeps only videos of that exact type.
func (r *Repo) List(ctx context.Context, typ domvideo.Type) ([]domvideo.Video, error) {
	ids, err := r.store.Members(ctx, r.indexKey())
	if err != nil {
		return nil, fmt.Errorf("list video index: %w", err)
	}
	if len(ids) == 0 {
		return []domvideo.Video{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.videoKey(id)
	}
	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi videos: %w", err)
	}

	videos := make([]domvideo.Video, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue // indexed but the hash is gone
		}
		if typ != "" && domvideo.Type(m["type"]) != typ {
			continue
		}
		v, err := videoFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse video %s: %w", ids[i], err)
		}
		videos = append(videos, v)
	}
	return videos, nil
}

// Key pattern: {prefix}video:{id}
func (r *Repo) videoKey(id string) string {
	return r.keyPrefix + "video:" + id
}

// Key pattern: {prefix}videos
func (r *Repo) indexKey() string {
	return r.keyPrefix + "videos"
}

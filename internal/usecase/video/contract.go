package video

import (
	"context"
	"io"

	domvideo "github.com/riverdub/riverdub/internal/domain/video"
)

// Repository defines the storage contract for videos.
type Repository interface {
	Create(ctx context.Context, v domvideo.Video) error
	Update(ctx context.Context, v domvideo.Video) error
	Get(ctx context.Context, id string) (domvideo.Video, error)
}

// MediaStore persists uploaded files.
type MediaStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, int64, error)
	Remove(name string) error
}

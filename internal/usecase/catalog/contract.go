package catalog

import (
	"context"

	domvideo "github.com/riverdub/riverdub/internal/domain/video"
)

// Lister loads catalog records, newest first. An empty type lists everything.
type Lister interface {
	List(ctx context.Context, typ domvideo.Type) ([]domvideo.Video, error)
}

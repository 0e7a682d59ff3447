package video

import (
	"context"
	"testing"
	"time"

	domvideo "github.com/riverdub/riverdub/internal/domain/video"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	existsFn       func(ctx context.Context, key string) (bool, error)
	claimFn        func(ctx context.Context, key, field, value string) (bool, error)
	delFn          func(ctx context.Context, key string) error
	putIndexedFn   func(ctx context.Context, key string, fields map[string]string, index string, score float64, member string) error
	membersFn      func(ctx context.Context, index string) ([]string, error)
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return nil, nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) Claim(ctx context.Context, key, field, value string) (bool, error) {
	if m.claimFn != nil {
		return m.claimFn(ctx, key, field, value)
	}
	return true, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) PutIndexed(
	ctx context.Context, key string, fields map[string]string, index string, score float64, member string,
) error {
	if m.putIndexedFn != nil {
		return m.putIndexedFn(ctx, key, fields, index, score, member)
	}
	return nil
}

func (m *mockStore) Members(ctx context.Context, index string) ([]string, error) {
	if m.membersFn != nil {
		return m.membersFn(ctx, index)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, ""), ms
}

func testVideo(t *testing.T, id string, typ domvideo.Type, createdAt time.Time) domvideo.Video {
	t.Helper()
	n, err := domvideo.NewNumbering(1, 2)
	if err != nil {
		t.Fatalf("NewNumbering: %v", err)
	}
	v, err := domvideo.New(domvideo.Params{
		ID:              id,
		Title:           "Mountain Series",
		Type:            typ,
		Description:     "Episode two",
		Numbering:       n,
		Filename:        "1700000000000-mountain.mp4",
		Mime:            "video/mp4",
		PreviewFilename: "1700000000001-poster.jpg",
		Threshold:       85,
		CreatedAt:       createdAt,
	}, domvideo.DefaultVocabulary())
	if err != nil {
		t.Fatalf("video.New: %v", err)
	}
	return v
}

package riverdub

import (
	"context"
	"fmt"
	"net/url"

	"github.com/riverdub/riverdub/internal/domain/search/catalog"
	domvideo "github.com/riverdub/riverdub/internal/domain/video"
)

// SearchBuilder is a fluent builder for catalog queries. Every filter is optional;
// results keep the catalog order, newest first.
type SearchBuilder struct {
	client *Client
	opts   []catalog.Option
}

// Type keeps only videos of type t.
func (b *SearchBuilder) Type(t string) *SearchBuilder {
	b.opts = append(b.opts, catalog.WithType(domvideo.Type(t)))
	return b
}

// Season keeps only videos numbered in season s. Non-positive values are ignored.
func (b *SearchBuilder) Season(s int) *SearchBuilder {
	b.opts = append(b.opts, catalog.WithSeason(s))
	return b
}

// Text keeps only videos whose title or description fuzzily contains every term.
func (b *SearchBuilder) Text(text string) *SearchBuilder {
	b.opts = append(b.opts, catalog.WithText(text))
	return b
}

// Params applies raw type, season and q/text values, coerced like the HTTP API.
func (b *SearchBuilder) Params(values url.Values) *SearchBuilder {
	q := catalog.ParseParams(values)
	if t, ok := q.Type(); ok {
		b.opts = append(b.opts, catalog.WithType(t))
	}
	if s, ok := q.Season(); ok {
		b.opts = append(b.opts, catalog.WithSeason(s))
	}
	if text, ok := q.Text(); ok {
		b.opts = append(b.opts, catalog.WithText(text))
	}
	return b
}

// Do executes the search.
func (b *SearchBuilder) Do(ctx context.Context) ([]Video, error) {
	q := catalog.NewQuery(b.opts...)
	videos, err := b.client.catalog.Search(b.client.withLogger(ctx), q)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return videosFromDomain(videos, b.client.vocab), nil
}

package catalog

import (
	"strings"

	"github.com/riverdub/riverdub/internal/domain/search/fuzzy"
	"github.com/riverdub/riverdub/internal/domain/video"
)

// Query holds the match criteria of one catalog search. Every criterion is optional;
// the zero Query matches everything.
type Query struct {
	typ       video.Type
	hasType   bool
	season    int
	hasSeason bool
	text      string
}

// Option sets one Query criterion.
type Option func(*Query)

// WithType filters by exact type. An empty type means no filter.
func WithType(t video.Type) Option {
	return func(q *Query) {
		if t == "" {
			return
		}
		q.typ, q.hasType = t, true
	}
}

// WithSeason filters by season number. Non-positive values mean no filter.
func WithSeason(season int) Option {
	return func(q *Query) {
		if season <= 0 {
			return
		}
		q.season, q.hasSeason = season, true
	}
}

// WithText sets the free-text phrase. Blank text means no filter.
func WithText(text string) Option {
	return func(q *Query) {
		q.text = strings.TrimSpace(text)
	}
}

// NewQuery builds a Query from options.
func NewQuery(opts ...Option) Query {
	var q Query
	for _, opt := range opts {
		opt(&q)
	}
	return q
}

// Type returns the type filter and whether it is set.
func (q Query) Type() (video.Type, bool) { return q.typ, q.hasType }

// Season returns the season filter and whether it is set.
func (q Query) Season() (int, bool) { return q.season, q.hasSeason }

// Text returns the trimmed phrase and whether it is set.
func (q Query) Text() (string, bool) { return q.text, q.text != "" }

// Terms returns the lower-cased whitespace-separated terms of the phrase.
func (q Query) Terms() []string {
	if q.text == "" {
		return nil
	}
	return strings.Fields(fuzzy.Fold(q.text))
}

// IsEmpty reports whether no criterion is set.
func (q Query) IsEmpty() bool {
	return !q.hasType && !q.hasSeason && q.text == ""
}

package catalog

import (
	"golang.org/x/sync/errgroup"

	"github.com/riverdub/riverdub/internal/domain/search/fuzzy"
	"github.com/riverdub/riverdub/internal/domain/video"
)

// Engine filters catalog records against a Query.
// It holds no per-call state and is safe for concurrent use.
type Engine struct {
	matcher           *fuzzy.Matcher
	workers           int
	parallelThreshold int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithParallelism evaluates records on up to workers goroutines once a call has at
// least threshold records. workers <= 1 keeps evaluation sequential.
func WithParallelism(workers, threshold int) EngineOption {
	return func(e *Engine) {
		e.workers = workers
		e.parallelThreshold = threshold
	}
}

// NewEngine creates an Engine. A nil matcher uses fuzzy.DefaultMatcher.
func NewEngine(matcher *fuzzy.Matcher, opts ...EngineOption) *Engine {
	if matcher == nil {
		matcher = fuzzy.DefaultMatcher()
	}
	e := &Engine{matcher: matcher, workers: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Matcher returns the term matcher.
func (e *Engine) Matcher() *fuzzy.Matcher { return e.matcher }

// Filter returns the records matching q, in input order. Records are not modified.
func (e *Engine) Filter(records []video.Video, q Query) []video.Video {
	terms := q.Terms()
	keep := make([]bool, len(records))

	if e.parallel(len(records)) {
		e.evaluateParallel(records, q, terms, keep)
	} else {
		for i := range records {
			keep[i] = e.match(&records[i], q, terms)
		}
	}

	out := make([]video.Video, 0, len(records))
	for i, ok := range keep {
		if ok {
			out = append(out, records[i])
		}
	}
	return out
}

// Match reports whether a single record satisfies q.
func (e *Engine) Match(v *video.Video, q Query) bool {
	return e.match(v, q, q.Terms())
}

func (e *Engine) parallel(n int) bool {
	return e.workers > 1 && n > 1 && n >= e.parallelThreshold
}

// evaluateParallel splits records into contiguous chunks; each goroutine writes
// only its own slots of keep.
func (e *Engine) evaluateParallel(records []video.Video, q Query, terms []string, keep []bool) {
	chunk := (len(records) + e.workers - 1) / e.workers

	var g errgroup.Group
	g.SetLimit(e.workers)
	for start := 0; start < len(records); start += chunk {
		end := min(start+chunk, len(records))
		g.Go(func() error {
			for i := start; i < end; i++ {
				keep[i] = e.match(&records[i], q, terms)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (e *Engine) match(v *video.Video, q Query, terms []string) bool {
	if t, ok := q.Type(); ok && v.Type() != t {
		return false
	}
	if want, ok := q.Season(); ok {
		got, present := v.Numbering().Season()
		if !present || got != want {
			return false
		}
	}
	if len(terms) == 0 {
		return true
	}

	haystack := Haystack(v)
	for _, term := range terms {
		if !e.matcher.Matches(term, haystack) {
			return false
		}
	}
	return true
}

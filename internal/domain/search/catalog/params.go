package catalog

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/riverdub/riverdub/internal/domain/video"
)

// Params are the raw, untrusted query parameters of a catalog search.
type Params struct {
	Type   string
	Season string
	Text   string
	// AltText is consulted only when Text is empty.
	AltText string
}

// FromParams is the single coercion point from raw parameters to a Query.
// Malformed values degrade to "no filter" and never fail the search.
func FromParams(p Params) Query {
	text := p.Text
	if text == "" {
		text = p.AltText
	}
	opts := []Option{WithType(video.Type(p.Type)), WithText(text)}
	if season, ok := CoerceSeason(p.Season); ok {
		opts = append(opts, WithSeason(season))
	}
	return NewQuery(opts...)
}

// ParseParams reads type, season and q (falling back to text) from URL values.
func ParseParams(values url.Values) Query {
	return FromParams(Params{
		Type:    values.Get("type"),
		Season:  values.Get("season"),
		Text:    values.Get("q"),
		AltText: values.Get("text"),
	})
}

// CoerceSeason parses a raw season filter. Non-numeric, non-finite and non-positive
// values report false; fractional values are floored. Seasons beyond the int range
// clamp to math.MaxInt so they still filter.
func CoerceSeason(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, false
	}
	f = math.Floor(f)
	if f < 1 {
		return 0, false
	}
	if f >= math.MaxInt {
		return math.MaxInt, true
	}
	return int(f), true
}

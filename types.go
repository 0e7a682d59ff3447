package riverdub

import (
	"io"
	"time"

	"github.com/riverdub/riverdub/internal/domain/search/fuzzy"
	domvideo "github.com/riverdub/riverdub/internal/domain/video"
	"github.com/riverdub/riverdub/internal/media"
)

// Video is a catalog entry.
type Video struct {
	ID              string
	Title           string
	Type            string
	TypeLabel       string
	Description     string
	Season          *int
	Episode         *int
	Filename        string
	Mime            string
	PreviewFilename string
	Threshold       int
	CreatedAt       time.Time
	URL             string
	PreviewURL      string
}

// TypeLabel is an allowed video type and its display label.
type TypeLabel struct {
	Type  string
	Label string
}

// Tier caps the edit distance for terms up to MaxTermLen runes.
type Tier struct {
	MaxTermLen  int
	MaxDistance int
}

// Matching holds the fuzzy matching thresholds.
type Matching struct {
	ShortTermMaxLen int
	Tiers           []Tier
	LongMaxDistance int
	MinSimilarity   float64
}

// DefaultMatching returns the built-in thresholds.
func DefaultMatching() Matching {
	th := fuzzy.DefaultThresholds()
	m := Matching{
		ShortTermMaxLen: th.ShortTermMaxLen,
		LongMaxDistance: th.LongMaxDistance,
		MinSimilarity:   th.MinSimilarity,
	}
	for _, t := range th.Tiers {
		m.Tiers = append(m.Tiers, Tier(t))
	}
	return m
}

// VideoInput holds the editable fields of a video as raw strings, the way a form
// submits them. Threshold, Season and Episode are coerced like the HTTP API does.
type VideoInput struct {
	Title       string
	Type        string
	Description string
	Threshold   string
	Season      string
	Episode     string
}

// Upload is a media file to store.
type Upload struct {
	Name        string
	ContentType string
	Body        io.Reader
}

func (m Matching) thresholds() fuzzy.Thresholds {
	th := fuzzy.Thresholds{
		ShortTermMaxLen: m.ShortTermMaxLen,
		LongMaxDistance: m.LongMaxDistance,
		MinSimilarity:   m.MinSimilarity,
	}
	for _, t := range m.Tiers {
		th.Tiers = append(th.Tiers, fuzzy.Tier(t))
	}
	return th
}

func videoFromDomain(v *domvideo.Video, vocab domvideo.Vocabulary) Video {
	out := Video{
		ID:          v.ID(),
		Title:       v.Title(),
		Type:        string(v.Type()),
		TypeLabel:   vocab.Label(v.Type()),
		Description: v.Description(),
		Filename:    v.Filename(),
		Mime:        v.Mime(),
		Threshold:   v.Threshold(),
		CreatedAt:   v.CreatedAt(),
		URL:         media.URL(v.Filename()),
	}
	if season, ok := v.Numbering().Season(); ok {
		episode, _ := v.Numbering().Episode()
		out.Season, out.Episode = &season, &episode
	}
	if preview, ok := v.PreviewFilename(); ok {
		out.PreviewFilename = preview
		out.PreviewURL = media.URL(preview)
	}
	return out
}

func videosFromDomain(vs []domvideo.Video, vocab domvideo.Vocabulary) []Video {
	out := make([]Video, len(vs))
	for i := range vs {
		out[i] = videoFromDomain(&vs[i], vocab)
	}
	return out
}

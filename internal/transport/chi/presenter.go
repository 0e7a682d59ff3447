package chi

import (
	"time"

	"github.com/riverdub/riverdub/internal/domain/video"
	"github.com/riverdub/riverdub/internal/media"
)

// DefaultDisplayLayout renders created_at for humans.
const DefaultDisplayLayout = "02.01.2006 15:04"

// VideoResponse is the JSON view of a catalog entry.
type VideoResponse struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Type             string  `json:"type"`
	TypeLabel        string  `json:"type_label"`
	Description      string  `json:"description"`
	Season           *int    `json:"season"`
	Episode          *int    `json:"episode"`
	Filename         string  `json:"filename"`
	Mime             string  `json:"mime"`
	PreviewFilename  *string `json:"preview_filename"`
	Threshold        int     `json:"threshold"`
	CreatedAt        string  `json:"created_at"`
	CreatedAtDisplay string  `json:"created_at_display"`
	URL              string  `json:"url"`
	PreviewURL       string  `json:"preview_url"`
}

// Presenter converts videos into responses.
type Presenter struct {
	vocab    video.Vocabulary
	location *time.Location
	layout   string
}

// NewPresenter creates a presenter. A nil location means UTC; an empty layout
// means DefaultDisplayLayout.
func NewPresenter(vocab video.Vocabulary, location *time.Location, layout string) *Presenter {
	if location == nil {
		location = time.UTC
	}
	if layout == "" {
		layout = DefaultDisplayLayout
	}
	return &Presenter{vocab: vocab, location: location, layout: layout}
}

// Video renders a single video.
func (p *Presenter) Video(v *video.Video) VideoResponse {
	resp := VideoResponse{
		ID:               v.ID(),
		Title:            v.Title(),
		Type:             string(v.Type()),
		TypeLabel:        p.vocab.Label(v.Type()),
		Description:      v.Description(),
		Filename:         v.Filename(),
		Mime:             v.Mime(),
		Threshold:        v.Threshold(),
		CreatedAt:        video.FormatTimestamp(v.CreatedAt()),
		CreatedAtDisplay: v.CreatedAt().In(p.location).Format(p.layout),
		URL:              media.URL(v.Filename()),
	}
	if season, ok := v.Numbering().Season(); ok {
		episode, _ := v.Numbering().Episode()
		resp.Season, resp.Episode = &season, &episode
	}
	if preview, ok := v.PreviewFilename(); ok {
		resp.PreviewFilename = &preview
		resp.PreviewURL = media.URL(preview)
	}
	return resp
}

// Videos renders a list, never nil.
func (p *Presenter) Videos(vs []video.Video) []VideoResponse {
	out := make([]VideoResponse, len(vs))
	for i := range vs {
		out[i] = p.Video(&vs[i])
	}
	return out
}

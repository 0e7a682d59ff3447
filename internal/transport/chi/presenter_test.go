package chi

import (
	"testing"
	"time"

	"github.com/riverdub/riverdub/internal/domain/video"
)

func presenterVideo(t *testing.T, numbered bool, preview string) video.Video {
	t.Helper()
	n := video.Unnumbered()
	if numbered {
		var err error
		if n, err = video.NewNumbering(2, 5); err != nil {
			t.Fatalf("NewNumbering: %v", err)
		}
	}
	return video.Reconstruct(video.Params{
		ID:              "v1",
		Title:           "River",
		Type:            video.TypeSeries,
		Numbering:       n,
		Filename:        "1700000000000-river.mp4",
		Mime:            "video/mp4",
		PreviewFilename: preview,
		Threshold:       90,
		CreatedAt:       time.Date(2024, 3, 1, 21, 30, 0, 0, time.UTC),
	})
}

func TestPresenter_Video(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	p := NewPresenter(video.DefaultVocabulary(), loc, "")

	v := presenterVideo(t, true, "cover.jpg")
	resp := p.Video(&v)

	if resp.URL != "/uploads/1700000000000-river.mp4" {
		t.Errorf("url: got %q", resp.URL)
	}
	if resp.PreviewURL != "/uploads/cover.jpg" {
		t.Errorf("preview_url: got %q", resp.PreviewURL)
	}
	if resp.TypeLabel != "Series" {
		t.Errorf("type_label: got %q", resp.TypeLabel)
	}
	if resp.CreatedAt != "2024-03-01T21:30:00.000Z" {
		t.Errorf("created_at: got %q", resp.CreatedAt)
	}
	if resp.CreatedAtDisplay != "02.03.2024 00:30" {
		t.Errorf("created_at_display: got %q", resp.CreatedAtDisplay)
	}
	if resp.Season == nil || *resp.Season != 2 || resp.Episode == nil || *resp.Episode != 5 {
		t.Errorf("numbering: got %v/%v", resp.Season, resp.Episode)
	}
}

func TestPresenter_OptionalFieldsAbsent(t *testing.T) {
	p := NewPresenter(video.DefaultVocabulary(), nil, time.RFC822)

	v := presenterVideo(t, false, "")
	resp := p.Video(&v)

	if resp.Season != nil || resp.Episode != nil {
		t.Error("expected no numbering")
	}
	if resp.PreviewFilename != nil || resp.PreviewURL != "" {
		t.Errorf("expected no preview, got %v %q", resp.PreviewFilename, resp.PreviewURL)
	}
	if resp.CreatedAtDisplay != "01 Mar 24 21:30 UTC" {
		t.Errorf("created_at_display: got %q", resp.CreatedAtDisplay)
	}
}

func TestPresenter_VideosNeverNil(t *testing.T) {
	p := NewPresenter(video.DefaultVocabulary(), nil, "")
	if got := p.Videos(nil); got == nil {
		t.Error("expected empty slice, got nil")
	}
}

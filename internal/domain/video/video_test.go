package video

import (
	"errors"
	"testing"
	"time"

	"github.com/riverdub/riverdub/internal/domain"
)

func validParams() Params {
	return Params{
		ID:        "0b7e5c8e-0000-4000-8000-000000000001",
		Title:     "River Demo",
		Type:      TypeDemo,
		Filename:  "1700000000000-river.mp4",
		Mime:      "video/mp4",
		Threshold: DefaultThreshold,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.FixedZone("MSK", 3*3600)),
	}
}

func TestNew_Valid(t *testing.T) {
	v, err := New(validParams(), DefaultVocabulary())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Title() != "River Demo" {
		t.Errorf("Title() = %q", v.Title())
	}
	if v.Type() != TypeDemo {
		t.Errorf("Type() = %q", v.Type())
	}
	if v.CreatedAt().Location() != time.UTC {
		t.Errorf("CreatedAt() location = %v, want UTC", v.CreatedAt().Location())
	}
	if v.CreatedAt().Nanosecond() != 123000000 {
		t.Errorf("CreatedAt() nanos = %d, want millisecond truncation", v.CreatedAt().Nanosecond())
	}
	if _, ok := v.PreviewFilename(); ok {
		t.Error("expected no preview")
	}
	if v.Numbering().IsPresent() {
		t.Error("expected unnumbered video")
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		want   error
	}{
		{"blank title", func(p *Params) { p.Title = "  " }, domain.ErrFieldsRequired},
		{"missing type", func(p *Params) { p.Type = "" }, domain.ErrFieldsRequired},
		{"unknown type", func(p *Params) { p.Type = "trailer" }, domain.ErrInvalidType},
		{"missing file", func(p *Params) { p.Filename = "" }, domain.ErrFileRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			_, err := New(p, DefaultVocabulary())
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNew_ThresholdOutOfRange(t *testing.T) {
	p := validParams()
	p.Threshold = 100
	if _, err := New(p, DefaultVocabulary()); err == nil {
		t.Fatal("expected error for threshold 100")
	}
}

func TestNew_DefaultMime(t *testing.T) {
	p := validParams()
	p.Mime = ""
	v, err := New(p, DefaultVocabulary())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Mime() != "application/octet-stream" {
		t.Errorf("Mime() = %q", v.Mime())
	}
}

func TestParams_RoundTrip(t *testing.T) {
	p := validParams()
	p.PreviewFilename = "1700000000001-poster.jpg"
	p.Numbering, _ = NewNumbering(2, 5)
	v, err := New(p, DefaultVocabulary())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := Reconstruct(v.Params())
	if got != v {
		t.Errorf("Reconstruct(Params()) = %+v, want %+v", got, v)
	}
	if name, ok := got.PreviewFilename(); !ok || name != p.PreviewFilename {
		t.Errorf("PreviewFilename() = %q, %v", name, ok)
	}
}

func TestTimestamp_FormatParse(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 6000000, time.UTC)
	s := FormatTimestamp(ts)
	if s != "2026-01-02T03:04:05.006Z" {
		t.Fatalf("FormatTimestamp() = %q", s)
	}
	back, err := ParseTimestamp(s)
	if err != nil {
		t.Fatalf("ParseTimestamp: %v", err)
	}
	if !back.Equal(ts) {
		t.Errorf("ParseTimestamp() = %v, want %v", back, ts)
	}
	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Error("expected parse error")
	}
}

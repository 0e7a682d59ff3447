package video

import "testing"

func TestDefaultVocabulary(t *testing.T) {
	v := DefaultVocabulary()
	for _, typ := range []Type{TypeVideo, TypeDemo, TypeSeries, TypeInterview, TypeTeaser, TypeBackground} {
		if !v.Allows(typ) {
			t.Errorf("Allows(%q) = false", typ)
		}
	}
	if v.Allows("Demo") {
		t.Error("type check must be case-sensitive")
	}
	if got := v.Label(TypeInterview); got != "Interview" {
		t.Errorf("Label() = %q", got)
	}
	if len(v.Types()) != 6 || v.Types()[0] != TypeVideo {
		t.Errorf("Types() = %v", v.Types())
	}
}

func TestNewVocabulary(t *testing.T) {
	v, err := NewVocabulary([]Entry{{Type: "behind scenes"}, {Type: "series", Label: "Сериал"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := v.Label("behind scenes"); got != "Behind Scenes" {
		t.Errorf("fallback label = %q", got)
	}
	if got := v.Label("series"); got != "Сериал" {
		t.Errorf("label = %q", got)
	}
	if got := v.Label("unknown"); got != "Unknown" {
		t.Errorf("unknown label = %q", got)
	}

	types := v.Types()
	types[0] = "mutated"
	if v.Types()[0] != "behind scenes" {
		t.Error("Types() must return a copy")
	}
}

func TestNewVocabulary_Invalid(t *testing.T) {
	if _, err := NewVocabulary(nil); err == nil {
		t.Error("expected error for empty vocabulary")
	}
	if _, err := NewVocabulary([]Entry{{Type: ""}}); err == nil {
		t.Error("expected error for empty type")
	}
	if _, err := NewVocabulary([]Entry{{Type: "demo"}, {Type: "demo"}}); err == nil {
		t.Error("expected error for duplicate type")
	}
}

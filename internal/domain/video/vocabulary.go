package video

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Default catalog types.
const (
	TypeVideo      Type = "video"
	TypeDemo       Type = "demo"
	TypeSeries     Type = "series"
	TypeInterview  Type = "interview"
	TypeTeaser     Type = "teaser"
	TypeBackground Type = "background"
)

// Vocabulary is the closed set of allowed video types with display labels.
type Vocabulary struct {
	order  []Type
	labels map[Type]string
}

// Entry is one vocabulary item. An empty Label falls back to the title-cased type.
type Entry struct {
	Type  Type
	Label string
}

// NewVocabulary validates entries: non-empty, unique types.
func NewVocabulary(entries []Entry) (Vocabulary, error) {
	if len(entries) == 0 {
		return Vocabulary{}, fmt.Errorf("vocabulary must not be empty")
	}
	v := Vocabulary{
		order:  make([]Type, 0, len(entries)),
		labels: make(map[Type]string, len(entries)),
	}
	for _, e := range entries {
		if e.Type == "" {
			return Vocabulary{}, fmt.Errorf("vocabulary type must not be empty")
		}
		if _, dup := v.labels[e.Type]; dup {
			return Vocabulary{}, fmt.Errorf("duplicate vocabulary type %q", e.Type)
		}
		label := e.Label
		if label == "" {
			label = cases.Title(language.Und).String(string(e.Type))
		}
		v.order = append(v.order, e.Type)
		v.labels[e.Type] = label
	}
	return v, nil
}

// DefaultVocabulary returns the stock catalog types.
func DefaultVocabulary() Vocabulary {
	v, _ := NewVocabulary([]Entry{
		{Type: TypeVideo, Label: "Video"},
		{Type: TypeDemo, Label: "Demo"},
		{Type: TypeSeries, Label: "Series"},
		{Type: TypeInterview, Label: "Interview"},
		{Type: TypeTeaser, Label: "Teaser"},
		{Type: TypeBackground, Label: "Background"},
	})
	return v
}

// Allows reports whether t is part of the vocabulary.
func (v Vocabulary) Allows(t Type) bool {
	_, ok := v.labels[t]
	return ok
}

// Label returns the display label of t. Unknown types are title-cased.
func (v Vocabulary) Label(t Type) string {
	if l, ok := v.labels[t]; ok {
		return l
	}
	return cases.Title(language.Und).String(string(t))
}

// Types returns the allowed types in configuration order.
func (v Vocabulary) Types() []Type {
	return append([]Type(nil), v.order...)
}

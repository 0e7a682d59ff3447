package catalog

import (
	"github.com/riverdub/riverdub/internal/domain/search/fuzzy"
	"github.com/riverdub/riverdub/internal/domain/video"
)

// Haystack returns the searchable text of v: folded title and description.
func Haystack(v *video.Video) string {
	return fuzzy.Fold(v.Title()) + " " + fuzzy.Fold(v.Description())
}

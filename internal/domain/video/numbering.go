package video

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/riverdub/riverdub/internal/domain"
)

// Numbering is the optional season/episode pair of a video.
// Either both numbers are present and positive, or the video is unnumbered.
type Numbering struct {
	season  int
	episode int
	present bool
}

// Unnumbered returns the absent Numbering.
func Unnumbered() Numbering { return Numbering{} }

// NewNumbering validates and creates a present Numbering.
func NewNumbering(season, episode int) (Numbering, error) {
	if season <= 0 || episode <= 0 {
		return Numbering{}, fmt.Errorf("season and episode must be positive, got %d/%d: %w",
			season, episode, domain.ErrInvalidNumbering)
	}
	return Numbering{season: season, episode: episode, present: true}, nil
}

// ParseNumbering builds a Numbering from raw form values. Two blanks mean unnumbered;
// exactly one blank or a non-integer value is an error.
func ParseNumbering(rawSeason, rawEpisode string) (Numbering, error) {
	rawSeason = strings.TrimSpace(rawSeason)
	rawEpisode = strings.TrimSpace(rawEpisode)
	if rawSeason == "" && rawEpisode == "" {
		return Unnumbered(), nil
	}
	if rawSeason == "" || rawEpisode == "" {
		return Numbering{}, fmt.Errorf("season and episode must be given together: %w", domain.ErrInvalidNumbering)
	}
	season, err := strconv.Atoi(rawSeason)
	if err != nil {
		return Numbering{}, fmt.Errorf("season %q: %w", rawSeason, domain.ErrInvalidNumbering)
	}
	episode, err := strconv.Atoi(rawEpisode)
	if err != nil {
		return Numbering{}, fmt.Errorf("episode %q: %w", rawEpisode, domain.ErrInvalidNumbering)
	}
	return NewNumbering(season, episode)
}

// IsPresent reports whether the video has a season and an episode.
func (n Numbering) IsPresent() bool { return n.present }

// Season returns the season number and whether it is present.
func (n Numbering) Season() (int, bool) { return n.season, n.present }

// Episode returns the episode number and whether it is present.
func (n Numbering) Episode() (int, bool) { return n.episode, n.present }

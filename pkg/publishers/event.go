package publishers

import (
	"time"

	"github.com/Sosisya/films-api/pkg/models"
)

// Event represents the payload published downstream for a newly seen movie.
type Event struct {
	FeedID      string       `json:"feed_id"`
	FeedName    string       `json:"feed_name"`
	Movie       models.Movie `json:"movie"`
	PosterURL   string       `json:"poster_url,omitempty"`
	Extras      *Extras      `json:"extras,omitempty"`
	CollectedAt time.Time    `json:"collected_at"`
}

// Extras carries optional detail attached by enrichment.
type Extras struct {
	IMDbID          string   `json:"imdb_id,omitempty"`
	Tagline         string   `json:"tagline,omitempty"`
	Runtime         int      `json:"runtime,omitempty"`
	Genres          []string `json:"genres,omitempty"`
	Homepage        string   `json:"homepage,omitempty"`
	PageTitle       string   `json:"page_title,omitempty"`
	PageDescription string   `json:"page_description,omitempty"`
	PageImage       string   `json:"page_image,omitempty"`
}

// NewEvent constructs an Event for the given feed + movie.
func NewEvent(feedID, feedName string, movie models.Movie) Event {
	return Event{
		FeedID:      feedID,
		FeedName:    feedName,
		Movie:       movie,
		PosterURL:   models.ImageURL(movie.PosterPath),
		CollectedAt: time.Now().UTC(),
	}
}

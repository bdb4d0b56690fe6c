// Package models holds the TMDb response shapes decoded by the films API client.
package models

// Movie is the list entry returned by every paged movie endpoint.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	OriginalLanguage string  `json:"original_language"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	GenreIDs         []int   `json:"genre_ids"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Adult            bool    `json:"adult"`
	Video            bool    `json:"video"`
}

// MoviePage is one page of movie results.
type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// DateRange bounds the release window of now-playing and upcoming listings.
type DateRange struct {
	Maximum string `json:"maximum"`
	Minimum string `json:"minimum"`
}

// DatedMoviePage is a MoviePage carrying the release window it covers.
type DatedMoviePage struct {
	Dates        DateRange `json:"dates"`
	Page         int       `json:"page"`
	Results      []Movie   `json:"results"`
	TotalPages   int       `json:"total_pages"`
	TotalResults int       `json:"total_results"`
}

type (
	// Popular is the response of movie/popular.
	Popular MoviePage
	// TopRated is the response of movie/top_rated.
	TopRated MoviePage
	// MoviesOfGenre is the response of discover/movie filtered by genre.
	MoviesOfGenre MoviePage
	// NowPlaying is the response of movie/now_playing.
	NowPlaying DatedMoviePage
	// Upcoming is the response of movie/upcoming.
	Upcoming DatedMoviePage
)

// Genre is a TMDb movie genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Genres is the response of genre/movie/list.
type Genres struct {
	Genres []Genre `json:"genres"`
}

// Name returns the genre name for id, if listed.
func (g Genres) Name(id int) (string, bool) {
	for _, genre := range g.Genres {
		if genre.ID == id {
			return genre.Name, true
		}
	}
	return "", false
}

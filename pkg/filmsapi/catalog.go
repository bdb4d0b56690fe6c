package filmsapi

import (
	"context"
	"strconv"

	"github.com/Sosisya/films-api/pkg/models"
)

// Catalog is the set of movie catalog operations. *Client is the production implementation.
type Catalog interface {
	GetPopular(ctx context.Context) (models.Popular, error)
	GetNowPlaying(ctx context.Context) (models.NowPlaying, error)
	GetUpcoming(ctx context.Context) (models.Upcoming, error)
	GetTopRated(ctx context.Context) (models.TopRated, error)
	GetGenres(ctx context.Context) (models.Genres, error)
	GetMoviesOfTheGenre(ctx context.Context, id, page int) (models.MoviesOfGenre, error)
	GetMovieDetails(ctx context.Context, id int) (models.MovieDetails, error)
	GetCastAndCrew(ctx context.Context, id int) (models.CastAndCrew, error)
}

var _ Catalog = (*Client)(nil)

func (c *Client) GetPopular(ctx context.Context) (models.Popular, error) {
	return Fetch[models.Popular](ctx, c, PathPopular)
}

func (c *Client) GetNowPlaying(ctx context.Context) (models.NowPlaying, error) {
	return Fetch[models.NowPlaying](ctx, c, PathNowPlaying)
}

func (c *Client) GetUpcoming(ctx context.Context) (models.Upcoming, error) {
	return Fetch[models.Upcoming](ctx, c, PathUpcoming)
}

func (c *Client) GetTopRated(ctx context.Context) (models.TopRated, error) {
	return Fetch[models.TopRated](ctx, c, PathTopRated)
}

func (c *Client) GetGenres(ctx context.Context) (models.Genres, error) {
	return Fetch[models.Genres](ctx, c, PathGenres)
}

// GetMoviesOfTheGenre returns one discover page of movies tagged with genre id.
func (c *Client) GetMoviesOfTheGenre(ctx context.Context, id, page int) (models.MoviesOfGenre, error) {
	return FetchWithParams[models.MoviesOfGenre](ctx, c, PathDiscoverMovie, strconv.Itoa(id), strconv.Itoa(page))
}

func (c *Client) GetMovieDetails(ctx context.Context, id int) (models.MovieDetails, error) {
	return Fetch[models.MovieDetails](ctx, c, MovieDetailsPath(id))
}

func (c *Client) GetCastAndCrew(ctx context.Context, id int) (models.CastAndCrew, error) {
	return Fetch[models.CastAndCrew](ctx, c, CastAndCrewPath(id))
}

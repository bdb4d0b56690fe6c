package feeds

import (
	"context"
	"errors"
	"testing"

	"github.com/Sosisya/films-api/pkg/models"
)

// fakeCatalog returns one distinct movie per operation and records genre calls.
type fakeCatalog struct {
	genreID, page int
	err           error
}

func movies(id int) []models.Movie { return []models.Movie{{ID: id}} }

func (f *fakeCatalog) GetPopular(context.Context) (models.Popular, error) {
	return models.Popular{Results: movies(1)}, f.err
}
func (f *fakeCatalog) GetNowPlaying(context.Context) (models.NowPlaying, error) {
	return models.NowPlaying{Results: movies(2)}, f.err
}
func (f *fakeCatalog) GetUpcoming(context.Context) (models.Upcoming, error) {
	return models.Upcoming{Results: movies(3)}, f.err
}
func (f *fakeCatalog) GetTopRated(context.Context) (models.TopRated, error) {
	return models.TopRated{Results: movies(4)}, f.err
}
func (f *fakeCatalog) GetGenres(context.Context) (models.Genres, error) {
	return models.Genres{}, f.err
}
func (f *fakeCatalog) GetMoviesOfTheGenre(_ context.Context, id, page int) (models.MoviesOfGenre, error) {
	f.genreID, f.page = id, page
	return models.MoviesOfGenre{Results: movies(5)}, f.err
}
func (f *fakeCatalog) GetMovieDetails(context.Context, int) (models.MovieDetails, error) {
	return models.MovieDetails{}, f.err
}
func (f *fakeCatalog) GetCastAndCrew(context.Context, int) (models.CastAndCrew, error) {
	return models.CastAndCrew{}, f.err
}

func TestFetchDispatchesByKind(t *testing.T) {
	cases := []struct {
		kind string
		want int
	}{
		{KindPopular, 1},
		{KindNowPlaying, 2},
		{KindUpcoming, 3},
		{KindTopRated, 4},
		{KindGenre, 5},
	}
	for _, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			cat := &fakeCatalog{}
			got, err := Fetch(context.Background(), cat, Feed{ID: "f", Kind: tc.kind, GenreID: 28, Page: 3})
			if err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			if len(got) != 1 || got[0].ID != tc.want {
				t.Fatalf("unexpected movies %+v", got)
			}
			if tc.kind == KindGenre && (cat.genreID != 28 || cat.page != 3) {
				t.Fatalf("genre params not forwarded: id=%d page=%d", cat.genreID, cat.page)
			}
		})
	}
}

func TestFetchPropagatesErrorsAndUnknownKinds(t *testing.T) {
	boom := errors.New("boom")
	if _, err := Fetch(context.Background(), &fakeCatalog{err: boom}, Feed{ID: "p", Kind: KindPopular}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := Fetch(context.Background(), &fakeCatalog{}, Feed{ID: "x", Kind: "trending"}); err == nil {
		t.Fatal("expected unsupported kind error")
	}
	if _, err := Fetch(context.Background(), nil, Feed{ID: "x", Kind: KindPopular}); err == nil {
		t.Fatal("expected nil catalog error")
	}
}

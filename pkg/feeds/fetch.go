package feeds

import (
	"context"
	"fmt"

	"github.com/Sosisya/films-api/pkg/filmsapi"
	"github.com/Sosisya/films-api/pkg/models"
)

// Fetch resolves the catalog operation behind f and returns the movies it lists.
func Fetch(ctx context.Context, catalog filmsapi.Catalog, f Feed) ([]models.Movie, error) {
	if catalog == nil {
		return nil, fmt.Errorf("feed %q: catalog is nil", f.ID)
	}

	var (
		results []models.Movie
		err     error
	)
	switch f.Kind {
	case KindPopular:
		var page models.Popular
		page, err = catalog.GetPopular(ctx)
		results = page.Results
	case KindNowPlaying:
		var page models.NowPlaying
		page, err = catalog.GetNowPlaying(ctx)
		results = page.Results
	case KindUpcoming:
		var page models.Upcoming
		page, err = catalog.GetUpcoming(ctx)
		results = page.Results
	case KindTopRated:
		var page models.TopRated
		page, err = catalog.GetTopRated(ctx)
		results = page.Results
	case KindGenre:
		p := f.Page
		if p <= 0 {
			p = defaultPage
		}
		var page models.MoviesOfGenre
		page, err = catalog.GetMoviesOfTheGenre(ctx, f.GenreID, p)
		results = page.Results
	default:
		return nil, fmt.Errorf("feed %q has unsupported kind %q", f.ID, f.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", f.ID, err)
	}
	return results, nil
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Sosisya/films-api/internal/app"
	"github.com/Sosisya/films-api/internal/config"
	"github.com/Sosisya/films-api/internal/logger"
	"github.com/Sosisya/films-api/internal/storage"
	"github.com/Sosisya/films-api/pkg/filmsapi"
)

// catalogOpener returns a ready catalog and a cleanup func.
type catalogOpener func(ctx context.Context) (filmsapi.Catalog, func(), error)

func newRootCmd(out io.Writer, open catalogOpener) *cobra.Command {
	root := &cobra.Command{
		Use:   "filmsapi",
		Short: "Query the TMDb movie catalog",
		Long: "filmsapi runs a single catalog request and prints the decoded response as JSON.\n" +
			"The API key is read from TMDB_API_KEY (or configs/.env).",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(
		listCmd("popular", "Movies popular right now", open, out,
			func(ctx context.Context, c filmsapi.Catalog) (any, error) { return c.GetPopular(ctx) }),
		listCmd("now-playing", "Movies currently in theatres", open, out,
			func(ctx context.Context, c filmsapi.Catalog) (any, error) { return c.GetNowPlaying(ctx) }),
		listCmd("upcoming", "Movies about to be released", open, out,
			func(ctx context.Context, c filmsapi.Catalog) (any, error) { return c.GetUpcoming(ctx) }),
		listCmd("top-rated", "Top rated movies", open, out,
			func(ctx context.Context, c filmsapi.Catalog) (any, error) { return c.GetTopRated(ctx) }),
		listCmd("genres", "The official list of movie genres", open, out,
			func(ctx context.Context, c filmsapi.Catalog) (any, error) { return c.GetGenres(ctx) }),
		newDiscoverCmd(open, out),
		newMovieCmd(open, out),
		newCreditsCmd(open, out),
	)
	return root
}

// run opens the catalog, executes call and prints its result.
func run(ctx context.Context, open catalogOpener, out io.Writer, call func(context.Context, filmsapi.Catalog) (any, error)) error {
	catalog, cleanup, err := open(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	v, err := call(ctx, catalog)
	if err != nil {
		return err
	}
	return printJSON(out, v)
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// openCatalog builds the production client from config, sharing the bbolt response cache.
func openCatalog(_ context.Context) (filmsapi.Catalog, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		MovieTTL:        cfg.MovieTTL,
		ResponseTTL:     cfg.ResponseTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = logger.Close()
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}

	client, err := app.NewCatalogClient(cfg, store, log)
	if err != nil {
		_ = store.Close()
		_ = logger.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			log.ErrorObj("storage close failed", "error", err.Error())
		}
		_ = logger.Close()
	}
	return client, cleanup, nil
}

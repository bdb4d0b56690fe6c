package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Sosisya/films-api/pkg/filmsapi"
)

func listCmd(use, short string, open catalogOpener, out io.Writer, call func(context.Context, filmsapi.Catalog) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), open, out, call)
		},
	}
}

func newDiscoverCmd(open catalogOpener, out io.Writer) *cobra.Command {
	var genre, page int
	cmd := &cobra.Command{
		Use:     "discover",
		Short:   "Movies of a genre",
		Example: "  filmsapi discover --genre 28 --page 2",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if genre <= 0 {
				return fmt.Errorf("--genre must be a positive genre id")
			}
			if page <= 0 {
				return fmt.Errorf("--page must be positive")
			}
			return run(cmd.Context(), open, out, func(ctx context.Context, c filmsapi.Catalog) (any, error) {
				return c.GetMoviesOfTheGenre(ctx, genre, page)
			})
		},
	}
	cmd.Flags().IntVar(&genre, "genre", 0, "genre id (see `filmsapi genres`)")
	cmd.Flags().IntVar(&page, "page", 1, "result page")
	_ = cmd.MarkFlagRequired("genre")
	return cmd
}

func newMovieCmd(open catalogOpener, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "movie ID",
		Short: "Details of a single movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			return run(cmd.Context(), open, out, func(ctx context.Context, c filmsapi.Catalog) (any, error) {
				return c.GetMovieDetails(ctx, id)
			})
		},
	}
}

func newCreditsCmd(open catalogOpener, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "credits ID",
		Short: "Cast and crew of a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			return run(cmd.Context(), open, out, func(ctx context.Context, c filmsapi.Catalog) (any, error) {
				return c.GetCastAndCrew(ctx, id)
			})
		},
	}
}

func parseMovieID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie id %q", raw)
	}
	return id, nil
}

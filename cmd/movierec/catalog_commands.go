package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rushteam/movierec/core"
)

func newPopularCommand(ctx *commandContext) *cobra.Command {
	var count int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "popular",
		Short: "List the most popular movies",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			ids, err := rt.artifacts.Popularity.Top(cmd.Context(), count)
			if err != nil {
				return err
			}
			movies := make([]*core.Movie, 0, len(ids))
			for _, id := range ids {
				if m, ok := rt.artifacts.Catalog.Lookup(id); ok {
					movies = append(movies, m)
				}
			}
			return printMovies(cmd, movies, jsonOut)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 20, "Number of movies")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON")
	return cmd
}

func newNewestCommand(ctx *commandContext) *cobra.Command {
	var count int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "new",
		Short: "List the newest releases in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()
			return printMovies(cmd, rt.artifacts.Catalog.Newest(count), jsonOut)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 20, "Number of movies")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON")
	return cmd
}

func printMovies(cmd *cobra.Command, movies []*core.Movie, jsonOut bool) error {
	if jsonOut {
		return writeJSON(cmd, movies)
	}
	if len(movies) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No movies")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), movieTable(movies))
	return nil
}

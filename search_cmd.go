package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"matchview/models"
)

var (
	searchToken    string
	searchCriteria models.SearchCriteria
	searchPage     int
	searchPageSize int
	searchLoadAll  bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run one search against the backend and print a page as JSON",
	Long: `Runs a search as the viewer identified by --token, applies the same
filtering and pagination the API does, and prints the requested page.

Example:
  matchview search --token $TOKEN --gender Female --age-min 25 --age-max 32 --page 2`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringVar(&searchToken, "token", "", "viewer bearer token (required)")
	f.StringVar(&searchCriteria.Keyword, "keyword", "", "free-text keyword")
	f.StringVar(&searchCriteria.Gender, "gender", "", "gender to search for")
	f.IntVar(&searchCriteria.AgeMin, "age-min", 0, "minimum age")
	f.IntVar(&searchCriteria.AgeMax, "age-max", 0, "maximum age")
	f.IntVar(&searchCriteria.HeightMin, "height-min", 0, "minimum height in inches")
	f.IntVar(&searchCriteria.HeightMax, "height-max", 0, "maximum height in inches")
	f.StringVar(&searchCriteria.Location, "location", "", "location")
	f.StringVar(&searchCriteria.Religion, "religion", "", "religion")
	f.BoolVar(&searchCriteria.NewlyAdded, "newly-added", false, "only recently created profiles")
	f.IntVar(&searchCriteria.DaysBack, "days-back", 0, "window for --newly-added")
	f.IntVar(&searchPage, "page", 1, "page to print")
	f.IntVar(&searchPageSize, "page-size", 0, "page size (default from config)")
	f.BoolVar(&searchLoadAll, "all", false, "keep loading backend pages until the buffer is full")
	_ = searchCmd.MarkFlagRequired("token")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a := newApp(cfg, logger).withSearch(cfg, nil, logger)
	sess, err := a.tokens.Parse(searchToken)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	searches := a.services.Search

	view, err := searches.Run(ctx, sess, searchCriteria)
	if err != nil {
		return err
	}
	for searchLoadAll && view.CanLoadMore {
		if view, err = searches.LoadMore(ctx, sess); err != nil {
			return err
		}
	}
	if searchPageSize > 0 {
		if _, err := searches.SetPageSize(ctx, sess, searchPageSize); err != nil {
			return err
		}
	}
	if view, err = searches.View(ctx, sess, searchPage); err != nil {
		return err
	}

	out, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

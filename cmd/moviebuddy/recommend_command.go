package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"moviebuddy/internal/recommend"
	"moviebuddy/internal/services"
)

func newRecommendCommand(ctx *commandContext) *cobra.Command {
	var count int
	var asJSON bool
	var noMetadata bool

	cmd := &cobra.Command{
		Use:   "recommend <title>",
		Short: "Show the movies most similar to a title",
		Long: `Rank the catalog against a title and print the closest matches.

Titles must match the catalog exactly; on a miss the closest titles are
suggested. Metadata comes from OMDb unless --no-metadata is set.

Examples:
  moviebuddy recommend "The Dark Knight"
  moviebuddy recommend Avatar --count 5 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if count < 0 || count > cfg.Recommend.Count {
				return fmt.Errorf("--count must be between 1 and %d (recommend.count)", cfg.Recommend.Count)
			}
			logger, err := ctx.newLogger(cfg, true)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			var fetcher recommend.RecordFetcher
			if !noMetadata {
				f, err := newFetcher(cfg, logger)
				if err != nil {
					return err
				}
				fetcher = f
			}

			rec, err := newRecommender(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			title := args[0]
			matches, err := rec.NeighborsContext(cmd.Context(), title, count)
			if errors.Is(err, services.ErrNotFound) {
				return notFoundError(title, rec.Suggest(title, cfg.Recommend.Suggestions))
			}
			if err != nil {
				return err
			}

			cards := recommend.BuildCards(cmd.Context(), matches, fetcher)
			if asJSON {
				return writeJSON(cmd, recommendOutput{Title: title, Cards: cards})
			}
			printCards(cmd.OutOrStdout(), title, cards, fetcher != nil)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of recommendations (default from recommend.count)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&noMetadata, "no-metadata", false, "Skip OMDb lookups")
	return cmd
}

type recommendOutput struct {
	Title string           `json:"title"`
	Cards []recommend.Card `json:"cards"`
}

func notFoundError(title string, suggestions []string) error {
	if len(suggestions) == 0 {
		return fmt.Errorf("title %q not found in catalog", title)
	}
	quoted := make([]string, len(suggestions))
	for i, s := range suggestions {
		quoted[i] = strconv.Quote(s)
	}
	return fmt.Errorf("title %q not found in catalog; did you mean %s?", title, strings.Join(quoted, ", "))
}

func printCards(out io.Writer, title string, cards []recommend.Card, withMetadata bool) {
	if len(cards) == 0 {
		fmt.Fprintf(out, "No recommendations for %s\n", title)
		return
	}
	headers := []string{"#", "Title", "Score"}
	aligns := []columnAlignment{alignRight, alignLeft, alignRight}
	if withMetadata {
		headers = append(headers, "Year", "Rating", "Genre", "Link")
		aligns = append(aligns, alignLeft, alignRight, alignLeft, alignLeft)
	}
	rows := make([][]string, 0, len(cards))
	for _, card := range cards {
		row := []string{
			strconv.Itoa(card.Rank),
			card.Title,
			strconv.FormatFloat(card.Score, 'f', 3, 64),
		}
		if withMetadata {
			row = append(row, card.Year, card.Rating, card.Genre, card.DetailURL)
		}
		rows = append(rows, row)
	}
	fmt.Fprintf(out, "Because you picked %s:\n", title)
	fmt.Fprintln(out, renderTable(headers, rows, aligns, shouldColorize(out)))
}

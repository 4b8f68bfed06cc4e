package recommend

import (
	"context"

	"moviebuddy/internal/metadata"
)

// Card is a ranked recommendation ready for display.
type Card struct {
	Rank    int     `json:"rank"`
	Title   string  `json:"title"`
	MovieID int64   `json:"movie_id,omitempty"`
	Score   float64 `json:"score"`
	metadata.Record
}

// RecordFetcher resolves metadata for a batch of titles in order.
type RecordFetcher interface {
	FetchAll(ctx context.Context, titles []string) []metadata.Record
}

// BuildCards pairs matches with their metadata. A nil fetcher leaves the
// metadata fields empty.
func BuildCards(ctx context.Context, matches []Match, fetcher RecordFetcher) []Card {
	cards := make([]Card, len(matches))
	titles := make([]string, len(matches))
	for i, match := range matches {
		cards[i] = Card{
			Rank:    i + 1,
			Title:   match.Entry.Title,
			MovieID: match.Entry.MovieID,
			Score:   match.Score,
		}
		titles[i] = match.Entry.Title
	}
	if fetcher == nil || len(matches) == 0 {
		return cards
	}
	for i, record := range fetcher.FetchAll(ctx, titles) {
		if i < len(cards) {
			cards[i].Record = record
		}
	}
	return cards
}

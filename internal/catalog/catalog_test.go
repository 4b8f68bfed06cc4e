package catalog_test

import (
	"errors"
	"reflect"
	"testing"

	"moviebuddy/internal/catalog"
	"moviebuddy/internal/services"
)

func mustCatalog(t *testing.T, titles ...string) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.FromTitles(titles)
	if err != nil {
		t.Fatalf("FromTitles returned error: %v", err)
	}
	return cat
}

func TestLookupAssignsPositionsInOrder(t *testing.T) {
	cat := mustCatalog(t, "Avatar", "Titanic", "Alien")
	if cat.Len() != 3 {
		t.Fatalf("unexpected len: %d", cat.Len())
	}
	entry, ok := cat.Lookup("Titanic")
	if !ok {
		t.Fatal("expected Titanic to be found")
	}
	if entry.Position != 1 {
		t.Fatalf("expected position 1, got %d", entry.Position)
	}
	if _, ok := cat.Lookup("titanic"); ok {
		t.Fatal("lookup must be exact")
	}
	if _, ok := cat.Lookup("Heat"); ok {
		t.Fatal("unexpected match for absent title")
	}
}

func TestLookupDuplicateTitleResolvesToFirstOccurrence(t *testing.T) {
	cat := mustCatalog(t, "Heat", "Alien", "Heat", "Heat")
	entry, ok := cat.Lookup("Heat")
	if !ok || entry.Position != 0 {
		t.Fatalf("expected first occurrence at 0, got %+v ok=%v", entry, ok)
	}
	if got, _ := cat.At(2); got.Title != "Heat" || got.Position != 2 {
		t.Fatalf("unexpected entry at 2: %+v", got)
	}
}

func TestNewIgnoresIncomingPositionsAndKeepsIDs(t *testing.T) {
	cat, err := catalog.New([]catalog.Entry{
		{Position: 9, MovieID: 19995, Title: "Avatar"},
		{Position: 3, MovieID: 285, Title: "Pirates of the Caribbean: At World's End"},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	entry, _ := cat.At(1)
	if entry.Position != 1 || entry.MovieID != 285 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestNewRejectsEmptyTitle(t *testing.T) {
	_, err := catalog.FromTitles([]string{"Avatar", "  "})
	if !errors.Is(err, services.ErrDataIntegrity) {
		t.Fatalf("expected data integrity error, got %v", err)
	}
}

func TestAtOutOfRange(t *testing.T) {
	cat := mustCatalog(t, "Avatar")
	if _, ok := cat.At(-1); ok {
		t.Fatal("expected miss for negative position")
	}
	if _, ok := cat.At(1); ok {
		t.Fatal("expected miss past end")
	}
}

func TestTitlesAndEntriesAreCopies(t *testing.T) {
	cat := mustCatalog(t, "Avatar", "Alien")
	titles := cat.Titles()
	titles[0] = "changed"
	entries := cat.Entries()
	entries[1].Title = "changed"
	if !reflect.DeepEqual(cat.Titles(), []string{"Avatar", "Alien"}) {
		t.Fatalf("catalog mutated through returned slices: %v", cat.Titles())
	}
}

func TestSuggestRanksExactPrefixThenTokens(t *testing.T) {
	cat := mustCatalog(t,
		"The Dark Knight Rises",
		"The Dark Knight",
		"Knight and Day",
		"Dark Shadows",
		"Finding Nemo",
		"the dark knight",
	)
	got := cat.Suggest("the dark knight", 4)
	want := []string{"The Dark Knight", "the dark knight", "The Dark Knight Rises", "Knight and Day"}
	if len(got) < 3 || !reflect.DeepEqual(got[:3], want[:3]) {
		t.Fatalf("Suggest() = %v, want prefix %v", got, want[:3])
	}
	for _, title := range got {
		if title == "Finding Nemo" {
			t.Fatalf("unrelated title suggested: %v", got)
		}
	}
}

func TestSuggestEmptyQueryOrLimit(t *testing.T) {
	cat := mustCatalog(t, "Avatar")
	if got := cat.Suggest("   ", 5); got != nil {
		t.Fatalf("expected nil for blank query, got %v", got)
	}
	if got := cat.Suggest("Avatar", 0); got != nil {
		t.Fatalf("expected nil for zero limit, got %v", got)
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	cat := mustCatalog(t, "Alien", "Aliens", "Avatar", "ALIEN³")
	got := cat.Search("alien", 0)
	want := []string{"Alien", "Aliens", "ALIEN³"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Search() = %v, want %v", got, want)
	}
	if got := cat.Search("", 2); len(got) != 2 {
		t.Fatalf("expected limit to apply, got %v", got)
	}
}

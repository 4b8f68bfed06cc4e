package catalog

import (
	"fmt"
	"strings"

	"moviebuddy/internal/services"
	"moviebuddy/internal/textutil"
)

// Entry is one movie in the corpus.
type Entry struct {
	Position int    `json:"position"`
	MovieID  int64  `json:"movie_id,omitempty"`
	Title    string `json:"title"`
}

// Catalog is an immutable, position-ordered collection of entries.
type Catalog struct {
	entries []Entry
	index   map[string]int

	folded       []string
	fingerprints []*textutil.Fingerprint
	idf          map[string]float64
}

// New builds a catalog from entries in artifact order. Positions are assigned
// from slice order; any Position already set on the input is ignored.
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		entries:      make([]Entry, len(entries)),
		index:        make(map[string]int, len(entries)),
		folded:       make([]string, len(entries)),
		fingerprints: make([]*textutil.Fingerprint, len(entries)),
	}
	corpus := textutil.NewCorpus()
	for i, entry := range entries {
		if strings.TrimSpace(entry.Title) == "" {
			return nil, services.Wrap(services.ErrDataIntegrity, "catalog", "build", fmt.Sprintf("entry %d has an empty title", i), nil)
		}
		entry.Position = i
		c.entries[i] = entry
		if _, seen := c.index[entry.Title]; !seen {
			c.index[entry.Title] = i
		}
		c.folded[i] = textutil.Fold(entry.Title)
		c.fingerprints[i] = textutil.NewFingerprint(entry.Title)
		corpus.Add(c.fingerprints[i])
	}
	c.idf = corpus.IDF()
	for i, fp := range c.fingerprints {
		c.fingerprints[i] = fp.WithIDF(c.idf)
	}
	return c, nil
}

// FromTitles builds a catalog from bare titles.
func FromTitles(titles []string) (*Catalog, error) {
	entries := make([]Entry, len(titles))
	for i, title := range titles {
		entries[i] = Entry{Title: title}
	}
	return New(entries)
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Lookup returns the first entry whose title matches exactly.
func (c *Catalog) Lookup(title string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	pos, ok := c.index[title]
	if !ok {
		return Entry{}, false
	}
	return c.entries[pos], true
}

// At returns the entry at position.
func (c *Catalog) At(position int) (Entry, bool) {
	if c == nil || position < 0 || position >= len(c.entries) {
		return Entry{}, false
	}
	return c.entries[position], true
}

// Titles returns all titles in position order, duplicates included.
func (c *Catalog) Titles() []string {
	if c == nil {
		return nil
	}
	titles := make([]string, len(c.entries))
	for i, entry := range c.entries {
		titles[i] = entry.Title
	}
	return titles
}

// Entries returns a copy of the entries in position order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	return append([]Entry(nil), c.entries...)
}

package catalog

import (
	"sort"
	"strings"

	"moviebuddy/internal/textutil"
)

// minSuggestScore keeps token matches that share only a weak term out of the list.
const minSuggestScore = 0.2

type candidate struct {
	position int
	tier     int
	score    float64
}

// Suggest returns up to limit distinct titles resembling query, best first.
// Case-insensitive exact matches rank first, then prefix matches, then
// substring matches, then titles sharing weighted tokens with the query.
func (c *Catalog) Suggest(query string, limit int) []string {
	if c == nil || limit <= 0 {
		return nil
	}
	folded := textutil.Fold(query)
	if folded == "" {
		return nil
	}
	queryFP := textutil.NewFingerprint(query).WithIDF(c.idf)

	candidates := make([]candidate, 0, 16)
	for i, title := range c.folded {
		cand := candidate{position: i, tier: -1}
		switch {
		case title == folded:
			cand.tier = 0
		case strings.HasPrefix(title, folded):
			cand.tier = 1
		case strings.Contains(title, folded):
			cand.tier = 2
		}
		cand.score = textutil.CosineSimilarity(queryFP, c.fingerprints[i])
		if cand.tier < 0 {
			if cand.score < minSuggestScore {
				continue
			}
			cand.tier = 3
		}
		candidates = append(candidates, cand)
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].tier != candidates[b].tier {
			return candidates[a].tier < candidates[b].tier
		}
		return candidates[a].score > candidates[b].score
	})

	out := make([]string, 0, limit)
	seen := make(map[string]struct{}, limit)
	for _, cand := range candidates {
		title := c.entries[cand.position].Title
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		out = append(out, title)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Search returns titles containing query case-insensitively, in position
// order, capped at limit (limit <= 0 means no cap). An empty query returns
// every title.
func (c *Catalog) Search(query string, limit int) []string {
	if c == nil {
		return nil
	}
	folded := textutil.Fold(query)
	out := make([]string, 0)
	for i, title := range c.folded {
		if folded != "" && !strings.Contains(title, folded) {
			continue
		}
		out = append(out, c.entries[i].Title)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

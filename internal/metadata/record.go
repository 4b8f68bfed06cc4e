package metadata

import (
	"strings"

	"moviebuddy/internal/metadata/omdb"
)

const (
	// NotAvailable fills any value the service did not supply.
	NotAvailable = "N/A"
	// NoDetailURL is used when no detail page can be linked.
	NoDetailURL = "#"

	imdbTitleURL = "https://www.imdb.com/title/"
)

// Default placeholder images.
const (
	DefaultNoPosterURL    = "https://placehold.co/150x220/000000/FFFFFF?text=No+Poster"
	DefaultErrorPosterURL = "https://placehold.co/150x220/000000/FFFFFF?text=API+Error"
)

// Record is the normalized metadata shown next to a recommendation.
type Record struct {
	PosterURL string `json:"poster_url"`
	DetailURL string `json:"detail_url"`
	Year      string `json:"year"`
	Rating    string `json:"rating"`
	Genre     string `json:"genre"`
}

// Placeholders are the poster images substituted for missing or failed data.
type Placeholders struct {
	NoPoster    string
	ErrorPoster string
}

// DefaultPlaceholders returns the stock placeholder images.
func DefaultPlaceholders() Placeholders {
	return Placeholders{NoPoster: DefaultNoPosterURL, ErrorPoster: DefaultErrorPosterURL}
}

func (p Placeholders) withDefaults() Placeholders {
	if strings.TrimSpace(p.NoPoster) == "" {
		p.NoPoster = DefaultNoPosterURL
	}
	if strings.TrimSpace(p.ErrorPoster) == "" {
		p.ErrorPoster = DefaultErrorPosterURL
	}
	return p
}

// Fallback returns the record used when a lookup fails.
func (p Placeholders) Fallback() Record {
	return Record{
		PosterURL: p.withDefaults().ErrorPoster,
		DetailURL: NoDetailURL,
		Year:      NotAvailable,
		Rating:    NotAvailable,
		Genre:     NotAvailable,
	}
}

// FromResponse maps an OMDb payload to a Record, defaulting each field
// independently.
func (p Placeholders) FromResponse(resp *omdb.Response) Record {
	p = p.withDefaults()
	if resp == nil {
		resp = &omdb.Response{}
	}
	record := Record{
		PosterURL: resp.Poster,
		DetailURL: NoDetailURL,
		Year:      valueOrNA(resp.Year),
		Rating:    valueOrNA(resp.IMDbRating),
		Genre:     valueOrNA(resp.Genre),
	}
	if poster := strings.TrimSpace(resp.Poster); poster == "" || poster == NotAvailable {
		record.PosterURL = p.NoPoster
	}
	if id := strings.TrimSpace(resp.IMDbID); id != "" {
		record.DetailURL = imdbTitleURL + id
	}
	return record
}

func valueOrNA(value string) string {
	if value == "" {
		return NotAvailable
	}
	return value
}

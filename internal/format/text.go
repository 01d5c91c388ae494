package format

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/five82/reel/internal/radarr"
)

const dateLayout = "Jan 2, 2006"

// Bytes renders n in binary units ("1.5 GiB"). Negative sizes render as 0 B.
func Bytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

// Date renders t as "Jan 2, 2006" in local time, or "-" when nil or zero.
func Date(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}

// RelativeDate renders t relative to now ("3 days ago", "2 weeks from now").
func RelativeDate(t *time.Time, now time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return humanize.RelTime(*t, now, "ago", "from now")
}

// MovieTitle renders "Title (Year)", omitting an unknown year.
func MovieTitle(title string, year int) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Untitled"
	}
	if year <= 0 {
		return title
	}
	return fmt.Sprintf("%s (%d)", title, year)
}

// Ratings summarizes the provider scores that are present.
func Ratings(r radarr.Ratings) string {
	var parts []string
	if r.Imdb != nil && r.Imdb.Value > 0 {
		parts = append(parts, fmt.Sprintf("IMDb %.1f", r.Imdb.Value))
	}
	if r.Tmdb != nil && r.Tmdb.Value > 0 {
		parts = append(parts, fmt.Sprintf("TMDb %.1f", r.Tmdb.Value))
	}
	if r.RottenTomatoes != nil && r.RottenTomatoes.Value > 0 {
		parts = append(parts, fmt.Sprintf("RT %.0f%%", r.RottenTomatoes.Value))
	}
	if r.Metacritic != nil && r.Metacritic.Value > 0 {
		parts = append(parts, fmt.Sprintf("MC %.0f", r.Metacritic.Value))
	}
	if len(parts) == 0 {
		return "No ratings"
	}
	return strings.Join(parts, " · ")
}

// Genres joins up to limit genres. A limit of zero or less keeps them all.
func Genres(genres []string, limit int) string {
	if limit > 0 && len(genres) > limit {
		genres = genres[:limit]
	}
	return strings.Join(genres, ", ")
}

// Runtime renders minutes as "2h 16m" or "45m". Zero renders empty.
func Runtime(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	return Duration(time.Duration(minutes) * time.Minute)
}

// SortMovies orders movies by sortTitle using English collation. Equal keys
// keep their relative order.
func SortMovies(movies []radarr.Movie) {
	c := collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics)
	var buf collate.Buffer
	keys := make(map[string][]byte, len(movies))
	key := func(s string) []byte {
		if k, ok := keys[s]; ok {
			return k
		}
		k := append([]byte(nil), c.KeyFromString(&buf, s)...)
		buf.Reset()
		keys[s] = k
		return k
	}
	sort.SliceStable(movies, func(i, j int) bool {
		return string(key(movies[i].SortTitle)) < string(key(movies[j].SortTitle))
	})
}

// QualityName returns the quality of the movie's file, or "-".
func QualityName(m radarr.Movie) string {
	if m.MovieFile == nil || m.MovieFile.Quality.Quality.Name == "" {
		return "-"
	}
	return m.MovieFile.Quality.Quality.Name
}

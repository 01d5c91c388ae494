package radarr

import (
	"strings"
	"time"
)

// Movie mirrors the /movie resource.
type Movie struct {
	ID               int64      `json:"id"`
	TmdbID           int64      `json:"tmdbId"`
	ImdbID           string     `json:"imdbId,omitempty"`
	Title            string     `json:"title"`
	SortTitle        string     `json:"sortTitle,omitempty"`
	TitleSlug        string     `json:"titleSlug,omitempty"`
	Year             int        `json:"year"`
	Overview         string     `json:"overview,omitempty"`
	Runtime          int        `json:"runtime,omitempty"`
	Genres           []string   `json:"genres,omitempty"`
	Ratings          Ratings    `json:"ratings"`
	Studio           string     `json:"studio,omitempty"`
	Certification    string     `json:"certification,omitempty"`
	Status           string     `json:"status,omitempty"`
	Images           []Image    `json:"images,omitempty"`
	Monitored        bool       `json:"monitored"`
	HasFile          bool       `json:"hasFile"`
	InCinemas        *time.Time `json:"inCinemas,omitempty"`
	DigitalRelease   *time.Time `json:"digitalRelease,omitempty"`
	PhysicalRelease  *time.Time `json:"physicalRelease,omitempty"`
	Added            *time.Time `json:"added,omitempty"`
	QualityProfileID int64      `json:"qualityProfileId,omitempty"`
	RootFolderPath   string     `json:"rootFolderPath,omitempty"`
	Path             string     `json:"path,omitempty"`
	SizeOnDisk       int64      `json:"sizeOnDisk,omitempty"`
	MovieFile        *MovieFile `json:"movieFile,omitempty"`
}

// MovieFile describes the file backing a movie.
type MovieFile struct {
	ID           int64         `json:"id"`
	Path         string        `json:"path"`
	RelativePath string        `json:"relativePath,omitempty"`
	Size         int64         `json:"size"`
	DateAdded    *time.Time    `json:"dateAdded,omitempty"`
	Quality      QualityRecord `json:"quality"`
}

// QualityRecord wraps the quality definition attached to files and history.
type QualityRecord struct {
	Quality Quality `json:"quality"`
}

// Quality is a single quality definition such as "Bluray-1080p".
type Quality struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Source     string `json:"source,omitempty"`
	Resolution int    `json:"resolution,omitempty"`
}

// Ratings groups the per-provider scores Radarr reports.
type Ratings struct {
	Imdb           *Rating `json:"imdb,omitempty"`
	Tmdb           *Rating `json:"tmdb,omitempty"`
	Metacritic     *Rating `json:"metacritic,omitempty"`
	RottenTomatoes *Rating `json:"rottenTomatoes,omitempty"`
}

// Rating is one provider's score.
type Rating struct {
	Votes int     `json:"votes"`
	Value float64 `json:"value"`
	Type  string  `json:"type,omitempty"`
}

// Image is poster or fanart metadata.
type Image struct {
	CoverType string `json:"coverType"`
	URL       string `json:"url,omitempty"`
	RemoteURL string `json:"remoteUrl,omitempty"`
}

// MovieLookup is a search candidate from /movie/lookup. Candidates already in
// the library carry their local ID.
type MovieLookup struct {
	Movie
}

// Added reports whether the candidate is already in the library.
func (m MovieLookup) Added() bool {
	return m.ID > 0
}

// QueueItem mirrors one record of /queue.
type QueueItem struct {
	ID                      int64           `json:"id"`
	MovieID                 int64           `json:"movieId,omitempty"`
	DownloadID              string          `json:"downloadId,omitempty"`
	Title                   string          `json:"title"`
	Status                  string          `json:"status"`
	TrackedDownloadStatus   string          `json:"trackedDownloadStatus"`
	TrackedDownloadState    string          `json:"trackedDownloadState"`
	Size                    float64         `json:"size"`
	SizeLeft                float64         `json:"sizeleft"`
	TimeLeft                string          `json:"timeleft,omitempty"`
	EstimatedCompletionTime *time.Time      `json:"estimatedCompletionTime,omitempty"`
	Protocol                string          `json:"protocol,omitempty"`
	DownloadClient          string          `json:"downloadClient,omitempty"`
	Indexer                 string          `json:"indexer,omitempty"`
	ErrorMessage            string          `json:"errorMessage,omitempty"`
	StatusMessages          []StatusMessage `json:"statusMessages,omitempty"`
	Quality                 QualityRecord   `json:"quality"`
	Movie                   *Movie          `json:"movie,omitempty"`
}

// StatusMessage carries warning or error detail for a queue item.
type StatusMessage struct {
	Title    string   `json:"title"`
	Messages []string `json:"messages"`
}

// Summary flattens the item's status messages into one line.
func (q QueueItem) Summary() string {
	if strings.TrimSpace(q.ErrorMessage) != "" {
		return q.ErrorMessage
	}
	var parts []string
	for _, msg := range q.StatusMessages {
		parts = append(parts, msg.Messages...)
	}
	return strings.Join(parts, "; ")
}

// Page is the paged envelope used by /queue, /history and /wanted/missing.
type Page[T any] struct {
	Page         int `json:"page"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
	Records      []T `json:"records"`
}

// HealthCheck is one entry of /health.
type HealthCheck struct {
	Source  string `json:"source"`
	Type    string `json:"type"`
	Message string `json:"message"`
	WikiURL string `json:"wikiUrl,omitempty"`
}

// SystemStatus mirrors /system/status.
type SystemStatus struct {
	AppName   string     `json:"appName"`
	Version   string     `json:"version"`
	Branch    string     `json:"branch,omitempty"`
	OsName    string     `json:"osName,omitempty"`
	StartTime *time.Time `json:"startTime,omitempty"`
}

// HistoryRecord is one entry of /history.
type HistoryRecord struct {
	ID          int64             `json:"id"`
	MovieID     int64             `json:"movieId"`
	SourceTitle string            `json:"sourceTitle"`
	EventType   string            `json:"eventType"`
	Date        time.Time         `json:"date"`
	Quality     QualityRecord     `json:"quality"`
	Data        map[string]string `json:"data,omitempty"`
}

// QualityProfile is a selectable profile for the add flow.
type QualityProfile struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RootFolder is a selectable library root for the add flow.
type RootFolder struct {
	ID         int64  `json:"id"`
	Path       string `json:"path"`
	Accessible bool   `json:"accessible"`
	FreeSpace  int64  `json:"freeSpace"`
}

// CalendarRange bounds a /calendar request. Zero times are omitted.
type CalendarRange struct {
	Start       time.Time
	End         time.Time
	Unmonitored bool
}

// HistoryQuery filters /history. MovieID zero lists every movie.
type HistoryQuery struct {
	MovieID  int64
	PageSize int
}

// AddOptions are the placement choices made when adding a movie.
type AddOptions struct {
	QualityProfileID int64
	RootFolderPath   string
	Monitored        bool
	SearchOnAdd      bool
}

// RemoveOptions controls how a queue item is removed.
type RemoveOptions struct {
	RemoveFromClient bool
	Blocklist        bool
}

type addMovieRequest struct {
	Title               string        `json:"title"`
	TmdbID              int64         `json:"tmdbId"`
	Year                int           `json:"year"`
	TitleSlug           string        `json:"titleSlug,omitempty"`
	Images              []Image       `json:"images"`
	QualityProfileID    int64         `json:"qualityProfileId"`
	RootFolderPath      string        `json:"rootFolderPath"`
	Monitored           bool          `json:"monitored"`
	MinimumAvailability string        `json:"minimumAvailability"`
	AddOptions          addMovieFlags `json:"addOptions"`
}

type addMovieFlags struct {
	SearchForMovie bool `json:"searchForMovie"`
}

func newAddMovieRequest(lookup MovieLookup, opts AddOptions) addMovieRequest {
	images := lookup.Images
	if images == nil {
		images = []Image{}
	}
	return addMovieRequest{
		Title:               lookup.Title,
		TmdbID:              lookup.TmdbID,
		Year:                lookup.Year,
		TitleSlug:           lookup.TitleSlug,
		Images:              images,
		QualityProfileID:    opts.QualityProfileID,
		RootFolderPath:      opts.RootFolderPath,
		Monitored:           opts.Monitored,
		MinimumAvailability: "released",
		AddOptions:          addMovieFlags{SearchForMovie: opts.SearchOnAdd},
	}
}

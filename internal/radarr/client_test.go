package radarr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/five82/reel/internal/instance"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(instance.Instance{Name: "Home", URL: server.URL + "/", APIKey: "secret"}, opts...)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestParseBaseURL(t *testing.T) {
	u, err := parseBaseURL("http://radarr:7878/")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if got := u.String(); got != "http://radarr:7878/api/v3" {
		t.Fatalf("base = %q, want http://radarr:7878/api/v3", got)
	}

	u, err = parseBaseURL("https://example.com/radarr//?x=1")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if got := u.String(); got != "https://example.com/radarr/api/v3" {
		t.Fatalf("base = %q, want https://example.com/radarr/api/v3", got)
	}

	for _, bad := range []string{"", "   ", "radarr:7878", "/relative"} {
		if _, err := parseBaseURL(bad); err == nil {
			t.Fatalf("parseBaseURL(%q) expected error", bad)
		}
	}
}

func TestClient_SendsAPIKeyAndVersionedPath(t *testing.T) {
	t.Parallel()

	var gotPath, gotKey, gotUA, gotAccept string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-Api-Key")
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_ = json.NewEncoder(w).Encode([]Movie{{ID: 1, Title: "Alien", Year: 1979}})
	}, WithUserAgent("reel/test"))

	movies, err := c.Movies(testContext(t))
	if err != nil {
		t.Fatalf("Movies returned error: %v", err)
	}
	if len(movies) != 1 || movies[0].Title != "Alien" {
		t.Fatalf("Movies = %#v, want Alien", movies)
	}
	if gotPath != "/api/v3/movie" {
		t.Fatalf("path = %q, want /api/v3/movie", gotPath)
	}
	if gotKey != "secret" {
		t.Fatalf("X-Api-Key = %q, want secret", gotKey)
	}
	if gotUA != "reel/test" {
		t.Fatalf("User-Agent = %q, want reel/test", gotUA)
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept = %q, want application/json", gotAccept)
	}
}

func TestClient_DecodesReleaseDatesAndFile(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"id": 7, "title": "Zodiac", "year": 2007, "monitored": true, "hasFile": true,
			"inCinemas": "2007-03-02T00:00:00Z",
			"movieFile": {"id": 3, "path": "/movies/Zodiac.mkv", "size": 4096,
				"quality": {"quality": {"id": 7, "name": "Bluray-1080p"}}}
		}`))
	})

	m, err := c.Movie(testContext(t), 7)
	if err != nil {
		t.Fatalf("Movie returned error: %v", err)
	}
	if m.InCinemas == nil || m.InCinemas.Year() != 2007 {
		t.Fatalf("InCinemas = %v, want 2007", m.InCinemas)
	}
	if m.DigitalRelease != nil {
		t.Fatalf("DigitalRelease = %v, want nil", m.DigitalRelease)
	}
	if m.MovieFile == nil || m.MovieFile.Quality.Quality.Name != "Bluray-1080p" {
		t.Fatalf("MovieFile = %#v, want Bluray-1080p", m.MovieFile)
	}
}

func TestClient_QueueFollowsPages(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var pages []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/queue" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		if q.Get("includeMovie") != "true" {
			t.Errorf("includeMovie = %q, want true", q.Get("includeMovie"))
		}
		mu.Lock()
		pages = append(pages, q.Get("page"))
		mu.Unlock()

		page := Page[QueueItem]{TotalRecords: pageSize + 1}
		if q.Get("page") == "1" {
			for i := 0; i < pageSize; i++ {
				page.Records = append(page.Records, QueueItem{ID: int64(i + 1)})
			}
		} else {
			page.Records = []QueueItem{{ID: pageSize + 1, Movie: &Movie{Title: "Alien"}}}
		}
		_ = json.NewEncoder(w).Encode(page)
	})

	items, err := c.Queue(testContext(t))
	if err != nil {
		t.Fatalf("Queue returned error: %v", err)
	}
	if len(items) != pageSize+1 {
		t.Fatalf("len(items) = %d, want %d", len(items), pageSize+1)
	}
	if last := items[len(items)-1]; last.Movie == nil || last.Movie.Title != "Alien" {
		t.Fatalf("last item = %#v, want inline movie", last)
	}
	if strings.Join(pages, ",") != "1,2" {
		t.Fatalf("pages requested = %v, want [1 2]", pages)
	}
}

func TestClient_CalendarAndHistoryQueries(t *testing.T) {
	t.Parallel()

	var calendarQuery, historyMovie, historySort string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v3/calendar":
			calendarQuery = r.URL.RawQuery
			_, _ = w.Write([]byte(`[]`))
		case "/api/v3/history":
			historyMovie = r.URL.Query().Get("movieId")
			historySort = r.URL.Query().Get("sortDirection")
			_, _ = w.Write([]byte(`{"page": 1, "pageSize": 100, "totalRecords": 1,
				"records": [{"id": 1, "movieId": 9, "eventType": "grabbed", "date": "2024-01-02T03:04:05Z"}]}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := testContext(t)

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if _, err := c.Calendar(ctx, CalendarRange{Start: start, End: start.AddDate(0, 0, 7)}); err != nil {
		t.Fatalf("Calendar returned error: %v", err)
	}
	if !strings.Contains(calendarQuery, "start=2024-05-01T00%3A00%3A00Z") || !strings.Contains(calendarQuery, "end=2024-05-08") {
		t.Fatalf("calendar query = %q, want start and end", calendarQuery)
	}

	records, err := c.History(ctx, HistoryQuery{MovieID: 9})
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if historyMovie != "9" || historySort != "descending" {
		t.Fatalf("history query movieId=%q sortDirection=%q, want 9 descending", historyMovie, historySort)
	}
	if len(records) != 1 || records[0].EventType != "grabbed" {
		t.Fatalf("records = %#v, want one grabbed event", records)
	}
}

func TestClient_AddMovieReturnsCreatedMovie(t *testing.T) {
	t.Parallel()

	var got addMovieRequest
	var gotMethod, gotContentType string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Movie{ID: 42, TmdbID: got.TmdbID, Title: got.Title, Monitored: got.Monitored})
	})

	lookup := MovieLookup{Movie: Movie{TmdbID: 603, Title: "The Matrix", Year: 1999, TitleSlug: "the-matrix-603"}}
	movie, err := c.AddMovie(testContext(t), lookup, AddOptions{
		QualityProfileID: 4,
		RootFolderPath:   "/movies",
		Monitored:        true,
		SearchOnAdd:      true,
	})
	if err != nil {
		t.Fatalf("AddMovie returned error: %v", err)
	}
	if movie.ID != 42 {
		t.Fatalf("movie.ID = %d, want 42", movie.ID)
	}
	if gotMethod != http.MethodPost || gotContentType != "application/json" {
		t.Fatalf("request = %s %s, want POST application/json", gotMethod, gotContentType)
	}
	if got.TmdbID != 603 || got.QualityProfileID != 4 || got.RootFolderPath != "/movies" {
		t.Fatalf("payload = %#v, want placement fields", got)
	}
	if !got.Monitored || !got.AddOptions.SearchForMovie {
		t.Fatalf("payload flags = %#v, want monitored and search", got)
	}
	if got.Images == nil {
		t.Fatalf("payload images = nil, want empty list")
	}
}

func TestClient_AddMovieValidationErrorCarriesBody(t *testing.T) {
	t.Parallel()

	body := `[{"propertyName":"TmdbId","errorMessage":"This movie has already been added"}]`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(body))
	})

	lookup := MovieLookup{Movie: Movie{TmdbID: 603, Title: "The Matrix"}}
	_, err := c.AddMovie(testContext(t), lookup, AddOptions{QualityProfileID: 1, RootFolderPath: "/movies"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("StatusCode = %d, want 400", apiErr.StatusCode)
	}
	if apiErr.Body != body {
		t.Fatalf("Body = %q, want raw body", apiErr.Body)
	}
	if apiErr.Message != "This movie has already been added" {
		t.Fatalf("Message = %q", apiErr.Message)
	}
	if apiErr.Instance != "Home" || apiErr.Method != http.MethodPost || apiErr.Path != "/movie" {
		t.Fatalf("APIError = %#v, want instance/method/path", apiErr)
	}
	if !strings.Contains(err.Error(), "radarr Home") {
		t.Fatalf("Error() = %q, want instance name", err.Error())
	}
}

func TestClient_AddMovieRequiresPlacement(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})
	ctx := testContext(t)

	if _, err := c.AddMovie(ctx, MovieLookup{Movie: Movie{TmdbID: 1}}, AddOptions{QualityProfileID: 1}); err == nil {
		t.Fatalf("expected error for missing root folder")
	}
	if _, err := c.AddMovie(ctx, MovieLookup{Movie: Movie{TmdbID: 1}}, AddOptions{RootFolderPath: "/m"}); err == nil {
		t.Fatalf("expected error for missing quality profile")
	}
	if _, err := c.AddMovie(ctx, MovieLookup{}, AddOptions{QualityProfileID: 1, RootFolderPath: "/m"}); err == nil {
		t.Fatalf("expected error for missing tmdb id")
	}
}

func TestClient_RemoveQueueItemNotFound(t *testing.T) {
	t.Parallel()

	var removed bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/v3/queue/456" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("removeFromClient") != "true" || r.URL.Query().Get("blocklist") != "false" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		if removed {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"NotFound"}`))
			return
		}
		removed = true
		w.WriteHeader(http.StatusOK)
	})
	ctx := testContext(t)
	opts := RemoveOptions{RemoveFromClient: true}

	if err := c.RemoveQueueItem(ctx, 456, opts); err != nil {
		t.Fatalf("first RemoveQueueItem returned error: %v", err)
	}
	err := c.RemoveQueueItem(ctx, 456, opts)
	if err == nil {
		t.Fatalf("second RemoveQueueItem expected error")
	}
	if !IsNotFound(err) {
		t.Fatalf("IsNotFound(%v) = false, want true", err)
	}
}

func TestClient_TestConnection(t *testing.T) {
	t.Parallel()

	ok := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"appName":"Radarr","version":"5.0.0"}`))
	})
	if !ok.TestConnection(testContext(t)) {
		t.Fatalf("TestConnection = false, want true")
	}

	var hookOp string
	var hookErr error
	denied := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, WithErrorHook(func(op string, err error) {
		hookOp, hookErr = op, err
	}))
	if denied.TestConnection(testContext(t)) {
		t.Fatalf("TestConnection = true, want false")
	}
	if hookOp != "test_connection" || !IsUnauthorized(hookErr) {
		t.Fatalf("hook = %q %v, want test_connection unauthorized", hookOp, hookErr)
	}
}

func TestClient_TransportErrorIsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	c, err := NewClient(instance.Instance{Name: "Gone", URL: url, APIKey: "k"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Health(testContext(t))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != 0 || apiErr.Err == nil {
		t.Fatalf("APIError = %#v, want transport failure", apiErr)
	}
	if c.TestConnection(testContext(t)) {
		t.Fatalf("TestConnection = true for closed server")
	}
}

func TestClient_LookupBlankTermSkipsRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})
	results, err := c.LookupMovies(testContext(t), "   ")
	if err != nil || results != nil {
		t.Fatalf("LookupMovies = %v, %v; want nil, nil", results, err)
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"message object", 500, `{"message":"boom"}`, "boom"},
		{"plain text", 502, "bad gateway from proxy\nmore", "bad gateway from proxy"},
		{"html", 502, "<html>oops</html>", "bad gateway"},
		{"empty", 401, "", "unauthorized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorMessage(tt.status, []byte(tt.body)); got != tt.want {
				t.Fatalf("errorMessage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorMessageTruncatesOnRuneBoundary(t *testing.T) {
	body := "x" + strings.Repeat("é", 300)
	got := errorMessage(500, []byte(body))
	if !utf8.ValidString(got) {
		t.Fatalf("errorMessage produced invalid UTF-8: %q", got)
	}
	if want := "x" + strings.Repeat("é", 199) + "..."; got != want {
		t.Fatalf("errorMessage = %q, want 200 runes plus ellipsis", got)
	}
}

func TestMovieLookupAdded(t *testing.T) {
	if (MovieLookup{}).Added() {
		t.Fatalf("zero lookup reported as added")
	}
	if !(MovieLookup{Movie: Movie{ID: 3}}).Added() {
		t.Fatalf("lookup with id not reported as added")
	}
}

func TestQueueItemSummary(t *testing.T) {
	q := QueueItem{StatusMessages: []StatusMessage{{Title: "x", Messages: []string{"a", "b"}}}}
	if got := q.Summary(); got != "a; b" {
		t.Fatalf("Summary = %q, want %q", got, "a; b")
	}
	q.ErrorMessage = "failed"
	if got := q.Summary(); got != "failed" {
		t.Fatalf("Summary = %q, want failed", got)
	}
}

package radarr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/five82/reel/internal/instance"
)

// Fetcher defines the Radarr operations the views depend on. It is
// implemented by *Client and can be faked in tests.
type Fetcher interface {
	Movies(ctx context.Context) ([]Movie, error)
	Movie(ctx context.Context, id int64) (*Movie, error)
	LookupMovies(ctx context.Context, term string) ([]MovieLookup, error)
	Queue(ctx context.Context) ([]QueueItem, error)
	Calendar(ctx context.Context, window CalendarRange) ([]Movie, error)
	WantedMissing(ctx context.Context) ([]Movie, error)
	History(ctx context.Context, query HistoryQuery) ([]HistoryRecord, error)
	Health(ctx context.Context) ([]HealthCheck, error)
	SystemStatus(ctx context.Context) (*SystemStatus, error)
	QualityProfiles(ctx context.Context) ([]QualityProfile, error)
	RootFolders(ctx context.Context) ([]RootFolder, error)
	AddMovie(ctx context.Context, lookup MovieLookup, opts AddOptions) (*Movie, error)
	RemoveQueueItem(ctx context.Context, id int64, opts RemoveOptions) error
	TestConnection(ctx context.Context) bool
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// ErrorHook receives errors the client swallows, such as connection test
// failures.
type ErrorHook func(op string, err error)

// Client talks to the Radarr v3 HTTP API of a single instance.
type Client struct {
	instance  string
	apiKey    string
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	observe   ErrorHook
}

const (
	apiPrefix        = "/api/v3"
	defaultUserAgent = "reel/dev"
	requestTimeout   = 30 * time.Second
	pageSize         = 100
	maxErrorBody     = 4096
)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithErrorHook sets the hook that receives swallowed errors.
func WithErrorHook(hook ErrorHook) Option {
	return func(c *Client) {
		if hook != nil {
			c.observe = hook
		}
	}
}

// NewClient builds a Client for inst. The instance URL may carry a base path
// when Radarr runs behind a reverse proxy.
func NewClient(inst instance.Instance, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(inst.URL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		instance:  inst.Name,
		apiKey:    inst.APIKey,
		baseURL:   base,
		http:      &http.Client{Timeout: requestTimeout},
		userAgent: defaultUserAgent,
		observe:   func(string, error) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Instance returns the name of the instance the client talks to.
func (c *Client) Instance() string {
	if c == nil {
		return ""
	}
	return c.instance
}

// Movies lists the whole library.
func (c *Client) Movies(ctx context.Context) ([]Movie, error) {
	var payload []Movie
	if err := c.do(ctx, http.MethodGet, "/movie", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Movie fetches a single library movie.
func (c *Client) Movie(ctx context.Context, id int64) (*Movie, error) {
	var payload Movie
	if err := c.do(ctx, http.MethodGet, "/movie/"+strconv.FormatInt(id, 10), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// LookupMovies searches for candidates matching term. A blank term returns no
// results without a request.
func (c *Client) LookupMovies(ctx context.Context, term string) ([]MovieLookup, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	values := url.Values{}
	values.Set("term", term)
	rel := &url.URL{Path: "/movie/lookup", RawQuery: values.Encode()}
	var payload []MovieLookup
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Queue lists every queue record with its movie inlined.
func (c *Client) Queue(ctx context.Context) ([]QueueItem, error) {
	values := url.Values{}
	values.Set("includeMovie", "true")
	values.Set("includeUnknownMovieItems", "true")
	return fetchAll[QueueItem](ctx, c, "/queue", values)
}

// Calendar lists movies with a release date inside window.
func (c *Client) Calendar(ctx context.Context, window CalendarRange) ([]Movie, error) {
	values := url.Values{}
	if !window.Start.IsZero() {
		values.Set("start", window.Start.UTC().Format(time.RFC3339))
	}
	if !window.End.IsZero() {
		values.Set("end", window.End.UTC().Format(time.RFC3339))
	}
	if window.Unmonitored {
		values.Set("unmonitored", "true")
	}
	rel := &url.URL{Path: "/calendar", RawQuery: values.Encode()}
	var payload []Movie
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// WantedMissing lists monitored movies without a file.
func (c *Client) WantedMissing(ctx context.Context) ([]Movie, error) {
	values := url.Values{}
	values.Set("monitored", "true")
	values.Set("sortKey", "movieMetadata.sortTitle")
	values.Set("sortDirection", "ascending")
	return fetchAll[Movie](ctx, c, "/wanted/missing", values)
}

// History lists recent history, newest first, or every record of one movie
// when query.MovieID is set.
func (c *Client) History(ctx context.Context, query HistoryQuery) ([]HistoryRecord, error) {
	values := url.Values{}
	values.Set("sortKey", "date")
	values.Set("sortDirection", "descending")
	if query.MovieID > 0 {
		values.Set("movieId", strconv.FormatInt(query.MovieID, 10))
		return fetchAll[HistoryRecord](ctx, c, "/history", values)
	}

	size := query.PageSize
	if size <= 0 {
		size = 50
	}
	values.Set("page", "1")
	values.Set("pageSize", strconv.Itoa(size))
	rel := &url.URL{Path: "/history", RawQuery: values.Encode()}
	var payload Page[HistoryRecord]
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Records, nil
}

// Health lists current health check warnings.
func (c *Client) Health(ctx context.Context) ([]HealthCheck, error) {
	var payload []HealthCheck
	if err := c.do(ctx, http.MethodGet, "/health", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// SystemStatus reports the server version and runtime details.
func (c *Client) SystemStatus(ctx context.Context) (*SystemStatus, error) {
	var payload SystemStatus
	if err := c.do(ctx, http.MethodGet, "/system/status", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// QualityProfiles lists the profiles offered when adding a movie.
func (c *Client) QualityProfiles(ctx context.Context) ([]QualityProfile, error) {
	var payload []QualityProfile
	if err := c.do(ctx, http.MethodGet, "/qualityprofile", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// RootFolders lists the library roots offered when adding a movie.
func (c *Client) RootFolders(ctx context.Context) ([]RootFolder, error) {
	var payload []RootFolder
	if err := c.do(ctx, http.MethodGet, "/rootfolder", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// AddMovie adds a search candidate to the library and returns the created
// movie with its assigned ID.
func (c *Client) AddMovie(ctx context.Context, lookup MovieLookup, opts AddOptions) (*Movie, error) {
	if lookup.TmdbID == 0 {
		return nil, fmt.Errorf("add movie %q: tmdb id required", lookup.Title)
	}
	if strings.TrimSpace(opts.RootFolderPath) == "" {
		return nil, fmt.Errorf("add movie %q: root folder required", lookup.Title)
	}
	if opts.QualityProfileID <= 0 {
		return nil, fmt.Errorf("add movie %q: quality profile required", lookup.Title)
	}
	var payload Movie
	if err := c.do(ctx, http.MethodPost, "/movie", newAddMovieRequest(lookup, opts), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// RemoveQueueItem deletes a queue record. Removing an item that is already
// gone returns an *APIError for which IsNotFound reports true.
func (c *Client) RemoveQueueItem(ctx context.Context, id int64, opts RemoveOptions) error {
	values := url.Values{}
	values.Set("removeFromClient", strconv.FormatBool(opts.RemoveFromClient))
	values.Set("blocklist", strconv.FormatBool(opts.Blocklist))
	rel := &url.URL{Path: "/queue/" + strconv.FormatInt(id, 10), RawQuery: values.Encode()}
	return c.doURL(ctx, http.MethodDelete, rel, nil, nil)
}

// TestConnection reports whether the instance answers an authenticated status
// request. Failures go to the error hook.
func (c *Client) TestConnection(ctx context.Context) bool {
	if c == nil {
		return false
	}
	if err := c.do(ctx, http.MethodGet, "/system/status", nil, nil); err != nil {
		c.observe("test_connection", err)
		return false
	}
	return true
}

func fetchAll[T any](ctx context.Context, c *Client, path string, values url.Values) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		query := url.Values{}
		for k, v := range values {
			query[k] = v
		}
		query.Set("page", strconv.Itoa(page))
		query.Set("pageSize", strconv.Itoa(pageSize))
		rel := &url.URL{Path: path, RawQuery: query.Encode()}

		var payload Page[T]
		if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
			return nil, err
		}
		all = append(all, payload.Records...)
		if len(payload.Records) < pageSize || len(all) >= payload.TotalRecords {
			return all, nil
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	return c.doURL(ctx, method, &url.URL{Path: path}, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	apiErr := &APIError{Instance: c.instance, Method: method, Path: rel.Path}

	reqURL := *c.baseURL
	reqURL.Path = c.baseURL.Path + rel.Path
	reqURL.RawQuery = rel.RawQuery

	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		apiErr.Message = "request failed"
		apiErr.Err = err
		return apiErr
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr.StatusCode = resp.StatusCode
		apiErr.Body = string(raw)
		apiErr.Message = errorMessage(resp.StatusCode, raw)
		return apiErr
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		apiErr.StatusCode = resp.StatusCode
		apiErr.Message = "decode response"
		apiErr.Err = err
		return apiErr
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := instance.NormalizeURL(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("instance url is empty")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse instance url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse instance url %q: scheme and host required", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/") + apiPrefix
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// APIError reports a failed request against one instance.
type APIError struct {
	Instance   string
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	var b strings.Builder
	if e.Instance != "" {
		fmt.Fprintf(&b, "radarr %s: ", e.Instance)
	} else {
		b.WriteString("radarr: ")
	}
	fmt.Fprintf(&b, "%s %s", e.Method, e.Path)
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, " returned status %d", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is an APIError for a 404 response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is an APIError for a rejected API key.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// errorMessage extracts the human-readable part of a Radarr error body. Radarr
// answers with either {"message": ...} or a list of validation failures.
func errorMessage(status int, raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 {
		var single struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(trimmed, &single) == nil && single.Message != "" {
			return single.Message
		}
		var failures []struct {
			PropertyName string `json:"propertyName"`
			ErrorMessage string `json:"errorMessage"`
		}
		if json.Unmarshal(trimmed, &failures) == nil && len(failures) > 0 {
			msgs := make([]string, 0, len(failures))
			for _, f := range failures {
				if f.ErrorMessage != "" {
					msgs = append(msgs, f.ErrorMessage)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
		if trimmed[0] != '<' && trimmed[0] != '{' && trimmed[0] != '[' {
			return firstLine(string(trimmed))
		}
	}
	return strings.ToLower(http.StatusText(status))
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	const limit = 200
	if runes := []rune(s); len(runes) > limit {
		s = string(runes[:limit]) + "..."
	}
	return strings.TrimSpace(s)
}

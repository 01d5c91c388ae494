package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/reel/internal/instance"
	"github.com/five82/reel/internal/logging"
	"github.com/five82/reel/internal/radarr"
	"github.com/five82/reel/internal/selection"
)

// maxConcurrentTests bounds how many instances are checked at once.
const maxConcurrentTests = 4

// Session ties the instance resolver, the persisted selection and one Radarr
// client per instance together. It implements ui.Session.
type Session struct {
	resolver  *instance.Resolver
	selection *selection.Store
	log       *logging.Logger
	userAgent string
	http      *http.Client

	mu      sync.Mutex
	pinned  string
	clients map[instance.Instance]*radarr.Client
}

// SessionConfig configures a Session.
type SessionConfig struct {
	Resolver  *instance.Resolver
	Slot      selection.Slot
	Logger    *logging.Logger
	UserAgent string
	// Pinned selects an instance by name for this process only. It wins over
	// the persisted selection until Switch is called.
	Pinned string
	// HTTPClient overrides the transport used by every Radarr client.
	HTTPClient *http.Client
}

// NewSession builds a Session.
func NewSession(cfg SessionConfig) *Session {
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	selLog := log.WithComponent("selection")
	return &Session{
		resolver:  cfg.Resolver,
		selection: selection.NewStore(cfg.Slot, cfg.Resolver, selLog.ErrorHook()),
		log:       log,
		userAgent: cfg.UserAgent,
		http:      cfg.HTTPClient,
		pinned:    cfg.Pinned,
		clients:   make(map[instance.Instance]*radarr.Client),
	}
}

// Instances returns the configured instances, re-reading the configuration.
func (s *Session) Instances() ([]instance.Instance, error) {
	return s.resolver.Resolve()
}

// Current returns the pinned instance when one was requested, otherwise the
// persisted selection or the configured default.
func (s *Session) Current(ctx context.Context) (instance.Instance, error) {
	s.mu.Lock()
	pinned := s.pinned
	s.mu.Unlock()

	if pinned == "" {
		return s.selection.Current(ctx)
	}
	list, err := s.resolver.Resolve()
	if err != nil {
		return instance.Instance{}, err
	}
	inst, ok := instance.Find(list, pinned)
	if !ok {
		return instance.Instance{}, &instance.ConfigurationError{Err: fmt.Errorf("instance %q is not configured", pinned)}
	}
	return inst, nil
}

// Switch makes inst current and remembers it across runs.
func (s *Session) Switch(ctx context.Context, inst instance.Instance) error {
	s.mu.Lock()
	s.pinned = ""
	s.mu.Unlock()

	if err := s.selection.SetCurrent(ctx, inst); err != nil {
		return err
	}
	s.log.Info().Str("instance", inst.Name).Msg("selected instance")
	return nil
}

// Reset forgets the persisted selection so the configured default applies.
func (s *Session) Reset(ctx context.Context) error {
	return s.selection.Clear(ctx)
}

// Client returns the Radarr client for inst, creating it on first use.
func (s *Session) Client(inst instance.Instance) (radarr.Fetcher, error) {
	c, err := s.client(inst)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Session) client(inst instance.Instance) (*radarr.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.clients[inst]; ok {
		return c, nil
	}

	clientLog := s.log.WithComponent("radarr")
	opts := []radarr.Option{
		radarr.WithErrorHook(clientLog.ErrorHook()),
	}
	if s.userAgent != "" {
		opts = append(opts, radarr.WithUserAgent(s.userAgent))
	}
	if s.http != nil {
		opts = append(opts, radarr.WithHTTPClient(s.http))
	}
	c, err := radarr.NewClient(inst, opts...)
	if err != nil {
		return nil, fmt.Errorf("init radarr client for %s: %w", inst.Name, err)
	}
	s.clients[inst] = c
	return c, nil
}

// TestResult is the outcome of one connection test.
type TestResult struct {
	Instance instance.Instance
	OK       bool
	Elapsed  time.Duration
	Err      error // set when no client could be built
}

// TestAll checks every configured instance concurrently. Results keep the
// configured order.
func (s *Session) TestAll(ctx context.Context) ([]TestResult, error) {
	list, err := s.resolver.Resolve()
	if err != nil {
		return nil, err
	}

	results := make([]TestResult, len(list))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentTests)
	for i, inst := range list {
		g.Go(func() error {
			results[i] = s.test(gctx, inst)
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}

func (s *Session) test(ctx context.Context, inst instance.Instance) TestResult {
	res := TestResult{Instance: inst}
	c, err := s.client(inst)
	if err != nil {
		res.Err = err
		return res
	}
	start := time.Now()
	res.OK = c.TestConnection(ctx)
	res.Elapsed = time.Since(start)
	s.log.Debug().Str("instance", inst.Name).Bool("ok", res.OK).Dur("elapsed", res.Elapsed).Msg("connection test")
	return res
}

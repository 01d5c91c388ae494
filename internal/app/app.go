package app

import (
	"context"
	"fmt"
	"io"

	"github.com/five82/reel/internal/config"
	"github.com/five82/reel/internal/instance"
	"github.com/five82/reel/internal/logging"
	"github.com/five82/reel/internal/prefs"
	"github.com/five82/reel/internal/ui"
)

// Options configure the reel application.
type Options struct {
	ConfigPath string // empty uses ~/.config/reel/config.toml
	PrefsPath  string // empty uses ~/.config/reel/prefs.toml
	Instance   string // pin an instance by name for this run
	Version    string
	// Console mirrors log output in human-readable form. Leave nil while the
	// TUI owns the terminal.
	Console io.Writer
}

var _ ui.Session = (*Session)(nil)

// Env is the wired application: configuration, logger and session.
type Env struct {
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	Log       *logging.Logger
	Session   *Session
}

// Open loads configuration and wires the session without starting the UI.
func Open(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(logging.Config{
		Level:   cfg.LogLevel,
		Dir:     cfg.LogDir,
		Console: opts.Console,
	})

	version := opts.Version
	if version == "" {
		version = "dev"
	}

	session := NewSession(SessionConfig{
		Resolver:  instance.NewResolver(config.LoadInstances(cfg.Path)),
		Slot:      prefs.OverrideSlot{Path: opts.PrefsPath},
		Logger:    logger,
		UserAgent: "reel/" + version,
		Pinned:    opts.Instance,
	})

	return &Env{
		Config:    cfg,
		Prefs:     prefs.Load(opts.PrefsPath),
		PrefsPath: opts.PrefsPath,
		Log:       logger,
		Session:   session,
	}, nil
}

// Close flushes and closes the log file.
func (e *Env) Close() error {
	if e == nil {
		return nil
	}
	return e.Log.Close()
}

// Run boots the reel TUI on view until the context is cancelled or the user
// quits.
func Run(ctx context.Context, opts Options, view ui.View) error {
	env, err := Open(opts)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	env.Log.Info().
		Str("config", env.Config.Path).
		Str("view", view.String()).
		Str("version", opts.Version).
		Msg("starting reel")

	err = ui.Run(ui.Options{
		Context:    ctx,
		Session:    env.Session,
		View:       view,
		ThemeName:  env.Prefs.Theme,
		PrefsPath:  env.PrefsPath,
		ConfigPath: env.Config.Path,
		DaysBefore: env.Config.CalendarDaysBefore,
		DaysAfter:  env.Config.CalendarDaysAfter,
		Logger:     env.Log.WithComponent("ui").Logger,
	})
	if err != nil {
		env.Log.Error().Err(err).Msg("ui exited with error")
		return err
	}
	env.Log.Info().Msg("reel exited")
	return nil
}

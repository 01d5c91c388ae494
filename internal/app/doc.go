// Package app is the composition root for reel.
//
// # Overview
//
// Open loads the config file, builds the zerolog logger and wires a Session:
// the instance resolver over the config file, the selection store over the
// prefs file and one Radarr client per instance. Run hands the Session to
// the Bubble Tea UI and blocks until the user quits.
//
// # Components
//
//   - app.go: Options, Open, Run
//   - session.go: Session (ui.Session implementation) and concurrent
//     connection tests for `reel instances test`
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()          Read ~/.config/reel/config.toml
//	       ├─────> logging.New()          zerolog + lumberjack file
//	       ├─────> NewSession()           resolver + selection + clients
//	       └─────> ui.Run()               Start TUI (blocks)
//
// # Instance Selection
//
// An instance pinned with --instance wins for the current run only. Otherwise
// the persisted selection applies while it still matches a configured
// instance, falling back to the configured default. Switching instances in
// the UI persists the choice and drops the pin.
//
// # Error Handling
//
// Configuration that cannot be read or parsed is returned from Open. An
// instance configuration that resolves to nothing usable is not fatal: the
// UI starts and shows an empty state pointing at the config file.
package app

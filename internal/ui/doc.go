// Package ui provides the terminal user interface for reel.
//
// # Overview
//
// The UI is a Bubble Tea program. Model holds the state of every view and
// renders one of them at a time, with overlays for help, movie details, the
// instance picker, the queue removal confirmation and the add form.
//
// # Views
//
//   - Library: every movie with its availability, quality and size on disk
//   - Missing: monitored movies without a file (wanted/missing)
//   - Queue: active downloads with progress and time remaining
//   - Calendar: releases in a window around today
//   - Unmonitored: library movies that are not monitored
//   - Status: server version and health checks
//   - Search & Add: lookup by title or tmdb:/imdb: id, then add with a chosen
//     quality profile and root folder
//
// # Data Flow
//
// Each view has a state.Store. Mounting a view or pressing r calls Begin,
// which tags the fetch with the current instance and a fresh token, then
// runs the request as a tea.Cmd. The resulting message is applied only when
// its tag is still the latest, so a slow response from a previous instance
// never overwrites the current one. There is no background polling.
//
// # Instances
//
// The Session supplies the configured instances, the persisted selection and
// a radarr.Fetcher per instance. When no instance can be selected the views
// render an empty state that points at the config file.
//
// # Key Bindings
//
//   - 1-6, /: Switch view
//   - Tab / Shift+Tab: Cycle views
//   - j/k, g/G, Ctrl+D/Ctrl+U: Navigate
//   - Enter: Movie details, or add the selected search result
//   - x / b: Remove the selected queue item, optionally blocklisting it
//   - i: Switch instance
//   - r: Refresh
//   - T: Cycle theme
//   - ?: Help
//   - q or Ctrl+C: Exit
package ui

// Package logtail reads reel's own log file for the logs subcommand.
//
// # Overview
//
// reel writes zerolog JSON lines to a rotated file (see package logging).
// This package extracts the last N lines, filters them by level and renders
// them through zerolog.ConsoleWriter for reading in a terminal.
//
// # Reading Log Files
//
// Read uses a ring buffer of size maxLines, so memory is O(maxLines)
// regardless of file size and lines come back in chronological order:
//
//	lines, err := logtail.Read(cfg.LogPath(), 200)
//	lines = logtail.Filter(lines, zerolog.WarnLevel)
//	err = logtail.Write(os.Stdout, lines, true)
//
// # Error Handling
//
// Read returns nil, nil for a missing file (nothing logged yet). Other I/O
// errors are returned wrapped. Lines that are not JSON survive Filter and are
// printed unchanged by Write.
//
// # Design Rationale
//
// No following and no rotation handling: only the current file is read.
package logtail

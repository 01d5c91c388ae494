package logtail

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Read returns at most maxLines from the end of the file at path. A maxLines
// of zero or less returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Level returns the zerolog level recorded in a JSON log line. Lines that are
// not JSON or carry no level report zerolog.NoLevel.
func Level(line string) zerolog.Level {
	var entry struct {
		Level string `json:"level"`
	}
	if err := json.Unmarshal([]byte(line), &entry); err != nil || entry.Level == "" {
		return zerolog.NoLevel
	}
	lvl, err := zerolog.ParseLevel(entry.Level)
	if err != nil {
		return zerolog.NoLevel
	}
	return lvl
}

// Filter keeps lines at or above min. Lines without a level are kept so
// panics and other raw output are never hidden.
func Filter(lines []string, min zerolog.Level) []string {
	if min <= zerolog.TraceLevel {
		return lines
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		lvl := Level(line)
		if lvl == zerolog.NoLevel || lvl >= min {
			out = append(out, line)
		}
	}
	return out
}

// Write renders JSON log lines in console form to w. Non-JSON lines are
// written unchanged.
func Write(w io.Writer, lines []string, color bool) error {
	console := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !color,
		TimeFormat: "2006-01-02 15:04:05",
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !json.Valid([]byte(trimmed)) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
			continue
		}
		if _, err := console.Write([]byte(trimmed)); err != nil {
			return fmt.Errorf("format log line: %w", err)
		}
	}
	return nil
}

// Render is Write into a string.
func Render(lines []string, color bool) string {
	var buf bytes.Buffer
	_ = Write(&buf, lines, color)
	return buf.String()
}

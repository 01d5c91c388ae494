package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRead(t *testing.T) {
	// Create a temporary log file
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "reel.log")

	// Write 10 lines of content
	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "read all (0)", maxLines: 0, expected: expectedAll},
		{name: "read all (negative)", maxLines: -1, expected: expectedAll},
		{name: "read partial (5)", maxLines: 5, expected: expectedAll[5:]},
		{name: "read exactly all (10)", maxLines: 10, expected: expectedAll},
		{name: "read more than exists (20)", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read(missing) = %v, %v; want nil, nil", got, err)
	}
}

func TestFilter(t *testing.T) {
	lines := []string{
		`{"level":"debug","message":"fetching"}`,
		`{"level":"info","message":"loaded"}`,
		`{"level":"warn","message":"stale override"}`,
		`panic: something broke`,
		`{"level":"error","message":"request failed"}`,
	}

	got := Filter(lines, zerolog.WarnLevel)
	want := []string{lines[2], lines[3], lines[4]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Filter(warn) = %v, want %v", got, want)
	}

	if got := Filter(lines, zerolog.TraceLevel); len(got) != len(lines) {
		t.Fatalf("Filter(trace) dropped lines: %v", got)
	}
}

func TestLevel(t *testing.T) {
	if got := Level(`{"level":"warn"}`); got != zerolog.WarnLevel {
		t.Fatalf("Level = %v, want warn", got)
	}
	if got := Level("not json"); got != zerolog.NoLevel {
		t.Fatalf("Level(not json) = %v, want NoLevel", got)
	}
}

func TestRender(t *testing.T) {
	lines := []string{
		`{"level":"info","component":"radarr","time":"2025-10-08T21:01:05Z","message":"fetched movies"}`,
		"",
		"raw line",
	}
	out := Render(lines, false)
	if !strings.Contains(out, "INF") || !strings.Contains(out, "fetched movies") {
		t.Fatalf("Render = %q, want console formatted entry", out)
	}
	if !strings.Contains(out, "component=radarr") {
		t.Fatalf("Render = %q, want component field", out)
	}
	if !strings.HasSuffix(out, "raw line\n") {
		t.Fatalf("Render = %q, want raw line passed through", out)
	}
}

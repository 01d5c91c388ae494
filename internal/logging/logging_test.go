package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		"":        zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		" error ": zerolog.ErrorLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestNew_WritesJSONToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	log := New(Config{Level: "info", Dir: dir})
	log.WithComponent("radarr").Info().Str("instance", "Home").Msg("fetched movies")
	log.Debug().Msg("hidden")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"radarr"`)
	assert.Contains(t, string(data), `"message":"fetched movies"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNew_ConsoleMirror(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Console: &buf})
	log.ErrorHook()("decode", errors.New("bad json"))
	log.ErrorHook()("noop", nil)

	out := buf.String()
	assert.Contains(t, out, "recovered error")
	assert.Contains(t, out, "bad json")
	assert.NotContains(t, out, "noop")
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Error().Msg("discarded")
	assert.NoError(t, log.Close())
}

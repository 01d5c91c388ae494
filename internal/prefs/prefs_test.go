package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p := Load("")
	if p.Theme != DefaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, DefaultTheme)
	}
	if p.SelectedInstance != "" {
		t.Fatalf("SelectedInstance = %q, want empty", p.SelectedInstance)
	}
}

func TestLoad_ReadsDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "reel")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "prefs.toml"), []byte("theme = \"Slate\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if p := Load(""); p.Theme != "Slate" {
		t.Fatalf("Theme = %q, want Slate", p.Theme)
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "prefs.toml")

	if err := Save(path, Prefs{Theme: "Kanagawa"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if p := Load(path); p.Theme != "Kanagawa" {
		t.Fatalf("Theme = %q, want Kanagawa", p.Theme)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("prefs mode = %v, want 0600", perm)
	}
}

func TestLoad_InvalidTOMLFallsBackToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if p := Load(path); p.Theme != DefaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, DefaultTheme)
	}
}

func TestOverrideSlot_RoundTripKeepsTheme(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.toml")
	slot := OverrideSlot{Path: path}

	if _, ok, err := slot.Get(ctx); err != nil || ok {
		t.Fatalf("Get on empty = ok=%v err=%v, want unset", ok, err)
	}

	if err := SaveTheme(path, "Slate"); err != nil {
		t.Fatalf("SaveTheme: %v", err)
	}
	value := `{"name":"Home","url":"http://radarr:7878","apiKey":"k"}`
	if err := slot.Set(ctx, value); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok, err := slot.Get(ctx)
	if err != nil || !ok || got != value {
		t.Fatalf("Get = %q ok=%v err=%v, want %q", got, ok, err, value)
	}
	if p := Load(path); p.Theme != "Slate" {
		t.Fatalf("Theme = %q after Set, want Slate", p.Theme)
	}

	if err := slot.Delete(ctx); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := slot.Get(ctx); ok {
		t.Fatalf("Get after Delete reported a value")
	}
	if p := Load(path); p.Theme != "Slate" {
		t.Fatalf("Theme = %q after Delete, want Slate", p.Theme)
	}
}

func TestOverrideSlot_CorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("selected_instance = [\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	slot := OverrideSlot{Path: path}

	if _, _, err := slot.Get(ctx); err == nil {
		t.Fatalf("Get returned nil error for corrupt prefs")
	}
	if err := slot.Delete(ctx); err != nil {
		t.Fatalf("Delete on corrupt prefs: %v", err)
	}
	if _, ok, err := slot.Get(ctx); err != nil || ok {
		t.Fatalf("Get after Delete = ok=%v err=%v, want clean unset", ok, err)
	}
}

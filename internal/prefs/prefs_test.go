package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/five82/vnamon/internal/axis"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if p.Smoothing != defaultSmoothing {
		t.Fatalf("Smoothing = %d, want %d", p.Smoothing, defaultSmoothing)
	}
	if p.Ranges != axis.Defaults() {
		t.Fatalf("Ranges = %+v, want defaults", p.Ranges)
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "vnamon")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	prefsFile := filepath.Join(prefsDir, "prefs.toml")
	content := `theme = "Slate"
smoothing = 4
last_folder = "  run7  "

[ranges.time]
min = 5
max = 60
`
	if err := os.WriteFile(prefsFile, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Slate" {
		t.Fatalf("Theme = %q, want %q", p.Theme, "Slate")
	}
	if p.Smoothing != 4 {
		t.Fatalf("Smoothing = %d, want 4", p.Smoothing)
	}
	if p.LastFolder != "run7" {
		t.Fatalf("LastFolder = %q, want run7", p.LastFolder)
	}
	if p.Ranges.Time != (axis.Range{Min: 5, Max: 60}) {
		t.Fatalf("Ranges.Time = %+v, want {5 60}", p.Ranges.Time)
	}
	if p.Ranges.InflectionFrequency != axis.DefaultInflectionFrequency {
		t.Fatalf("Ranges.InflectionFrequency = %+v, want default", p.Ranges.InflectionFrequency)
	}
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "prefs.toml")
	content := `theme = ""
smoothing = 0

[ranges.inflection_impedance]
min = 80
max = 20
`
	if err := os.WriteFile(prefsFile, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if p.Smoothing != defaultSmoothing {
		t.Fatalf("Smoothing = %d, want %d", p.Smoothing, defaultSmoothing)
	}
	if p.Ranges.InflectionImpedance != axis.DefaultInflectionImpedance {
		t.Fatalf("Ranges.InflectionImpedance = %+v, want default", p.Ranges.InflectionImpedance)
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "subdir", "prefs.toml")

	p := Default()
	p.Theme = "Slate"
	p.Smoothing = 3
	p.LastFolder = "run2"
	p.Ranges.InflectionFrequency = axis.Range{Min: 900, Max: 1600}
	if err := Save(prefsFile, p); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded != p {
		t.Fatalf("loaded = %+v, want %+v", loaded, p)
	}
}

func TestLoad_InvalidTOMLFallsBackToDefault(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p != Default() {
		t.Fatalf("prefs = %+v, want defaults", p)
	}
}

package ui

import (
	"testing"

	"github.com/five82/vnamon/internal/syncer"
)

func TestGetThemeFallsBackToDefault(t *testing.T) {
	if got := GetTheme("missing").Name; got != DefaultThemeName {
		t.Fatalf("GetTheme(missing).Name = %q, want %q", got, DefaultThemeName)
	}
	for _, name := range ThemeNames() {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%q).Name = %q", name, got)
		}
	}
}

func TestNextThemeCycles(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() = %v, want 3 themes", names)
	}

	current := names[0]
	seen := map[string]bool{}
	for range names {
		seen[current] = true
		current = NextTheme(current)
	}
	if current != names[0] {
		t.Fatalf("NextTheme did not wrap, ended at %q", current)
	}
	if len(seen) != len(names) {
		t.Fatalf("visited %d themes, want %d", len(seen), len(names))
	}

	if got := NextTheme("unknown"); got != names[0] {
		t.Fatalf("NextTheme(unknown) = %q, want %q", got, names[0])
	}
}

func TestThemesDefineOutcomeColors(t *testing.T) {
	outcomes := []syncer.Outcome{
		syncer.OutcomeIdle,
		syncer.OutcomeConnectFailed,
		syncer.OutcomeBadFolder,
		syncer.OutcomeTransferFailed,
		syncer.OutcomeSynced,
	}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		if th.PrimarySeries == "" || th.SecondarySeries == "" {
			t.Fatalf("theme %q missing series colors", name)
		}
		for _, o := range outcomes {
			if th.OutcomeColors[o.String()] == "" {
				t.Fatalf("theme %q missing color for %q", name, o)
			}
		}
	}
}

func TestWithBackgroundKeepsOutcomeColors(t *testing.T) {
	th := GetTheme(DefaultThemeName)
	styles := th.Styles().WithBackground(th.Surface)

	got := styles.OutcomeStyle("synced").GetBackground()
	want := th.Styles().OutcomeStyle("synced").GetBackground()
	if got != want {
		t.Fatalf("OutcomeStyle background = %v, want %v", got, want)
	}
}

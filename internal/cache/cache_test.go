package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestPaths(t *testing.T) {
	p := Paths{Dir: "/tmp/vnamon"}
	if got := p.DataLog(); got != filepath.Join("/tmp/vnamon", "Datalog.txt") {
		t.Fatalf("DataLog() = %q", got)
	}
	if got := p.LatestSParams(); got != filepath.Join("/tmp/vnamon", "Latest_Sparams.txt") {
		t.Fatalf("LatestSParams() = %q", got)
	}
}

func TestReplace_WritesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DataLogName)
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	err := Replace(path, func(w io.Writer) error {
		// The old content stays visible until the rename.
		got, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if string(got) != "old" {
			return fmt.Errorf("mid-write content = %q", got)
		}
		_, err = io.WriteString(w, "new content")
		return err
	})
	if err != nil {
		t.Fatalf("Replace returned error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "new content" {
		t.Fatalf("content = %q, want %q", got, "new content")
	}
	assertNoTempFiles(t, dir)
}

func TestReplace_FailureKeepsOldFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LatestSParamsName)
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	boom := errors.New("connection reset")
	err := Replace(path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Replace error = %v, want %v", err, boom)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "old" {
		t.Fatalf("content = %q, want old content kept", got)
	}
	assertNoTempFiles(t, dir)
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".part") {
			t.Fatalf("temporary file %q left behind", e.Name())
		}
	}
}

func TestTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), DataLogName)

	var content strings.Builder
	var all []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("%d,1e9,50,-20", i*60)
		content.WriteString(line + "\n")
		all = append(all, line)
	}
	if err := os.WriteFile(path, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{"zero", 0, nil},
		{"negative", -1, nil},
		{"partial", 5, all[5:]},
		{"exactly all", 10, all},
		{"more than exists", 20, all},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tail(path, tt.maxLines)
			if err != nil {
				t.Fatalf("Tail() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tail() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTail_MissingFile(t *testing.T) {
	got, err := Tail(filepath.Join(t.TempDir(), "absent.txt"), 5)
	if err != nil {
		t.Fatalf("Tail() error = %v, want nil", err)
	}
	if got != nil {
		t.Fatalf("Tail() = %v, want nil", got)
	}
}

func TestWatch_ReportsReplacement(t *testing.T) {
	p := Paths{Dir: t.TempDir()}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed, err := Watch(ctx, p)
	if err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}

	if err := Replace(p.DataLog(), func(w io.Writer) error {
		_, err := io.WriteString(w, "x")
		return err
	}); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification after replacing data log")
	}

	cancel()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-changed:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("change channel not closed after cancel")
		}
	}
}

func TestTail_ReadErrorNamesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vnamon.log")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := Tail(dir, 5)
	if err == nil {
		t.Fatal("Tail() on a directory should fail")
	}
	if !strings.Contains(err.Error(), "vnamon.log") || strings.Contains(err.Error(), "cache file") {
		t.Fatalf("Tail() error = %q, want it to name vnamon.log", err)
	}
}

package inspect

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/synkit/internal/testutil"
)

func TestWatcher_ReInspectsOnChange(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, filepath.Join(dir, "a.go"), "package fixture\n\ntype A struct{}\n")

	reports := make(chan *Report, 8)
	w := &Watcher{
		Dir:       dir,
		Inspector: testInspector(t, Config{}),
		OnReport:  func(r *Report) { reports <- r },
		Logger:    testutil.NewTestLogger(t),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	first := waitReport(t, reports)
	assert.Equal(t, 1, first.TypeCount())

	writeSource(t, filepath.Join(dir, "b.go"), "package fixture\n\ntype B struct{}\n")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case r := <-reports:
			if r.TypeCount() == 2 {
				cancel()
				require.ErrorIs(t, <-done, context.Canceled)
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for re-inspection")
		}
	}
}

func waitReport(t *testing.T, reports <-chan *Report) *Report {
	t.Helper()
	select {
	case r := <-reports:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for report")
		return nil
	}
}

func TestWatchTree_SkipRules(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, filepath.Join(dir, "a.go"), "package fixture\n")
	writeSource(t, filepath.Join(dir, "sub", "b.go"), "package sub\n")
	writeSource(t, filepath.Join(dir, ".git", "c.go"), "package c\n")
	writeSource(t, filepath.Join(dir, "_tmp", "d.go"), "package d\n")
	writeSource(t, filepath.Join(dir, "vendor", "e.go"), "package e\n")

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer func() { _ = watcher.Close() }()

	w := &Watcher{Dir: dir}
	require.NoError(t, w.watchTree(watcher, dir))

	list := watcher.WatchList()
	assert.Contains(t, list, dir)
	assert.Contains(t, list, filepath.Join(dir, "sub"))
	assert.NotContains(t, list, filepath.Join(dir, ".git"))
	assert.NotContains(t, list, filepath.Join(dir, "_tmp"))
	assert.NotContains(t, list, filepath.Join(dir, "vendor"))
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write go file", fsnotify.Event{Name: "/p/a.go", Op: fsnotify.Write}, true},
		{"create go file", fsnotify.Event{Name: "/p/a.go", Op: fsnotify.Create}, true},
		{"remove go file", fsnotify.Event{Name: "/p/a.go", Op: fsnotify.Remove}, true},
		{"rename go file", fsnotify.Event{Name: "/p/a.go", Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: "/p/a.go", Op: fsnotify.Chmod}, false},
		{"non go file", fsnotify.Event{Name: "/p/notes.txt", Op: fsnotify.Write}, false},
		{"hidden file", fsnotify.Event{Name: "/p/.tmp.go", Op: fsnotify.Write}, false},
		{"editor backup", fsnotify.Event{Name: "/p/_a.go", Op: fsnotify.Write}, false},
		{"directory", fsnotify.Event{Name: "/p/newdir", Op: fsnotify.Create}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevant(tt.event))
		})
	}
}

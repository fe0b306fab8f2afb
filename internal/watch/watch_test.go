package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatch_TriggersOnChange(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{root}, 50*time.Millisecond, discard(), func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher a moment to register.
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(root, "post.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the change")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancellation")
	}
}

func TestWatch_IgnoresOutputDir(t *testing.T) {
	root := t.TempDir()
	outDir := filepath.Join(root, "public")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- WatchIgnoring(ctx, []string{root}, []string{outDir}, 50*time.Millisecond, discard(), func() {
			changed <- struct{}{}
		})
	}()

	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(outDir, "index.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
		t.Fatal("artifact writes must not trigger a rebuild")
	case <-time.After(500 * time.Millisecond):
	}

	cancel()
	<-done
}

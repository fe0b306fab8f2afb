// Package testutil provides shared test helpers for setting up content roots.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lindgren/stanza/internal/storage"
)

// TestContentRoot creates a temporary content root with a storage.Provider.
func TestContentRoot(t *testing.T) (string, storage.Provider) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, store
}

// WriteFile writes content at path relative to root, creating parent
// directories as needed.
func WriteFile(t *testing.T, root, path, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

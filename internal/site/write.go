package site

import (
	"fmt"
	"os"
	"path/filepath"
)

// Artifact file names within the output directory.
const (
	IndexFile      = "index.json"
	RedirectsFile  = "redirects.txt"
	StylesheetFile = "styles.css"
	HTMLDir        = "html"
)

// Write persists the artifacts into outDir. Each file is written atomically:
// tmp file, fsync, rename.
func (a *Artifacts) Write(outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("site: create output dir: %w", err)
	}

	if err := writeAtomic(filepath.Join(outDir, IndexFile), a.IndexJSON); err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(outDir, RedirectsFile), a.Redirects); err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(outDir, StylesheetFile), a.Stylesheet); err != nil {
		return err
	}

	if a.HTML == nil {
		return nil
	}
	htmlDir := filepath.Join(outDir, HTMLDir)
	if err := os.MkdirAll(htmlDir, 0o755); err != nil {
		return fmt.Errorf("site: create html dir: %w", err)
	}
	for slug, body := range a.HTML {
		if err := writeAtomic(filepath.Join(htmlDir, slug+".html"), body); err != nil {
			return err
		}
	}
	return nil
}

// writeAtomic writes content via tmp file, fsync and rename so readers never
// observe a half-written artifact.
func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".stanza-tmp-*")
	if err != nil {
		return fmt.Errorf("site: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("site: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("site: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("site: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("site: rename: %w", err)
	}
	success = true
	return nil
}

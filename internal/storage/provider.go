// Package storage defines the content-root file-system abstraction.
//
// The pipeline only reads: documents are authored by editing files under the
// content root, never mutated by a run.
package storage

import "github.com/lindgren/stanza/internal/models"

// Provider is the read-side interface over the content root.
type Provider interface {
	// List walks dir (relative to the root) and returns metadata for every
	// Markdown file, ordered by path.
	List(dir string) ([]models.DocumentMeta, error)
	// Read returns the raw bytes of the file at path (relative to the root).
	Read(path string) ([]byte, error)
}

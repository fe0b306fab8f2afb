// Package models defines the domain types for Stanza.
package models

import "time"

// Document represents one authored article parsed from the content root.
type Document struct {
	Path        string    `json:"path"` // source file, relative to the content root
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Tags        []string  `json:"tags,omitempty"`    // case-normalized, sorted
	Aliases     []string  `json:"aliases,omitempty"` // legacy paths redirecting here, authored order
	Draft       bool      `json:"draft,omitempty"`
	Body        string    `json:"-"` // raw markup, opaque to the indexer
	Checksum    string    `json:"checksum"`
}

// DocumentMeta is a lightweight representation returned by storage listing.
type DocumentMeta struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaxonomyEntry is one tag with its documents ordered by date descending,
// ties broken by slug ascending. Derived, rebuilt fully on every run.
type TaxonomyEntry struct {
	Tag       string      `json:"tag"`
	Documents []*Document `json:"-"`
}

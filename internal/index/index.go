// Package index builds the published document collection: slugs, ordering,
// taxonomy and alias table, derived in full on every run.
package index

import (
	"sort"

	"github.com/lindgren/stanza/internal/models"
)

// Collection is the output of one indexing run.
type Collection struct {
	// Documents holds every published document, ordered by date descending,
	// ties broken by slug ascending.
	Documents []*models.Document
	// BySlug maps slug to published document.
	BySlug map[string]*models.Document
	// Taxonomy maps case-normalized tag to its published documents, in the
	// same order as Documents.
	Taxonomy map[string][]*models.Document
	// Aliases maps each legacy path to the slug it redirects to.
	Aliases map[string]string
	// Drafts holds structurally valid documents excluded from publication.
	Drafts []*models.Document
}

// Tags returns the taxonomy keys in ascending order.
func (c *Collection) Tags() []string {
	tags := make([]string, 0, len(c.Taxonomy))
	for t := range c.Taxonomy {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// TaxonomyEntries returns the taxonomy as ordered entries, tags ascending.
func (c *Collection) TaxonomyEntries() []models.TaxonomyEntry {
	tags := c.Tags()
	out := make([]models.TaxonomyEntry, 0, len(tags))
	for _, t := range tags {
		out = append(out, models.TaxonomyEntry{Tag: t, Documents: c.Taxonomy[t]})
	}
	return out
}

// byDateDescSlugAsc is the total order used everywhere documents are listed.
func byDateDescSlugAsc(docs []*models.Document) {
	sort.Slice(docs, func(i, j int) bool {
		a, b := docs[i], docs[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.Slug < b.Slug
	})
}

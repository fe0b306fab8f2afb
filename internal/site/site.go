// Package site assembles one pipeline run: index the content root, scan for
// utility tokens, resolve the theme, and emit the flat artifacts an external
// rendering layer consumes.
package site

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lindgren/stanza/internal/checksum"
	"github.com/lindgren/stanza/internal/index"
	"github.com/lindgren/stanza/internal/models"
	"github.com/lindgren/stanza/internal/render"
	"github.com/lindgren/stanza/internal/storage"
	"github.com/lindgren/stanza/internal/styles"
)

// Params configures one build.
type Params struct {
	Store     storage.Provider
	IndexOpts index.Options

	// ScanRoot is the directory the theme's content globs are resolved
	// against.
	ScanRoot string
	Theme    *styles.ThemeFile
	Backend  styles.Backend

	// Renderer, when non-nil, additionally produces HTML fragments per
	// published document.
	Renderer render.Renderer

	Logger *slog.Logger
}

// Artifacts is the in-memory result of a successful build. Nothing touches
// disk until the whole run has succeeded, so a fatal failure emits no
// partial output.
type Artifacts struct {
	Collection *index.Collection
	IndexJSON  []byte
	Redirects  []byte
	Stylesheet []byte
	HTML       map[string][]byte // slug -> rendered body
}

// indexPayload is the shape of index.json.
type indexPayload struct {
	Checksum  string                      `json:"checksum"`
	Documents map[string]*models.Document `json:"documents"`
	Tags      map[string][]string         `json:"tags"`
	Aliases   map[string]string           `json:"aliases"`
}

// Build runs the full pipeline once. The content indexer and the style
// extractor share the input tree but have no data dependency on each other.
func Build(ctx context.Context, p Params) (*Artifacts, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	coll, err := index.Load(ctx, p.Store, p.IndexOpts)
	if err != nil {
		return nil, err
	}
	logger.Info("content indexed",
		slog.Int("published", len(coll.Documents)),
		slog.Int("drafts", len(coll.Drafts)),
		slog.Int("tags", len(coll.Taxonomy)))

	rules, err := styles.ResolveTheme(p.Theme)
	if err != nil {
		return nil, err
	}
	tokens, err := styles.Scan(p.ScanRoot, p.Theme.Content)
	if err != nil {
		return nil, err
	}
	logger.Info("styles scanned", slog.Int("tokens", len(tokens)))

	css, err := p.Backend.Emit(tokens, rules)
	if err != nil {
		return nil, fmt.Errorf("site: emit stylesheet: %w", err)
	}

	indexJSON, err := marshalIndex(coll)
	if err != nil {
		return nil, fmt.Errorf("site: marshal index: %w", err)
	}

	art := &Artifacts{
		Collection: coll,
		IndexJSON:  indexJSON,
		Redirects:  redirects(coll),
		Stylesheet: []byte(css),
	}

	if p.Renderer != nil {
		art.HTML = make(map[string][]byte, len(coll.Documents))
		for _, d := range coll.Documents {
			html, err := p.Renderer.Render([]byte(d.Body))
			if err != nil {
				return nil, fmt.Errorf("site: render %s: %w", d.Path, err)
			}
			art.HTML[d.Slug] = html
		}
	}

	return art, nil
}

// marshalIndex serializes the collection deterministically: maps marshal
// with sorted keys, and the checksum covers the document set so downstream
// caches can compare runs cheaply.
func marshalIndex(coll *index.Collection) ([]byte, error) {
	payload := indexPayload{
		Documents: coll.BySlug,
		Tags:      make(map[string][]string, len(coll.Taxonomy)),
		Aliases:   coll.Aliases,
	}
	for tag, docs := range coll.Taxonomy {
		slugs := make([]string, 0, len(docs))
		for _, d := range docs {
			slugs = append(slugs, d.Slug)
		}
		payload.Tags[tag] = slugs
	}

	body, err := json.Marshal(payload.Documents)
	if err != nil {
		return nil, err
	}
	payload.Checksum = checksum.Sum(body)

	return json.MarshalIndent(payload, "", "  ")
}

// redirects renders one `alias target status` line per alias, sorted.
func redirects(coll *index.Collection) []byte {
	aliases := make([]string, 0, len(coll.Aliases))
	for a := range coll.Aliases {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)

	var sb strings.Builder
	for _, a := range aliases {
		fmt.Fprintf(&sb, "%s /%s/ 301\n", a, coll.Aliases[a])
	}
	return []byte(sb.String())
}

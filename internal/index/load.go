package index

import (
	"context"
	"fmt"
	"path"
	"runtime"
	"sort"
	"strings"
	"time"

	slug "github.com/goliatone/go-slug"
	"golang.org/x/sync/errgroup"

	"github.com/lindgren/stanza/internal/apperr"
	"github.com/lindgren/stanza/internal/models"
	"github.com/lindgren/stanza/internal/parser"
	"github.com/lindgren/stanza/internal/storage"
)

// Options tunes one indexing run.
type Options struct {
	// Now anchors the future-date check; the zero value means time.Now().
	Now time.Time
	// Skew is the tolerated amount a date may lie in the future.
	Skew time.Duration
	// Parallelism bounds concurrent document parsing; <= 0 means NumCPU.
	Parallelism int
}

// Load walks the content root and builds the collection.
//
// Every document is parsed and validated independently; authoring errors are
// collected across the whole corpus and returned together as one
// *apperr.Report, never cut short at the first bad file. Conflicts (duplicate
// slug, duplicate alias) are part of the same report. IO failures abort
// immediately with the path.
func Load(ctx context.Context, store storage.Provider, opts Options) (*Collection, error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.NumCPU()
	}

	metas, err := store.List("")
	if err != nil {
		return nil, err
	}

	// Parse in parallel. Results land in a slice indexed by position so the
	// outcome is independent of completion order.
	type parsed struct {
		meta models.DocumentMeta
		res  *parser.Result
		errs []*apperr.ValidationError
	}
	results := make([]parsed, len(metas))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)
	for i, m := range metas {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := store.Read(m.Path)
			if err != nil {
				return err
			}
			res, errs := parser.Parse(m.Path, data, opts.Now, opts.Skew)
			results[i] = parsed{meta: m, res: res, errs: errs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &apperr.Report{}
	var docs []*models.Document

	for _, r := range results {
		if len(r.errs) > 0 {
			report.Validation = append(report.Validation, r.errs...)
			continue
		}
		doc, errs := buildDocument(r.meta, r.res)
		if len(errs) > 0 {
			report.Validation = append(report.Validation, errs...)
			continue
		}
		docs = append(docs, doc)
	}

	// Conflicts are checked across the whole corpus, drafts included: a
	// draft that will collide once published is an authoring error today.
	detectConflicts(docs, report)

	if !report.Empty() {
		report.Sort()
		return nil, report
	}

	return assemble(docs), nil
}

// buildDocument turns a parse result into a domain document: slug derivation,
// tag normalization, alias cleanup.
func buildDocument(meta models.DocumentMeta, res *parser.Result) (*models.Document, []*apperr.ValidationError) {
	var errs []*apperr.ValidationError

	s := res.Meta.Slug
	if s == "" {
		derived, err := slug.Normalize(pathStem(meta.Path))
		if err != nil {
			errs = append(errs, &apperr.ValidationError{
				Path: meta.Path, Field: "slug",
				Reason: fmt.Sprintf("cannot derive slug from path: %v", err),
			})
		} else {
			s = derived
		}
	}

	tags := make([]string, 0, len(res.Meta.Tags))
	seen := make(map[string]struct{}, len(res.Meta.Tags))
	for _, raw := range res.Meta.Tags {
		t, err := slug.Normalize(strings.ToLower(raw))
		if err != nil {
			errs = append(errs, &apperr.ValidationError{
				Path: meta.Path, Field: "tags",
				Reason: fmt.Sprintf("tag %q cannot be normalized: %v", raw, err),
			})
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	sort.Strings(tags)

	aliases := make([]string, 0, len(res.Meta.Aliases))
	for _, a := range res.Meta.Aliases {
		aliases = append(aliases, normalizeAlias(a))
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &models.Document{
		Path:        meta.Path,
		Slug:        s,
		Title:       res.Meta.Title,
		Description: res.Meta.Description,
		Date:        res.Meta.Date,
		Tags:        tags,
		Aliases:     aliases,
		Draft:       res.Meta.Draft,
		Body:        res.Body,
		Checksum:    meta.Checksum,
	}, nil
}

// detectConflicts finds slugs and aliases claimed by more than one document
// and aliases shadowing a live slug. One conflict is reported per contested
// value, naming every claimant.
func detectConflicts(docs []*models.Document, report *apperr.Report) {
	slugOwners := make(map[string][]string)
	aliasOwners := make(map[string][]string)
	for _, d := range docs {
		slugOwners[d.Slug] = append(slugOwners[d.Slug], d.Path)
		for _, a := range d.Aliases {
			aliasOwners[a] = append(aliasOwners[a], d.Slug)
		}
	}

	for _, s := range sortedKeys(slugOwners) {
		if owners := slugOwners[s]; len(owners) > 1 {
			report.AddConflict(apperr.ConflictSlug, s, owners)
		}
	}
	for _, a := range sortedKeys(aliasOwners) {
		owners := aliasOwners[a]
		if len(owners) > 1 {
			report.AddConflict(apperr.ConflictAlias, a, owners)
			continue
		}
		// An alias equal to a live slug would shadow that page.
		if target := strings.Trim(a, "/"); owners[0] != target {
			if _, live := slugOwners[target]; live {
				report.AddConflict(apperr.ConflictAlias, a, []string{owners[0], target})
			}
		}
	}
}

// assemble orders the corpus and derives the published views.
func assemble(docs []*models.Document) *Collection {
	byDateDescSlugAsc(docs)

	c := &Collection{
		BySlug:   make(map[string]*models.Document),
		Taxonomy: make(map[string][]*models.Document),
		Aliases:  make(map[string]string),
	}
	for _, d := range docs {
		if d.Draft {
			c.Drafts = append(c.Drafts, d)
			continue
		}
		c.Documents = append(c.Documents, d)
		c.BySlug[d.Slug] = d
		for _, t := range d.Tags {
			c.Taxonomy[t] = append(c.Taxonomy[t], d)
		}
		for _, a := range d.Aliases {
			c.Aliases[a] = d.Slug
		}
	}
	return c
}

// pathStem returns the final path element without its Markdown extension.
func pathStem(p string) string {
	base := path.Base(p)
	base = strings.TrimSuffix(base, ".markdown")
	base = strings.TrimSuffix(base, ".md")
	return base
}

// normalizeAlias gives aliases a canonical leading-slash, no-trailing-slash
// shape so equal paths compare equal.
func normalizeAlias(a string) string {
	a = "/" + strings.Trim(strings.TrimSpace(a), "/")
	return a
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Package parser extracts frontmatter metadata and the markup body from
// authored documents. Both YAML (`---`) and TOML (`+++`) frontmatter fences
// are accepted.
package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/adrg/frontmatter"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	slug "github.com/goliatone/go-slug"

	"github.com/lindgren/stanza/internal/apperr"
)

// Metadata is the typed frontmatter envelope of one document.
type Metadata struct {
	Title       string    `yaml:"title" toml:"title" json:"title"`
	Description string    `yaml:"description" toml:"description" json:"description"`
	Date        time.Time `yaml:"date" toml:"date" json:"date"`
	Tags        []string  `yaml:"tags" toml:"tags" json:"tags"`
	Aliases     []string  `yaml:"aliases" toml:"aliases" json:"aliases"`
	Draft       bool      `yaml:"draft" toml:"draft" json:"draft"`
	Slug        string    `yaml:"slug" toml:"slug" json:"slug"`
}

// Result holds the outcome of parsing one document file.
type Result struct {
	Meta Metadata
	Body string
}

var aliasRe = regexp.MustCompile(`^/?[A-Za-z0-9._~-]+(?:/[A-Za-z0-9._~-]+)*/?$`)

// Parse decodes and validates the frontmatter of one document. All field
// errors are returned together; a non-empty error slice means the document
// must not be published, but callers keep processing sibling files.
func Parse(path string, data []byte, now time.Time, skew time.Duration) (*Result, []*apperr.ValidationError) {
	var meta Metadata
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return nil, []*apperr.ValidationError{{
			Path:   path,
			Reason: fmt.Sprintf("malformed frontmatter: %v", err),
		}}
	}

	errs := validateMeta(path, &meta, now, skew)
	if len(errs) > 0 {
		return nil, errs
	}

	return &Result{Meta: meta, Body: string(body)}, nil
}

// validateMeta applies the per-field rules and flattens the result into the
// aggregate-friendly ValidationError form, one entry per bad field.
func validateMeta(path string, meta *Metadata, now time.Time, skew time.Duration) []*apperr.ValidationError {
	err := validation.ValidateStruct(meta,
		validation.Field(&meta.Title, validation.Required),
		validation.Field(&meta.Description, validation.Required),
		validation.Field(&meta.Date,
			validation.Required,
			validation.By(notFuture(now, skew)),
		),
		validation.Field(&meta.Slug, validation.By(validSlugOverride)),
		validation.Field(&meta.Tags, validation.Each(validation.Required)),
		validation.Field(&meta.Aliases,
			validation.Each(validation.Required, validation.Match(aliasRe).Error("must be a path")),
		),
	)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validation.Errors)
	if !ok {
		return []*apperr.ValidationError{{Path: path, Reason: err.Error()}}
	}

	fields := make([]string, 0, len(fieldErrs))
	for f := range fieldErrs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	out := make([]*apperr.ValidationError, 0, len(fields))
	for _, f := range fields {
		out = append(out, &apperr.ValidationError{Path: path, Field: f, Reason: fieldErrs[f].Error()})
	}
	return out
}

// notFuture rejects dates further ahead of now than the skew tolerance.
// The tolerance absorbs timezone differences between the author's machine
// and the build host.
func notFuture(now time.Time, skew time.Duration) validation.RuleFunc {
	return func(value interface{}) error {
		t, ok := value.(time.Time)
		if !ok || t.IsZero() {
			return nil // Required handles the missing case
		}
		if t.After(now.Add(skew)) {
			return fmt.Errorf("date %s is in the future", t.Format("2006-01-02"))
		}
		return nil
	}
}

// validSlugOverride accepts an empty override (slug derived from the path)
// or one already in normalized form.
func validSlugOverride(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !slug.IsValid(s) {
		return fmt.Errorf("%q is not a valid slug", s)
	}
	return nil
}

// Package apperr defines the error taxonomy shared by the pipeline:
// per-document validation errors (collected, reported together), conflict
// errors (fatal, name both sources), and theme configuration errors (fatal,
// name the offending key).
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrNotFound = errors.New("not found")

// ValidationError reports one missing or malformed field in one document.
type ValidationError struct {
	Path   string // source file, relative to the content root
	Field  string // frontmatter field, empty when the whole header is bad
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("%s: field %q: %s", e.Path, e.Field, e.Reason)
}

// Conflict kinds.
const (
	ConflictSlug  = "slug"
	ConflictAlias = "alias"
)

// ConflictError reports a value claimed by more than one document, e.g. two
// files deriving the same slug or two documents declaring the same alias.
type ConflictError struct {
	Kind    string   // ConflictSlug or ConflictAlias
	Value   string   // the contested slug or alias string
	Sources []string // slugs (or paths) of every claimant, sorted
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %q claimed by %s", e.Kind, e.Value, strings.Join(e.Sources, ", "))
}

// ConfigError reports a malformed theme configuration entry.
type ConfigError struct {
	Key    string // the offending configuration key, e.g. theme.typographyOverrides.h7
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: key %q: %s", e.Key, e.Reason)
}

// Report aggregates every validation and conflict error found in one
// indexing run so authoring mistakes are enumerated exhaustively instead of
// surfacing one file at a time.
type Report struct {
	Validation []*ValidationError
	Conflicts  []*ConflictError
}

// Add appends a validation error.
func (r *Report) Add(path, field, reason string) {
	r.Validation = append(r.Validation, &ValidationError{Path: path, Field: field, Reason: reason})
}

// AddConflict appends a conflict error with its sources sorted.
func (r *Report) AddConflict(kind, value string, sources []string) {
	sorted := append([]string(nil), sources...)
	sort.Strings(sorted)
	r.Conflicts = append(r.Conflicts, &ConflictError{Kind: kind, Value: value, Sources: sorted})
}

// Empty reports whether the run produced no errors.
func (r *Report) Empty() bool {
	return len(r.Validation) == 0 && len(r.Conflicts) == 0
}

// Sort orders the report deterministically: validation errors by path then
// field, conflicts by kind then value.
func (r *Report) Sort() {
	sort.Slice(r.Validation, func(i, j int) bool {
		a, b := r.Validation[i], r.Validation[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Field < b.Field
	})
	sort.Slice(r.Conflicts, func(i, j int) bool {
		a, b := r.Conflicts[i], r.Conflicts[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Value < b.Value
	})
}

func (r *Report) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "indexing failed with %d error(s):", len(r.Validation)+len(r.Conflicts))
	for _, v := range r.Validation {
		sb.WriteString("\n  ")
		sb.WriteString(v.Error())
	}
	for _, c := range r.Conflicts {
		sb.WriteString("\n  ")
		sb.WriteString(c.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual errors to errors.Is / errors.As.
func (r *Report) Unwrap() []error {
	out := make([]error, 0, len(r.Validation)+len(r.Conflicts))
	for _, v := range r.Validation {
		out = append(out, v)
	}
	for _, c := range r.Conflicts {
		out = append(out, c)
	}
	return out
}

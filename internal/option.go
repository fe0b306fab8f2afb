package internal

import (
	"github.com/lindgren/stanza/internal/render"
	"github.com/lindgren/stanza/internal/styles"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	renderer  render.Renderer
	backend   styles.Backend
	watch     bool
	checkOnly bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithRenderer overrides the default Markdown renderer.
func WithRenderer(r render.Renderer) Option {
	return func(a *application) {
		a.renderer = r
	}
}

// WithStyleBackend overrides the default stylesheet backend.
func WithStyleBackend(b styles.Backend) Option {
	return func(a *application) {
		a.backend = b
	}
}

// WithWatch keeps the process alive and rebuilds on source changes.
func WithWatch(enabled bool) Option {
	return func(a *application) {
		a.watch = enabled
	}
}

// WithCheckOnly validates the corpus and theme without writing artifacts.
func WithCheckOnly(enabled bool) Option {
	return func(a *application) {
		a.checkOnly = enabled
	}
}

package site

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lindgren/stanza/internal/apperr"
	"github.com/lindgren/stanza/internal/index"
	"github.com/lindgren/stanza/internal/render"
	"github.com/lindgren/stanza/internal/styles"
	"github.com/lindgren/stanza/internal/testutil"
)

var testOpts = index.Options{
	Now:  time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC),
	Skew: 24 * time.Hour,
}

func fixtureParams(t *testing.T) Params {
	t.Helper()
	root, store := testutil.TestContentRoot(t)
	testutil.WriteFile(t, root, "hello.md",
		"---\ntitle: Hello\ndescription: First post\ndate: 2024-01-02\ntags: [go]\naliases: [/2019/hello]\n---\n# Hello\n\nWorld. <span class=\"font-bold\">hi</span>\n")
	testutil.WriteFile(t, root, "second.md",
		"---\ntitle: Second\ndescription: Another\ndate: 2024-03-04\ntags: [go, unix]\n---\nMore.\n")

	return Params{
		Store:     store,
		IndexOpts: testOpts,
		ScanRoot:  root,
		Theme: &styles.ThemeFile{
			Content: []string{"**.md"},
			Theme: styles.ThemeSection{
				FontFamily: map[string][]string{"sans": {"Inter", "ui-sans-serif"}},
			},
		},
		Backend: styles.BuiltinBackend{},
	}
}

func TestBuild_Artifacts(t *testing.T) {
	art, err := Build(context.Background(), fixtureParams(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var payload struct {
		Checksum  string                     `json:"checksum"`
		Documents map[string]json.RawMessage `json:"documents"`
		Tags      map[string][]string        `json:"tags"`
		Aliases   map[string]string          `json:"aliases"`
	}
	if err := json.Unmarshal(art.IndexJSON, &payload); err != nil {
		t.Fatalf("index.json is not valid JSON: %v", err)
	}
	if payload.Checksum == "" {
		t.Error("index checksum missing")
	}
	if len(payload.Documents) != 2 {
		t.Errorf("documents = %v", payload.Documents)
	}
	if got := payload.Tags["go"]; len(got) != 2 || got[0] != "second" || got[1] != "hello" {
		t.Errorf("tags[go] = %v, want date-descending slugs", got)
	}
	if payload.Aliases["/2019/hello"] != "hello" {
		t.Errorf("aliases = %v", payload.Aliases)
	}

	if want := "/2019/hello /hello/ 301\n"; string(art.Redirects) != want {
		t.Errorf("redirects = %q, want %q", art.Redirects, want)
	}
	if !strings.Contains(string(art.Stylesheet), ".font-bold {") {
		t.Errorf("stylesheet should contain scanned utility:\n%s", art.Stylesheet)
	}
	if art.HTML != nil {
		t.Error("HTML should be nil without a renderer")
	}
}

func TestBuild_Deterministic(t *testing.T) {
	p := fixtureParams(t)
	first, err := Build(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Build(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first.IndexJSON, second.IndexJSON) {
		t.Error("index.json must be byte-identical across runs")
	}
	if !bytes.Equal(first.Stylesheet, second.Stylesheet) {
		t.Error("styles.css must be byte-identical across runs")
	}
	if !bytes.Equal(first.Redirects, second.Redirects) {
		t.Error("redirects must be byte-identical across runs")
	}
}

func TestBuild_RendersHTMLWhenEnabled(t *testing.T) {
	p := fixtureParams(t)
	p.Renderer = render.NewGoldmark()

	art, err := Build(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	html, ok := art.HTML["hello"]
	if !ok {
		t.Fatalf("HTML[hello] missing: %v", art.HTML)
	}
	if !strings.Contains(string(html), "<h1>Hello</h1>") {
		t.Errorf("html = %s", html)
	}
}

func TestBuild_ValidationFailureProducesNothing(t *testing.T) {
	p := fixtureParams(t)
	root := p.ScanRoot
	testutil.WriteFile(t, root, "broken.md", "---\ntitle: only a title\n---\n")

	art, err := Build(context.Background(), p)
	if art != nil {
		t.Error("no artifacts may exist on fatal failure")
	}
	var report *apperr.Report
	if !errors.As(err, &report) {
		t.Fatalf("want *apperr.Report, got %v", err)
	}
}

func TestBuild_ConfigErrorAborts(t *testing.T) {
	p := fixtureParams(t)
	p.Theme.Theme.TypographyOverrides = map[string]map[string]string{"h7": {"font-size": "3rem"}}

	_, err := Build(context.Background(), p)
	var cerr *apperr.ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("want ConfigError, got %v", err)
	}
}

func TestWrite_Artifacts(t *testing.T) {
	p := fixtureParams(t)
	p.Renderer = render.NewGoldmark()
	art, err := Build(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}

	out := t.TempDir()
	if err := art.Write(out); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{IndexFile, RedirectsFile, StylesheetFile} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}
	data, err := os.ReadFile(filepath.Join(out, HTMLDir, "hello.html"))
	if err != nil {
		t.Fatalf("missing rendered html: %v", err)
	}
	if !strings.Contains(string(data), "<h1>Hello</h1>") {
		t.Errorf("html artifact = %s", data)
	}

	// No stray temp files left behind.
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".stanza-tmp-") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

package render

import (
	"strings"
	"testing"
)

func TestGoldmark_RendersBasicMarkdown(t *testing.T) {
	r := NewGoldmark()
	out, err := r.Render([]byte("# Title\n\nSome *emphasis* and a [link](/x/).\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	html := string(out)
	for _, want := range []string{"<h1>Title</h1>", "<em>emphasis</em>", `<a href="/x/">link</a>`} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %q in:\n%s", want, html)
		}
	}
}

func TestGoldmark_Tables(t *testing.T) {
	r := NewGoldmark()
	out, err := r.Render([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "<table>") {
		t.Errorf("GFM tables should render: %s", out)
	}
}

func TestGoldmark_Deterministic(t *testing.T) {
	r := NewGoldmark()
	body := []byte("Some ~~struck~~ text.\n")
	first, err := r.Render(body)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Render(body)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Error("rendering must be deterministic")
	}
}

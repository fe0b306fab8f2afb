package styles

import (
	"errors"
	"reflect"
	"testing"

	"github.com/lindgren/stanza/internal/apperr"
	"github.com/lindgren/stanza/internal/testutil"
)

func TestExtractTokens_ClassAttributes(t *testing.T) {
	src := `<div class="flex mx-auto max-w-prose"><a class='text-gray-600 hover:underline'>x</a></div>`
	got := ExtractTokens(src)
	want := []string{"flex", "mx-auto", "max-w-prose", "text-gray-600", "hover:underline"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}
}

func TestExtractTokens_MarkdownAttributeBlocks(t *testing.T) {
	src := "Some prose.\n\n![img](a.png){.rounded-lg .mx-auto}\n"
	got := ExtractTokens(src)
	want := []string{"rounded-lg", "mx-auto"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}
}

func TestExtractTokens_RejectsNonTokens(t *testing.T) {
	src := `<div class="Flex -bad bad- {{ .Var }} md:grid-cols-2 w-1/2 p-1.5">x</div>`
	got := ExtractTokens(src)
	want := []string{"md:grid-cols-2", "w-1/2", "p-1.5"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}
}

func TestScan_DeduplicatesAcrossFiles(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "layouts/base.html", `<body class="flex mx-auto">`)
	testutil.WriteFile(t, root, "layouts/post/single.html", `<main class="flex max-w-prose">`)
	testutil.WriteFile(t, root, "notes.txt", `class="hidden"`)

	got, err := Scan(root, []string{"layouts/**.html"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"flex", "max-w-prose", "mx-auto"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}
}

func TestScan_OrderIndependent(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "a.html", `<div class="flex">`)
	testutil.WriteFile(t, root, "b.html", `<div class="grid flex">`)

	first, err := Scan(root, []string{"**.html"})
	if err != nil {
		t.Fatal(err)
	}

	// A second root with reversed file contents must yield the same set.
	root2 := t.TempDir()
	testutil.WriteFile(t, root2, "a.html", `<div class="grid flex">`)
	testutil.WriteFile(t, root2, "b.html", `<div class="flex">`)

	second, err := Scan(root2, []string{"**.html"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("scan must be order-independent: %v vs %v", first, second)
	}
}

func TestScan_BadGlob(t *testing.T) {
	root := t.TempDir()
	_, err := Scan(root, []string{"[unterminated"})
	var cerr *apperr.ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("want ConfigError, got %v", err)
	}
	if cerr.Key != "content" {
		t.Errorf("key = %q", cerr.Key)
	}
}

package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func newRoot(t *testing.T, files map[string]string) *FS {
	t.Helper()
	root := t.TempDir()
	for p, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	fs, err := NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return fs
}

func TestList_MarkdownOnlySorted(t *testing.T) {
	fs := newRoot(t, map[string]string{
		"z.md":                 "z",
		"a/nested.md":          "nested",
		"a/ignored.txt":        "not markdown",
		"b/deep/post.markdown": "deep",
		".git/config.md":       "hidden dir",
	})

	metas, err := fs.List("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a/nested.md", "b/deep/post.markdown", "z.md"}
	if len(metas) != len(want) {
		t.Fatalf("len = %d, want %d (%v)", len(metas), len(want), metas)
	}
	for i, w := range want {
		if metas[i].Path != w {
			t.Errorf("metas[%d].Path = %q, want %q", i, metas[i].Path, w)
		}
		if metas[i].Checksum == "" {
			t.Errorf("metas[%d] has empty checksum", i)
		}
	}
}

func TestRead_RejectsTraversal(t *testing.T) {
	fs := newRoot(t, map[string]string{"a.md": "a"})

	if _, err := fs.Read("../outside.md"); err == nil {
		t.Error("expected traversal to be rejected")
	}
	if _, err := fs.Read("/etc/passwd"); err == nil {
		t.Error("expected absolute path to be rejected")
	}
}

func TestNewFS_RequiresExistingDir(t *testing.T) {
	if _, err := NewFS(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestList_ChecksumStable(t *testing.T) {
	fs := newRoot(t, map[string]string{"a.md": "same content"})

	first, err := fs.List("")
	if err != nil {
		t.Fatal(err)
	}
	second, err := fs.List("")
	if err != nil {
		t.Fatal(err)
	}
	if first[0].Checksum != second[0].Checksum {
		t.Errorf("checksum changed between listings: %q vs %q", first[0].Checksum, second[0].Checksum)
	}
}

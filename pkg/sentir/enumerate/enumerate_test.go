package enumerate

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/cognicore/sentir/pkg/sentir/internalerr"
)

func TestListFiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.PDF", "notes.txt", "c.pdf.bak", "noext"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "folder.pdf"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := List(dir, []string{".pdf"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{filepath.Join(dir, "a.PDF"), filepath.Join(dir, "b.pdf")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("List = %v, want %v", got, want)
	}

	got, err = List(dir, []string{"txt", "pdf"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 files for txt+pdf, got %v", got)
	}
}

func TestListEmptyFolder(t *testing.T) {
	got, err := List(t.TempDir(), []string{".pdf"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no paths, got %v", got)
	}
}

func TestListMissingFolder(t *testing.T) {
	_, err := List(filepath.Join(t.TempDir(), "missing"), []string{".pdf"})
	if !errors.Is(err, internalerr.ErrIO) {
		t.Errorf("got %v, want ErrIO", err)
	}
}

func TestListDoesNotMutateInput(t *testing.T) {
	exts := []string{" PDF ", "txt"}
	if _, err := List(t.TempDir(), exts); err != nil {
		t.Fatal(err)
	}
	if exts[0] != " PDF " || exts[1] != "txt" {
		t.Errorf("input mutated: %q", exts)
	}
}

func TestListFollowsSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "source.pdf")
	if err := os.WriteFile(target, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	links := map[string]string{
		"linked.pdf": target,
		"broken.pdf": filepath.Join(dir, "missing.pdf"),
		"dir.pdf":    filepath.Join(dir, "sub"),
	}
	for name, to := range links {
		if err := os.Symlink(to, filepath.Join(dir, name)); err != nil {
			t.Skipf("symlinks unsupported: %v", err)
		}
	}

	got, err := List(dir, []string{".pdf"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{filepath.Join(dir, "linked.pdf")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("List = %v, want %v", got, want)
	}
}

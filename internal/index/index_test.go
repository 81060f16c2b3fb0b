package index

import (
	"os"
	"path/filepath"
	"testing"
)

func writeOutput(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCommitAndLookup(t *testing.T) {
	dest := t.TempDir()
	target := writeOutput(t, dest, "song.wav")

	ix := Open(dest)
	if err := ix.Commit("track-1", target); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	got, ok := ix.Lookup("track-1")
	if !ok {
		t.Fatal("Lookup() after Commit() found nothing")
	}
	if got != target {
		t.Errorf("Lookup() = %q, want %q", got, target)
	}
	if !ix.IsValid(got) {
		t.Error("IsValid() = false for an existing target")
	}
}

func TestLookupMissing(t *testing.T) {
	ix := Open(t.TempDir())
	if _, ok := ix.Lookup("nothing"); ok {
		t.Error("Lookup() on empty index reported an entry")
	}
}

func TestStaleEntry(t *testing.T) {
	dest := t.TempDir()
	target := writeOutput(t, dest, "song.wav")

	ix := Open(dest)
	if err := ix.Commit("track-1", target); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(target); err != nil {
		t.Fatal(err)
	}

	got, ok := ix.Lookup("track-1")
	if !ok {
		t.Fatal("entry should survive target removal")
	}
	if ix.IsValid(got) {
		t.Error("IsValid() = true for a removed target")
	}

	if err := ix.Invalidate("track-1"); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if _, ok := ix.Lookup("track-1"); ok {
		t.Error("Lookup() found an invalidated entry")
	}
}

func TestInvalidateMissingEntry(t *testing.T) {
	ix := Open(t.TempDir())
	if err := ix.Invalidate("never-committed"); err != nil {
		t.Errorf("Invalidate() on a missing entry = %v, want nil", err)
	}
}

func TestCommitReplacesExistingEntry(t *testing.T) {
	dest := t.TempDir()
	first := writeOutput(t, dest, "first.wav")
	second := writeOutput(t, dest, "second.wav")

	ix := Open(dest)
	if err := ix.Commit("track-1", first); err != nil {
		t.Fatal(err)
	}
	if err := ix.Commit("track-1", second); err != nil {
		t.Fatalf("Commit() over existing entry = %v", err)
	}

	got, _ := ix.Lookup("track-1")
	if got != second {
		t.Errorf("Lookup() = %q, want %q", got, second)
	}
}

func TestIndexDirectoryIsHidden(t *testing.T) {
	dest := t.TempDir()
	target := writeOutput(t, dest, "song.wav")

	ix := Open(dest)
	if err := ix.Commit("track-1", target); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(dest, ".index", "track-1")); err != nil {
		t.Errorf("expected entry under .index: %v", err)
	}
}

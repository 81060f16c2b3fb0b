package index

import (
	"fmt"
	"os"
	"path/filepath"
)

// dirName is the hidden directory under the destination root that holds one
// entry per track identifier.
const dirName = ".index"

// Index records completed downloads as symlinks keyed by track identifier.
//
// Each track mutates only its own key, so concurrent use across different
// tracks needs no locking beyond the atomicity of symlink creation. Two
// workers racing on the same key at worst cause a redundant re-download,
// never a corrupt entry.
type Index struct {
	dir string
}

// Open returns the completion index rooted at the given destination
// directory. No filesystem state is created until the first Commit.
func Open(destination string) *Index {
	return &Index{dir: filepath.Join(destination, dirName)}
}

// Lookup returns the output path recorded for id, if an entry exists.
func (ix *Index) Lookup(id string) (string, bool) {
	entry := ix.entryPath(id)
	info, err := os.Lstat(entry)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return "", false
	}
	target, err := os.Readlink(entry)
	if err != nil {
		return "", false
	}
	return target, true
}

// IsValid reports whether a previously recorded output path still exists on
// disk. A false result means the entry is stale and should be invalidated.
func (ix *Index) IsValid(target string) bool {
	_, err := os.Stat(target)
	return err == nil
}

// Commit records that id maps to target. Ancestor directories are created if
// absent. Any existing entry for id is replaced, so a half-written entry
// left by a crashed run cannot block the commit.
func (ix *Index) Commit(id, target string) error {
	if err := os.MkdirAll(ix.dir, 0755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}
	entry := ix.entryPath(id)
	if err := os.Symlink(target, entry); err != nil {
		if !os.IsExist(err) {
			return fmt.Errorf("create index entry for %s: %w", id, err)
		}
		if err := os.Remove(entry); err != nil {
			return fmt.Errorf("replace index entry for %s: %w", id, err)
		}
		if err := os.Symlink(target, entry); err != nil {
			return fmt.Errorf("create index entry for %s: %w", id, err)
		}
	}
	return nil
}

// Invalidate removes the entry for id so the track is treated as not yet
// downloaded. Removing an absent entry is not an error.
func (ix *Index) Invalidate(id string) error {
	if err := os.Remove(ix.entryPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove index entry for %s: %w", id, err)
	}
	return nil
}

func (ix *Index) entryPath(id string) string {
	return filepath.Join(ix.dir, id)
}

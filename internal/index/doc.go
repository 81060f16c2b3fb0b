// Package index implements the completion index: a persistent mapping from
// track identifier to the track's output file, used to skip tracks that were
// already downloaded by an earlier run.
//
// Entries are symlinks under a hidden ".index" directory at the destination
// root, named by track identifier and pointing at the output file. Keeping
// the index separate from the user-visible tree means the download tree can
// be reorganized (a different folder structure, manual renames) without the
// index layout changing shape.
//
// An entry whose target no longer exists is stale. Staleness is a
// self-healing condition, not an error: callers invalidate the entry and
// download the track again.
package index

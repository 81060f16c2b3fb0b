package model

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
)

// FolderStructure controls how track metadata maps to an output path.
type FolderStructure int

const (
	// StructureFlat puts every track directly under the destination root,
	// named "{artists} - {title}".
	StructureFlat FolderStructure = iota

	// StructureAlbum organizes tracks as "{album artist}/{album}/{NN title}".
	StructureAlbum
)

// ParseFolderStructure parses a folder-structure name, case-insensitively.
// Anything other than "flat" or "album" is a configuration error.
func ParseFolderStructure(s string) (FolderStructure, error) {
	switch strings.ToUpper(s) {
	case "FLAT":
		return StructureFlat, nil
	case "ALBUM":
		return StructureAlbum, nil
	default:
		return 0, fmt.Errorf("unrecognized folder structure: %q", s)
	}
}

// String returns the canonical upper-case name of the structure.
func (fs FolderStructure) String() string {
	switch fs {
	case StructureAlbum:
		return "ALBUM"
	default:
		return "FLAT"
	}
}

// maxJoinedArtists is how many artist names are spelled out before the
// remainder collapses to "and others".
const maxJoinedArtists = 3

// ComputePath maps track metadata and a folder structure to a sanitized
// relative path without extension. It is pure and performs no I/O.
//
// Sanitization removes disallowed characters rather than substituting them,
// so a segment made entirely of disallowed characters comes out empty. That
// degenerate case is accepted as-is; callers get a path with an empty
// segment rather than an error.
func ComputePath(meta *TrackMetadata, structure FolderStructure) string {
	var segments []string
	switch structure {
	case StructureFlat:
		segments = []string{
			fmt.Sprintf("%s - %s", joinArtists(meta.Artists), meta.Title),
		}
	case StructureAlbum:
		album := meta.Album.Name
		if meta.Album.NumDiscs > 1 {
			album = fmt.Sprintf("%s (Disc %d)", meta.Album.Name, meta.DiscNumber)
		}
		segments = []string{
			meta.AlbumArtist(),
			album,
			fmt.Sprintf("%02d %s", meta.Number, meta.Title),
		}
	}

	for i, segment := range segments {
		segments[i] = SanitizeSegment(segment)
	}
	// Joined manually: filepath.Join would drop empty segments, and an
	// all-invalid title legitimately sanitizes to an empty segment.
	return strings.Join(segments, string(filepath.Separator))
}

// joinArtists joins artist names with ", ". Past maxJoinedArtists names the
// list is cut and "and others" is appended.
func joinArtists(artists []string) string {
	if len(artists) > maxJoinedArtists {
		cut := make([]string, 0, maxJoinedArtists+1)
		cut = append(cut, artists[:maxJoinedArtists]...)
		cut = append(cut, "and others")
		return strings.Join(cut, ", ")
	}
	return strings.Join(artists, ", ")
}

// allowNonASCII is false only on Windows, where file names are kept ASCII.
var allowNonASCII = runtime.GOOS != "windows"

// SanitizeSegment strips characters that are invalid in a single path
// segment: < > : ' " / \ | ? *, control characters, and (on Windows)
// anything outside ASCII. It never fails; it is idempotent.
func SanitizeSegment(segment string) string {
	var b strings.Builder
	b.Grow(len(segment))
	for _, r := range segment {
		switch r {
		case '<', '>', ':', '\'', '"', '/', '\\', '|', '?', '*':
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		if r > 0x7f && !allowNonASCII {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

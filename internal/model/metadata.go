package model

import "time"

// TrackRequest identifies one track to download. The ID is opaque to the
// downloader; it is only meaningful to the remote source and is used as the
// completion-index key.
type TrackRequest struct {
	ID string
}

// Album holds the album-level portion of a track's metadata.
type Album struct {
	// Name is the album title.
	Name string

	// NumDiscs is the total disc count for the album. Albums with more
	// than one disc get a "(Disc n)" suffix in ALBUM folder structure.
	NumDiscs int

	// CoverRef is an opaque reference to the album cover art, resolved by
	// the art fetcher. Empty means no cover art is available.
	CoverRef string
}

// TrackMetadata is the metadata for a single track, retrieved once from the
// remote metadata service and read-only afterward.
type TrackMetadata struct {
	// Artists is the ordered artist list. May be empty.
	Artists []string

	// Album is the parent album.
	Album Album

	// DiscNumber is the 1-indexed disc this track is on.
	DiscNumber int

	// Number is the 1-indexed track number within the disc.
	Number int

	// Title is the track title.
	Title string

	// Duration is the track length, used to estimate the decoded stream
	// size for progress reporting.
	Duration time.Duration
}

// AlbumArtist returns the first listed artist, or "" when the track has no
// artists.
func (m *TrackMetadata) AlbumArtist() string {
	if len(m.Artists) == 0 {
		return ""
	}
	return m.Artists[0]
}

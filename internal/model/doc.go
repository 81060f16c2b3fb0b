// Package model defines the core data types shared across trackrip:
// track requests, track metadata, and the folder-structure policy that
// maps metadata to output paths.
//
// # Path computation
//
// ComputePath is a pure function from metadata and a FolderStructure to a
// sanitized relative path (without extension):
//
//	meta := &model.TrackMetadata{
//	    Artists: []string{"Artist"},
//	    Title:   "Song",
//	    Album:   model.Album{Name: "Record", NumDiscs: 1},
//	    Number:  3,
//	}
//	model.ComputePath(meta, model.StructureAlbum)
//	// "Artist/Record/03 Song"
//
// Each path segment is sanitized independently: characters that are invalid
// in file names are removed, not replaced. Sanitization never fails.
package model

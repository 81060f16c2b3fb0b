// Package download drives the per-track download pipeline across a batch of
// tracks.
//
// # Pipeline
//
// Each track moves through a fixed sequence of stages:
//
//	CheckCache -> (Skip | FetchMetadata -> Stream -> Encode -> Commit -> Done)
//
// CheckCache consults the completion index; a valid entry ends the track
// early as a skip, a stale entry is invalidated and the download proceeds.
// Stream opens the bridge to the remote audio producer and accumulates
// decoded samples until the bridge delivers its Finished event. Encode runs
// the format's encoder over the accumulated buffer, the result is written to
// a temporary file and renamed into place, and only then is the track
// committed to the index.
//
// # Concurrency
//
// DownloadTracks runs at most Options.Parallel track pipelines at once. A
// failing track never cancels its siblings: every track runs to completion
// or failure, and the batch returns the first failure afterward. Tracks
// committed before a sibling's failure stay committed.
//
// # Basic usage
//
//	d := download.New(download.Collaborators{
//	    Metadata: svc,
//	    Audio:    svc,
//	    Art:      svc,
//	})
//	err := d.DownloadTracks(ctx, manifest.Requests(), download.Options{
//	    Destination: "/music",
//	    Parallel:    4,
//	    Format:      encoder.FormatFLAC,
//	    Structure:   model.StructureAlbum,
//	    Compression: encoder.DefaultCompression,
//	})
package download

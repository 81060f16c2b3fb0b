package source

import (
	"context"

	"github.com/rosenkrans/trackrip/internal/model"
	"github.com/rosenkrans/trackrip/internal/stream"
)

// MetadataService retrieves track metadata from the remote source.
type MetadataService interface {
	TrackMetadata(ctx context.Context, id string) (*model.TrackMetadata, error)
}

// ArtFetcher resolves a cover-art reference to image bytes.
type ArtFetcher interface {
	CoverArt(ctx context.Context, ref string) ([]byte, error)
}

// AudioSource starts the audio producer for a track. The producer pushes
// decoded sample chunks into sink at its own pace and calls sink.Finish
// when decoding ends; the returned Player is the handle for the producer's
// own completion signal.
type AudioSource interface {
	Open(ctx context.Context, id string, sink *stream.ChannelSink) (Player, error)
}

// Player is a handle on a running audio producer.
type Player interface {
	// WaitEnd blocks until the producer reports end of track or ctx is
	// done. It does not guarantee the bridge channel has drained; the
	// Finished event on the channel remains the consumer's authoritative
	// completion signal.
	WaitEnd(ctx context.Context) error

	// Stop halts the producer. Idempotent and safe to call after natural
	// completion.
	Stop()
}

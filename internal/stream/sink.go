package stream

import (
	"github.com/rosenkrans/trackrip/internal/model"
)

// Decoded audio is always delivered at CD parameters; the approximate
// stream size for progress display is derived from them.
const (
	SampleRate     = 44100
	Channels       = 2
	BitsPerSample  = 16
	bytesPerSample = BitsPerSample / 8
)

// eventBuffer bounds the bridge channel. When the consumer lags this far
// behind, the producer blocks.
const eventBuffer = 64

// Event is one message on the bridge channel.
//
// A Write event carries a chunk of decoded samples plus the cumulative byte
// count delivered so far; Total is the approximate expected size and is for
// progress display only. The final event has Finished set and carries no
// samples; nothing follows it.
type Event struct {
	Written  int64
	Total    int64
	Chunk    []int32
	Finished bool
}

// ChannelSink is the producer half of the bridge. The remote audio source
// calls Write for each decoded chunk and Finish exactly once when decoding
// ends; the consumer receives Events from the channel returned by New.
type ChannelSink struct {
	ch      chan Event
	written int64
	total   int64
}

// New creates a sink sized for the given track and returns it together with
// the consumer side of the channel.
func New(meta *model.TrackMetadata) (*ChannelSink, <-chan Event) {
	s := &ChannelSink{
		ch:    make(chan Event, eventBuffer),
		total: approximateSize(meta),
	}
	return s, s.ch
}

// ApproximateSize is the expected decoded size in bytes, estimated from the
// track duration. It may be inexact; it exists for progress bars.
func (s *ChannelSink) ApproximateSize() int64 {
	return s.total
}

// Write delivers one chunk of decoded samples to the consumer. It blocks
// while the channel buffer is full. Write must not be called after Finish.
func (s *ChannelSink) Write(chunk []int32) {
	if len(chunk) == 0 {
		return
	}
	s.written += int64(len(chunk)) * bytesPerSample
	s.ch <- Event{Written: s.written, Total: s.total, Chunk: chunk}
}

// Finish sends the terminal event and closes the channel. Every Write
// delivered before Finish is received by the consumer first.
func (s *ChannelSink) Finish() {
	s.ch <- Event{Written: s.written, Total: s.total, Finished: true}
	close(s.ch)
}

// Abort closes the channel without a terminal event. Consumers observe the
// closure as a premature end of stream. Used when the producer fails.
func (s *ChannelSink) Abort() {
	close(s.ch)
}

func approximateSize(meta *model.TrackMetadata) int64 {
	seconds := meta.Duration.Seconds()
	return int64(seconds * SampleRate * Channels * bytesPerSample)
}

package encoder

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rosenkrans/trackrip/internal/model"
)

// Format is a target audio container/format.
type Format string

const (
	FormatWAV  Format = "wav"
	FormatMP3  Format = "mp3"
	FormatFLAC Format = "flac"
)

// ParseFormat parses a format name, case-insensitively. An unknown name is
// a configuration error.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "wav":
		return FormatWAV, nil
	case "mp3":
		return FormatMP3, nil
	case "flac":
		return FormatFLAC, nil
	default:
		return "", fmt.Errorf("unsupported format: %q", s)
	}
}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// Samples is the decoded audio for one track: an ordered sample sequence
// plus the parameters it was decoded at. It is built once by the streaming
// bridge and consumed exactly once by an Encoder.
type Samples struct {
	Data          []int32
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// NewSamples bundles decoded samples with their decode parameters.
func NewSamples(data []int32, sampleRate, channels, bitsPerSample int) Samples {
	return Samples{
		Data:          data,
		SampleRate:    sampleRate,
		Channels:      channels,
		BitsPerSample: bitsPerSample,
	}
}

// Stream is a fully encoded track, consumed by writing it out once.
type Stream interface {
	io.WriterTo
}

// Encoder produces an encoded Stream from samples, track metadata and
// optional cover art (nil when the track has none).
type Encoder interface {
	Encode(ctx context.Context, samples Samples, meta *model.TrackMetadata, cover []byte) (Stream, error)
}

// DefaultCompression selects the encoder's own default compression level.
const DefaultCompression = -1

// For returns the encoder for a format. compression is the FLAC compression
// level (DefaultCompression leaves it to the encoder); other formats ignore
// it.
func For(format Format, compression int) (Encoder, error) {
	switch format {
	case FormatWAV:
		return wavEncoder{}, nil
	case FormatMP3:
		return mp3Encoder{}, nil
	case FormatFLAC:
		return flacEncoder{compression: compression}, nil
	default:
		return nil, fmt.Errorf("no encoder for format %q", format)
	}
}

// byteStream is an in-memory Stream.
type byteStream struct {
	chunks [][]byte
}

func (s byteStream) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, chunk := range s.chunks {
		n, err := w.Write(chunk)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

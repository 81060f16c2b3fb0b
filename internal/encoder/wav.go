package encoder

import (
	"context"
	"encoding/binary"

	"github.com/rosenkrans/trackrip/internal/model"
)

// wavEncoder writes a canonical RIFF/WAVE file with 16-bit PCM samples.
// WAV has no standard tag or picture blocks, so metadata and cover art are
// not embedded.
type wavEncoder struct{}

const wavHeaderSize = 44

func (wavEncoder) Encode(_ context.Context, samples Samples, _ *model.TrackMetadata, _ []byte) (Stream, error) {
	bytesPerSample := samples.BitsPerSample / 8
	dataSize := len(samples.Data) * bytesPerSample
	byteRate := samples.SampleRate * samples.Channels * bytesPerSample
	blockAlign := samples.Channels * bytesPerSample

	buf := make([]byte, wavHeaderSize+dataSize)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(wavHeaderSize-8+dataSize))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(buf[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(buf[22:24], uint16(samples.Channels))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(samples.SampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], uint16(samples.BitsPerSample))

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))

	out := buf[wavHeaderSize:]
	for i, sample := range samples.Data {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(sample)))
	}

	return byteStream{chunks: [][]byte{buf}}, nil
}

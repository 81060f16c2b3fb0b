package encoder

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rosenkrans/trackrip/internal/model"
)

// ffmpegName is the transcoder binary looked up on PATH.
var ffmpegName = "ffmpeg"

// mp3Encoder transcodes PCM to MP3 at a fixed high bitrate via ffmpeg and
// prepends an ID3v2 tag carrying metadata and cover art.
type mp3Encoder struct{}

const mp3Bitrate = "320k"

func (mp3Encoder) Encode(ctx context.Context, samples Samples, meta *model.TrackMetadata, cover []byte) (Stream, error) {
	audio, err := runFFmpeg(ctx, samples, []string{"-c:a", "libmp3lame", "-b:a", mp3Bitrate, "-f", "mp3"})
	if err != nil {
		return nil, err
	}

	var tagBuf bytes.Buffer
	if _, err := newTag(meta, cover).WriteTo(&tagBuf); err != nil {
		return nil, fmt.Errorf("render id3 tag: %w", err)
	}

	return byteStream{chunks: [][]byte{tagBuf.Bytes(), audio}}, nil
}

// flacEncoder transcodes PCM to FLAC via ffmpeg. Tags and the attached
// cover picture travel through ffmpeg rather than a separate tagging pass.
type flacEncoder struct {
	compression int
}

func (e flacEncoder) Encode(ctx context.Context, samples Samples, meta *model.TrackMetadata, cover []byte) (Stream, error) {
	args := []string{"-c:a", "flac"}
	if e.compression != DefaultCompression {
		args = append(args, "-compression_level", strconv.Itoa(e.compression))
	}
	args = append(args, metadataArgs(meta)...)

	if len(cover) > 0 {
		coverPath, cleanup, err := tempCoverFile(cover)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		audio, err := runFFmpegWithCover(ctx, samples, coverPath, args)
		if err != nil {
			return nil, err
		}
		return byteStream{chunks: [][]byte{audio}}, nil
	}

	args = append(args, "-f", "flac")
	audio, err := runFFmpeg(ctx, samples, args)
	if err != nil {
		return nil, err
	}
	return byteStream{chunks: [][]byte{audio}}, nil
}

// metadataArgs renders track metadata as ffmpeg -metadata flags.
func metadataArgs(meta *model.TrackMetadata) []string {
	return []string{
		"-metadata", "title=" + meta.Title,
		"-metadata", "artist=" + strings.Join(meta.Artists, ", "),
		"-metadata", "album=" + meta.Album.Name,
		"-metadata", "album_artist=" + meta.AlbumArtist(),
		"-metadata", "track=" + strconv.Itoa(meta.Number),
		"-metadata", "disc=" + strconv.Itoa(meta.DiscNumber),
	}
}

// inputArgs describes the raw PCM stream fed on stdin.
func inputArgs(samples Samples) []string {
	return []string{
		"-f", "s16le",
		"-ar", strconv.Itoa(samples.SampleRate),
		"-ac", strconv.Itoa(samples.Channels),
		"-i", "pipe:0",
	}
}

// runFFmpeg feeds samples to ffmpeg on stdin and returns the encoded bytes
// from stdout.
func runFFmpeg(ctx context.Context, samples Samples, outArgs []string) ([]byte, error) {
	args := []string{"-hide_banner", "-loglevel", "error"}
	args = append(args, inputArgs(samples)...)
	args = append(args, outArgs...)
	args = append(args, "pipe:1")

	cmd := exec.CommandContext(ctx, ffmpegName, args...)
	cmd.Stdin = bytes.NewReader(pcmBytes(samples))
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}

// runFFmpegWithCover encodes to a temporary output file so ffmpeg can write
// the attached picture block, which it refuses to do on a pipe.
func runFFmpegWithCover(ctx context.Context, samples Samples, coverPath string, outArgs []string) ([]byte, error) {
	outDir, err := os.MkdirTemp("", "trackrip-enc-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(outDir)
	outPath := filepath.Join(outDir, "out.flac")

	args := []string{"-hide_banner", "-loglevel", "error"}
	args = append(args, inputArgs(samples)...)
	args = append(args, "-i", coverPath,
		"-map", "0:a", "-map", "1:v",
		"-c:v", "mjpeg", "-disposition:v:0", "attached_pic")
	args = append(args, outArgs...)
	args = append(args, outPath)

	cmd := exec.CommandContext(ctx, ffmpegName, args...)
	cmd.Stdin = bytes.NewReader(pcmBytes(samples))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return os.ReadFile(outPath)
}

func tempCoverFile(cover []byte) (string, func(), error) {
	f, err := os.CreateTemp("", "trackrip-cover-*.jpg")
	if err != nil {
		return "", nil, err
	}
	if _, err := f.Write(cover); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", nil, err
	}
	return f.Name(), func() { os.Remove(f.Name()) }, nil
}

// pcmBytes serializes samples as signed 16-bit little-endian PCM.
func pcmBytes(samples Samples) []byte {
	buf := make([]byte, len(samples.Data)*2)
	for i, sample := range samples.Data {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(int16(sample)))
	}
	return buf
}

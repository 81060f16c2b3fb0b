// Package encoder turns accumulated sample buffers into encoded audio
// streams for a target format.
//
// Encoder selection is a closed lookup keyed by Format: the format set is
// fixed at build time and each format maps to one strategy. The core of the
// downloader only depends on the Encoder and Stream contracts and is
// agnostic to how the bytes are produced.
//
// The WAV encoder is pure Go. MP3 and FLAC shell out to ffmpeg, feeding raw
// PCM on stdin; MP3 output additionally gets an ID3v2 tag with metadata and
// cover art prepended, FLAC carries its tags and attached picture through
// ffmpeg itself.
package encoder

// Package source defines the capabilities the downloader consumes from a
// remote streaming service: track metadata retrieval, cover-art retrieval,
// and an audio producer that streams decoded samples into a ChannelSink.
//
// The downloader depends only on the interfaces. Service is a reference
// implementation backed by plain HTTP and a local JSON manifest describing
// where each track's metadata, PCM stream and cover art live; it exists so
// the binary works end to end without a proprietary protocol client, and it
// doubles as the template for wiring a real one.
package source

package download

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rosenkrans/trackrip/internal/artwork"
	"github.com/rosenkrans/trackrip/internal/encoder"
	"github.com/rosenkrans/trackrip/internal/index"
	"github.com/rosenkrans/trackrip/internal/model"
	"github.com/rosenkrans/trackrip/internal/progress"
	"github.com/rosenkrans/trackrip/internal/source"
	"github.com/rosenkrans/trackrip/internal/stream"
)

// Options configures one batch run. It is read-only for the duration of the
// run and shared across all concurrent track pipelines.
type Options struct {
	// Destination is the root directory of the download tree.
	Destination string

	// Compression is the FLAC compression level;
	// encoder.DefaultCompression leaves it to the encoder.
	Compression int

	// Parallel bounds how many track pipelines run at once. Must be >= 1.
	Parallel int

	// Format is the target audio format.
	Format encoder.Format

	// Structure controls the shape of the download tree.
	Structure model.FolderStructure

	// Playlist writes an M3U playlist of the batch on full success.
	Playlist bool
}

func (o *Options) validate() error {
	if o.Destination == "" {
		return fmt.Errorf("destination directory not set")
	}
	if o.Parallel < 1 {
		return fmt.Errorf("parallel must be at least 1, got %d", o.Parallel)
	}
	return nil
}

// Collaborators are the external services a Downloader consumes. Progress
// and Logger are optional.
type Collaborators struct {
	Metadata source.MetadataService
	Audio    source.AudioSource
	Art      source.ArtFetcher
	Progress progress.Sink
	Logger   *log.Logger
}

// Downloader downloads batches of tracks.
type Downloader struct {
	metadata source.MetadataService
	audio    source.AudioSource
	art      source.ArtFetcher
	progress progress.Sink
	logger   *log.Logger
}

// New creates a Downloader. A nil Progress discards reports; a nil Logger
// silences logging.
func New(c Collaborators) *Downloader {
	if c.Progress == nil {
		c.Progress = progress.Discard()
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	return &Downloader{
		metadata: c.Metadata,
		audio:    c.Audio,
		art:      c.Art,
		progress: c.Progress,
		logger:   c.Logger,
	}
}

// trackResult is what a finished pipeline leaves behind for the batch-level
// playlist. Skipped tracks carry the recorded path but no metadata.
type trackResult struct {
	Path string
	Meta *model.TrackMetadata
}

// DownloadTracks downloads every track in the batch, at most opts.Parallel
// at a time. It returns the first per-track failure after all in-flight
// tracks have finished; tracks committed before that failure stay committed.
func (d *Downloader) DownloadTracks(ctx context.Context, tracks []model.TrackRequest, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}
	enc, err := encoder.For(opts.Format, opts.Compression)
	if err != nil {
		return err
	}

	ix := index.Open(opts.Destination)
	results := make([]trackResult, len(tracks))

	// Deliberately not errgroup.WithContext: one track's failure must not
	// cancel its siblings.
	var g errgroup.Group
	g.SetLimit(opts.Parallel)

	for i, req := range tracks {
		g.Go(func() error {
			res, err := d.downloadTrack(ctx, req, opts, enc, ix)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if opts.Playlist {
		if err := writePlaylist(opts.Destination, results); err != nil {
			return err
		}
	}
	return nil
}

func (d *Downloader) downloadTrack(ctx context.Context, req model.TrackRequest, opts Options, enc encoder.Encoder, ix *index.Index) (trackResult, error) {
	bar := d.progress.StartTrack(req.ID)
	logger := d.logger.With("track", req.ID)

	// CheckCache
	if target, ok := ix.Lookup(req.ID); ok {
		if ix.IsValid(target) {
			logger.Info("already downloaded", "path", target)
			bar.Finish("Already downloaded " + filepath.Base(target))
			return trackResult{Path: target}, nil
		}
		logger.Warn("removing stale index entry", "path", target)
		if err := ix.Invalidate(req.ID); err != nil {
			return trackResult{}, &TrackError{ID: req.ID, Stage: StageCheckCache, Err: err}
		}
	}

	// FetchMetadata
	meta, err := d.metadata.TrackMetadata(ctx, req.ID)
	if err != nil {
		return trackResult{}, &TrackError{ID: req.ID, Stage: StageFetchMetadata, Err: err}
	}

	relPath := model.ComputePath(meta, opts.Structure) + "." + opts.Format.Extension()
	outPath := filepath.Join(opts.Destination, relPath)
	bar.SetMessage(relPath)
	logger.Info("downloading", "title", meta.Title, "path", relPath)

	cover := d.fetchCover(ctx, meta, logger)

	// Stream
	sink, events := stream.New(meta)
	bar.SetTotal(sink.ApproximateSize())

	player, err := d.audio.Open(ctx, req.ID, sink)
	if err != nil {
		return trackResult{}, &TrackError{ID: req.ID, Stage: StageStream, Err: err}
	}

	// The producer's own end-of-track signal only stops the producer. The
	// consumer below trusts the Finished event, which is ordered behind
	// every buffered Write.
	go func() {
		player.WaitEnd(ctx)
		player.Stop()
	}()

	samples := make([]int32, 0, sink.ApproximateSize()/2)
	finished := false
	for ev := range events {
		if ev.Finished {
			finished = true
			break
		}
		samples = append(samples, ev.Chunk...)
		bar.SetPosition(ev.Written)
	}
	if !finished {
		return trackResult{}, &TrackError{ID: req.ID, Stage: StageStream, Err: errPrematureClose}
	}

	// Encode
	bar.SetMessage("Encoding " + relPath)
	buf := encoder.NewSamples(samples, stream.SampleRate, stream.Channels, stream.BitsPerSample)
	encoded, err := enc.Encode(ctx, buf, meta, cover)
	if err != nil {
		return trackResult{}, &TrackError{ID: req.ID, Stage: StageEncode, Err: err}
	}

	// Write
	bar.SetMessage("Writing " + relPath)
	written, err := writeStream(encoded, outPath)
	if err != nil {
		return trackResult{}, &TrackError{ID: req.ID, Stage: StageWrite, Err: err}
	}

	// Commit only after the file is durably in place.
	if err := ix.Commit(req.ID, outPath); err != nil {
		return trackResult{}, &TrackError{ID: req.ID, Stage: StageCommit, Err: err}
	}

	logger.Info("downloaded", "path", outPath, "size", humanize.Bytes(uint64(written)))
	bar.Finish("Downloaded " + relPath)
	return trackResult{Path: outPath, Meta: meta}, nil
}

// fetchCover retrieves and normalizes cover art. Art is optional for every
// supported format, so any failure here degrades to a track without art.
func (d *Downloader) fetchCover(ctx context.Context, meta *model.TrackMetadata, logger *log.Logger) []byte {
	if meta.Album.CoverRef == "" {
		logger.Warn("track has no cover art")
		return nil
	}
	raw, err := d.art.CoverArt(ctx, meta.Album.CoverRef)
	if err != nil {
		logger.Warn("cover art fetch failed", "err", err)
		return nil
	}
	cover, err := artwork.Prepare(raw)
	if err != nil {
		logger.Warn("cover art unusable", "err", err)
		return nil
	}
	return cover
}

// writeStream writes an encoded stream to path via a uniquely named
// temporary file in the same directory, then renames it into place. A
// failed write never leaves a file at path for the index to trust.
func writeStream(s encoder.Stream, path string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, err
	}

	tmp := path + ".tmp-" + uuid.NewString()
	f, err := os.Create(tmp)
	if err != nil {
		return 0, err
	}

	n, err := s.WriteTo(f)
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return n, err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return n, err
	}
	return n, nil
}

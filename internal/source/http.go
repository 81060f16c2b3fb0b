package source

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/rosenkrans/trackrip/internal/model"
	"github.com/rosenkrans/trackrip/internal/stream"
)

// Manifest lists the tracks an HTTP-backed source can serve.
type Manifest struct {
	Tracks []ManifestTrack `json:"tracks"`
}

// ManifestTrack describes one track: its metadata plus the URLs for the raw
// PCM audio stream (signed 16-bit little-endian, 44.1kHz stereo) and the
// cover art.
type ManifestTrack struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Artists         []string `json:"artists"`
	Album           string   `json:"album"`
	NumDiscs        int      `json:"num_discs"`
	DiscNumber      int      `json:"disc_number"`
	Number          int      `json:"number"`
	DurationSeconds float64  `json:"duration_seconds"`
	AudioURL        string   `json:"audio_url"`
	CoverURL        string   `json:"cover_url"`
}

// LoadManifest reads a track manifest from a JSON file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// Requests returns one TrackRequest per manifest entry, in manifest order.
func (m *Manifest) Requests() []model.TrackRequest {
	reqs := make([]model.TrackRequest, len(m.Tracks))
	for i, t := range m.Tracks {
		reqs[i] = model.TrackRequest{ID: t.ID}
	}
	return reqs
}

// Service implements MetadataService, ArtFetcher and AudioSource over plain
// HTTP, with all remote requests rate limited.
type Service struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	tracks    map[string]ManifestTrack
}

// audioChunkSize is how many bytes are read from the remote stream per
// bridge event.
const audioChunkSize = 32 * 1024

// NewService builds a Service for the given manifest. requestsPerSecond
// bounds the remote request rate; zero or negative disables the limit.
func NewService(m *Manifest, requestsPerSecond float64) *Service {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	tracks := make(map[string]ManifestTrack, len(m.Tracks))
	for _, t := range m.Tracks {
		tracks[t.ID] = t
	}
	return &Service{
		client:    &http.Client{Timeout: 10 * time.Minute},
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: "trackrip",
		tracks:    tracks,
	}
}

// TrackMetadata implements MetadataService from the manifest.
func (s *Service) TrackMetadata(ctx context.Context, id string) (*model.TrackMetadata, error) {
	track, ok := s.tracks[id]
	if !ok {
		return nil, fmt.Errorf("unknown track: %s", id)
	}

	numDiscs := track.NumDiscs
	if numDiscs < 1 {
		numDiscs = 1
	}
	discNumber := track.DiscNumber
	if discNumber < 1 {
		discNumber = 1
	}

	return &model.TrackMetadata{
		Artists: track.Artists,
		Album: model.Album{
			Name:     track.Album,
			NumDiscs: numDiscs,
			CoverRef: track.CoverURL,
		},
		DiscNumber: discNumber,
		Number:     track.Number,
		Title:      track.Title,
		Duration:   time.Duration(track.DurationSeconds * float64(time.Second)),
	}, nil
}

// CoverArt implements ArtFetcher. The cover reference is a URL.
func (s *Service) CoverArt(ctx context.Context, ref string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Open implements AudioSource: it starts a goroutine that streams the
// track's PCM bytes into sink and returns the producer handle.
func (s *Service) Open(ctx context.Context, id string, sink *stream.ChannelSink) (Player, error) {
	track, ok := s.tracks[id]
	if !ok {
		return nil, fmt.Errorf("unknown track: %s", id)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	streamCtx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(streamCtx, http.MethodGet, track.AudioURL, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	p := &httpPlayer{done: make(chan struct{}), cancel: cancel}
	go p.produce(resp.Body, sink)
	return p, nil
}

// httpPlayer is the producer handle for one HTTP audio stream.
type httpPlayer struct {
	done   chan struct{}
	cancel context.CancelFunc
	stop   sync.Once
}

func (p *httpPlayer) produce(body io.ReadCloser, sink *stream.ChannelSink) {
	defer close(p.done)
	defer body.Close()

	buf := make([]byte, audioChunkSize)
	var carry byte
	hasCarry := false

	for {
		n, err := body.Read(buf)
		if n > 0 {
			var samples []int32
			samples, carry, hasCarry = decodeSamples(buf[:n], carry, hasCarry)
			sink.Write(samples)
		}
		if err == io.EOF {
			sink.Finish()
			return
		}
		if err != nil {
			sink.Abort()
			return
		}
	}
}

// WaitEnd blocks until the stream is fully produced or ctx is done.
func (p *httpPlayer) WaitEnd(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop cancels the underlying request. Safe to call any number of times,
// including after the stream already ended naturally.
func (p *httpPlayer) Stop() {
	p.stop.Do(p.cancel)
}

// decodeSamples converts signed 16-bit little-endian bytes to samples,
// carrying a trailing odd byte over to the next chunk.
func decodeSamples(data []byte, carry byte, hasCarry bool) ([]int32, byte, bool) {
	if hasCarry {
		data = append([]byte{carry}, data...)
	}
	samples := make([]int32, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		samples = append(samples, int32(int16(binary.LittleEndian.Uint16(data[i:]))))
	}
	if len(data)%2 == 1 {
		return samples, data[len(data)-1], true
	}
	return samples, 0, false
}

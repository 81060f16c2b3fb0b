// Package progress defines the observational progress interface that track
// pipelines report into, plus non-interactive implementations. Sinks have no
// effect on control flow; a track downloads the same way into a Discard sink
// as into the TUI.
package progress

import (
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// Sink hands out one Bar per track. Implementations must be safe for use
// from concurrent track pipelines.
type Sink interface {
	StartTrack(id string) Bar
}

// Bar receives progress for a single track.
type Bar interface {
	// SetTotal sets the expected byte count. The value is approximate.
	SetTotal(n int64)
	// SetPosition sets the cumulative bytes received so far.
	SetPosition(n int64)
	// SetMessage replaces the bar's label.
	SetMessage(text string)
	// Finish marks the track done with a closing message. No calls follow.
	Finish(text string)
}

type discardSink struct{}
type discardBar struct{}

// Discard returns a sink that ignores all reports.
func Discard() Sink { return discardSink{} }

func (discardSink) StartTrack(string) Bar { return discardBar{} }

func (discardBar) SetTotal(int64)    {}
func (discardBar) SetPosition(int64) {}
func (discardBar) SetMessage(string) {}
func (discardBar) Finish(string)     {}

// logSink reports milestones through a leveled logger, for non-interactive
// runs. Byte positions are throttled to every reportEvery bytes so logs stay
// readable.
type logSink struct {
	logger *log.Logger
}

const reportEvery = 4 << 20 // 4 MiB

// NewLogSink returns a sink that logs track milestones.
func NewLogSink(logger *log.Logger) Sink {
	return &logSink{logger: logger}
}

func (s *logSink) StartTrack(id string) Bar {
	return &logBar{logger: s.logger.With("track", id)}
}

type logBar struct {
	logger   *log.Logger
	total    int64
	reported int64
}

func (b *logBar) SetTotal(n int64) {
	b.total = n
}

func (b *logBar) SetPosition(n int64) {
	if n-b.reported < reportEvery {
		return
	}
	b.reported = n
	b.logger.Info("downloading",
		"received", humanize.Bytes(uint64(n)),
		"expected", humanize.Bytes(uint64(b.total)))
}

func (b *logBar) SetMessage(text string) {
	b.logger.Info(text)
}

func (b *logBar) Finish(text string) {
	b.logger.Info(text)
}

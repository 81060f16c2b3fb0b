package download

import (
	"errors"
	"fmt"
)

// Stage identifies where in the pipeline a track failed.
type Stage int

const (
	StageCheckCache Stage = iota
	StageFetchMetadata
	StageStream
	StageEncode
	StageWrite
	StageCommit
)

func (s Stage) String() string {
	switch s {
	case StageCheckCache:
		return "check cache"
	case StageFetchMetadata:
		return "fetch metadata"
	case StageStream:
		return "stream"
	case StageEncode:
		return "encode"
	case StageWrite:
		return "write"
	case StageCommit:
		return "commit"
	default:
		return "unknown"
	}
}

// TrackError is a per-track failure. One track's error does not affect its
// siblings; the batch surfaces the first TrackError encountered.
type TrackError struct {
	ID    string
	Stage Stage
	Err   error
}

func (e *TrackError) Error() string {
	return fmt.Sprintf("track %s: %s: %v", e.ID, e.Stage, e.Err)
}

func (e *TrackError) Unwrap() error {
	return e.Err
}

// errPrematureClose reports a bridge channel that closed before delivering
// its Finished event.
var errPrematureClose = errors.New("stream closed before finishing")

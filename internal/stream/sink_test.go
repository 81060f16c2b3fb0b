package stream

import (
	"testing"
	"time"

	"github.com/rosenkrans/trackrip/internal/model"
)

func TestConsumerReceivesChunksInOrder(t *testing.T) {
	meta := &model.TrackMetadata{Duration: time.Second}
	sink, events := New(meta)

	chunks := [][]int32{{1, 2}, {3}, {4, 5, 6}}
	go func() {
		for _, c := range chunks {
			sink.Write(c)
		}
		sink.Finish()
	}()

	var accumulated []int32
	var lastWritten int64
	finished := false
	for ev := range events {
		if ev.Finished {
			finished = true
			break
		}
		if ev.Written <= lastWritten {
			t.Errorf("Written not monotonic: %d after %d", ev.Written, lastWritten)
		}
		lastWritten = ev.Written
		accumulated = append(accumulated, ev.Chunk...)
	}

	if !finished {
		t.Fatal("channel closed without a Finished event")
	}

	want := []int32{1, 2, 3, 4, 5, 6}
	if len(accumulated) != len(want) {
		t.Fatalf("accumulated %d samples, want %d", len(accumulated), len(want))
	}
	for i := range want {
		if accumulated[i] != want[i] {
			t.Fatalf("sample %d = %d, want %d", i, accumulated[i], want[i])
		}
	}

	if lastWritten != int64(len(want))*bytesPerSample {
		t.Errorf("final Written = %d, want %d", lastWritten, len(want)*bytesPerSample)
	}
}

func TestNoEventsAfterFinished(t *testing.T) {
	meta := &model.TrackMetadata{Duration: time.Second}
	sink, events := New(meta)

	go func() {
		sink.Write([]int32{1})
		sink.Finish()
	}()

	sawFinished := false
	for ev := range events {
		if sawFinished {
			t.Fatal("received an event after Finished")
		}
		if ev.Finished {
			sawFinished = true
		}
	}
	if !sawFinished {
		t.Fatal("never received Finished")
	}
}

func TestEmptyChunkIsDropped(t *testing.T) {
	meta := &model.TrackMetadata{}
	sink, events := New(meta)

	go func() {
		sink.Write(nil)
		sink.Write([]int32{7})
		sink.Finish()
	}()

	var count int
	for ev := range events {
		if ev.Finished {
			break
		}
		count++
		if len(ev.Chunk) == 0 {
			t.Error("empty chunk delivered")
		}
	}
	if count != 1 {
		t.Errorf("received %d Write events, want 1", count)
	}
}

func TestApproximateSize(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		want     int64
	}{
		{"one second", time.Second, 44100 * 2 * 2},
		{"three minutes", 3 * time.Minute, 180 * 44100 * 2 * 2},
		{"zero duration", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink, _ := New(&model.TrackMetadata{Duration: tt.duration})
			if got := sink.ApproximateSize(); got != tt.want {
				t.Errorf("ApproximateSize() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBackpressureDoesNotDropData(t *testing.T) {
	meta := &model.TrackMetadata{}
	sink, events := New(meta)

	const chunkCount = eventBuffer * 3
	go func() {
		for i := 0; i < chunkCount; i++ {
			sink.Write([]int32{int32(i)})
		}
		sink.Finish()
	}()

	var received int
	for ev := range events {
		if ev.Finished {
			break
		}
		if ev.Chunk[0] != int32(received) {
			t.Fatalf("chunk %d out of order: got %d", received, ev.Chunk[0])
		}
		received++
		// Slow consumer; the producer must block, not drop.
		if received%eventBuffer == 0 {
			time.Sleep(time.Millisecond)
		}
	}
	if received != chunkCount {
		t.Errorf("received %d chunks, want %d", received, chunkCount)
	}
}

// Package stream implements the producer/consumer bridge between a remote
// audio source and the local encoder.
//
// The producer pushes decoded sample chunks into a ChannelSink at its own
// pace; the consumer drains Events from the sink's channel, accumulating
// samples and reporting byte progress. The channel is bounded, so a slow
// consumer applies backpressure instead of dropping data, and delivery is
// strictly FIFO.
//
// Completion has two signals. The terminal Finished event on the channel is
// the authoritative one for the consumer: it guarantees every buffered Write
// has already been delivered. The producer's own end-of-track notification
// is observed separately and is only used to stop the producer, which may
// happen before the channel has drained.
package stream

package publishers

import "context"

// Publisher delivers movie events to one downstream sink.
// Sinks that hold connections also implement io.Closer; Fanout.Close releases them.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

var (
	_ Publisher = (*httpPublisher)(nil)
	_ Publisher = (*sqsPublisher)(nil)
	_ Publisher = (*snsPublisher)(nil)
	_ Publisher = (*pubsubPublisher)(nil)
	_ Publisher = (*amqpPublisher)(nil)
)

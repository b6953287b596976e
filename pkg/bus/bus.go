package bus

import "context"

const defaultBufferSize = 64

// MessageBus decouples the transport from the dispatcher. The transport
// publishes inbound messages; the dispatcher consumes them one at a time.
type MessageBus struct {
	inbound chan InboundMessage
}

func NewMessageBus() *MessageBus {
	return &MessageBus{
		inbound: make(chan InboundMessage, defaultBufferSize),
	}
}

// PublishInbound enqueues a message for dispatch. Blocks only when the
// buffer is full, which backpressures the poll loop.
func (b *MessageBus) PublishInbound(msg InboundMessage) {
	b.inbound <- msg
}

// ConsumeInbound returns the next inbound message. The second return is
// false when ctx is cancelled before a message arrives.
func (b *MessageBus) ConsumeInbound(ctx context.Context) (InboundMessage, bool) {
	select {
	case <-ctx.Done():
		return InboundMessage{}, false
	case msg := <-b.inbound:
		return msg, true
	}
}

package notify

import (
	"context"
	"sync"
)

// Buffer queues events raised inside a database transaction so nothing
// reaches subscribers before the transaction commits. The caller installs it
// on the context with WithBuffer and drains it with FlushTo after the commit
// succeeds; a rolled-back transaction simply drops the buffer.
type Buffer struct {
	mu     sync.Mutex
	events []Event
}

func (b *Buffer) add(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

// FlushTo delivers the queued events to bus in the order they were raised
// and empties the buffer.
func (b *Buffer) FlushTo(ctx context.Context, bus Bus) error {
	b.mu.Lock()
	events := b.events
	b.events = nil
	b.mu.Unlock()
	for _, event := range events {
		if err := bus.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

type bufferKey struct{}

// WithBuffer routes Emit calls made under ctx into buf.
func WithBuffer(ctx context.Context, buf *Buffer) context.Context {
	return context.WithValue(ctx, bufferKey{}, buf)
}

// Emit publishes through the transaction buffer when one is on the context,
// and straight to bus otherwise.
func Emit(ctx context.Context, bus Bus, event Event) error {
	if buf, ok := ctx.Value(bufferKey{}).(*Buffer); ok && buf != nil {
		buf.add(event)
		return nil
	}
	return bus.Publish(ctx, event)
}

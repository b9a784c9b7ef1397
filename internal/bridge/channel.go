package bridge

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// ErrChannelClosed is returned by Post after the channel is closed.
var ErrChannelClosed = errors.New("channel closed")

// Channel is one side of the cross-document window between the host page
// and the editor frame.
type Channel interface {
	// Post delivers payload to the other side.
	Post(ctx context.Context, payload []byte) error
	// Subscribe registers fn for every payload the other side posts.
	// The returned func removes it and is safe to call more than once.
	Subscribe(fn func(payload []byte)) (unsubscribe func())
}

// MemoryChannel is an in-process Channel. Create connected pairs with NewMemoryPipe.
type MemoryChannel struct {
	mu     sync.Mutex
	peer   *MemoryChannel
	subs   map[uint64]func([]byte)
	nextID uint64
	closed bool
}

var _ Channel = (*MemoryChannel)(nil)

// NewMemoryPipe returns two connected channels: what one posts, the other's
// subscribers receive. Delivery is synchronous and in subscription order.
func NewMemoryPipe() (host, editor *MemoryChannel) {
	host = &MemoryChannel{subs: make(map[uint64]func([]byte))}
	editor = &MemoryChannel{subs: make(map[uint64]func([]byte))}
	host.peer, editor.peer = editor, host
	return host, editor
}

// Post implements Channel.
func (c *MemoryChannel) Post(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrChannelClosed
	}

	msg := append([]byte(nil), payload...)
	for _, fn := range c.peer.snapshot() {
		fn(msg)
	}
	return nil
}

// Subscribe implements Channel.
func (c *MemoryChannel) Subscribe(fn func([]byte)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// Subscribers returns the number of registered listeners.
func (c *MemoryChannel) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Close makes further Posts on c fail. Subscriptions are kept.
func (c *MemoryChannel) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *MemoryChannel) snapshot() []func([]byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]uint64, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func([]byte), len(ids))
	for i, id := range ids {
		fns[i] = c.subs[id]
	}
	return fns
}

package comments

import "sync"

// subscriberBuffer is how many comments a slow subscriber may lag behind
// before further comments are dropped for it.
const subscriberBuffer = 16

// broker fans comments out to any number of subscriber channels.
type broker struct {
	mu     sync.Mutex
	subs   map[chan Comment]struct{}
	buffer int
}

func newBroker(buffer int) *broker {
	return &broker{subs: make(map[chan Comment]struct{}), buffer: buffer}
}

// subscribe registers a new channel. The returned func unregisters and
// closes it; calling it more than once is safe.
func (b *broker) subscribe() (<-chan Comment, func()) {
	ch := make(chan Comment, b.buffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
	}
}

// publish delivers c to every subscriber without blocking and returns how
// many subscribers had a full buffer and missed it.
func (b *broker) publish(c Comment) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	dropped := 0
	for ch := range b.subs {
		select {
		case ch <- c:
		default:
			dropped++
		}
	}
	return dropped
}

// closeAll closes and removes every subscriber.
func (b *broker) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}

func (b *broker) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

package bridge

import "sync"

// Publisher sends messages without blocking. Delivery is at most once.
type Publisher interface {
	Publish(m Message)
}

// Subscriber hands out receive channels. cancel closes the channel.
type Subscriber interface {
	Subscribe() (<-chan Message, func())
}

type Bus interface {
	Publisher
	Subscriber
}

// LocalBus fans messages out to in-process subscribers. A subscriber whose
// buffer is full misses the message; with no subscribers it is dropped.
type LocalBus struct {
	mu     sync.Mutex
	subs   map[int]chan Message
	next   int
	buffer int
}

func NewLocalBus(buffer int) *LocalBus {
	if buffer < 1 {
		buffer = 1
	}
	return &LocalBus{subs: map[int]chan Message{}, buffer: buffer}
}

func (b *LocalBus) Publish(m Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- m:
		default:
		}
	}
}

func (b *LocalBus) Subscribe() (<-chan Message, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Message, b.buffer)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

package scroll

import "sync"

// Bus fans scroll positions out to the header instances mounted for a
// visitor. Each listener buffers one position; a newer position replaces an
// unread one, so slow listeners see the latest value rather than a backlog.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string]map[chan float64]struct{}
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[string]map[chan float64]struct{}),
	}
}

// Subscribe returns a channel receiving positions published for key.
// The caller must call Unsubscribe when done.
func (b *Bus) Subscribe(key string) chan float64 {
	ch := make(chan float64, 1)
	b.mu.Lock()
	set, ok := b.listeners[key]
	if !ok {
		set = make(map[chan float64]struct{})
		b.listeners[key] = set
	}
	set[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a listener. Unknown channels are ignored.
func (b *Bus) Unsubscribe(key string, ch chan float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	set, ok := b.listeners[key]
	if !ok {
		return
	}
	if _, ok := set[ch]; !ok {
		return
	}
	delete(set, ch)
	if len(set) == 0 {
		delete(b.listeners, key)
	}
	close(ch)
}

// Publish delivers y to every listener for key without blocking and
// returns how many listeners there were.
func (b *Bus) Publish(key string, y float64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	set := b.listeners[key]
	for ch := range set {
		select {
		case ch <- y:
		default:
			// Drop the stale value and retry once.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- y:
			default:
			}
		}
	}
	return len(set)
}

// Listeners returns the number of mounted listeners for key.
func (b *Bus) Listeners(key string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[key])
}

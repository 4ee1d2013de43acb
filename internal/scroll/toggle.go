// Package scroll derives the header's "scrolled" style flag from a
// visitor's scroll position.
package scroll

import "context"

// DefaultThreshold is how far from the top, in pixels, the header switches style.
const DefaultThreshold = 20

// Toggle holds one header instance's derived flag.
type Toggle struct {
	threshold float64
	past      bool
}

// NewToggle returns a toggle that flips once the position exceeds threshold.
func NewToggle(threshold float64) *Toggle {
	return &Toggle{threshold: threshold}
}

// Observe feeds a scroll position and reports whether the flag changed.
// Repeating a position on the same side of the threshold is a no-op.
func (t *Toggle) Observe(y float64) bool {
	past := y > t.threshold
	if past == t.past {
		return false
	}
	t.past = past
	return true
}

// Past reports whether the last position was beyond the threshold.
func (t *Toggle) Past() bool { return t.past }

// Watch mounts the toggle on the visitor's feed: it subscribes on entry and
// unsubscribes on every return path. onChange runs only when the flag
// flips. Watch blocks until ctx is done or onChange fails.
func (t *Toggle) Watch(ctx context.Context, bus *Bus, key string, onChange func(past bool) error) error {
	ch := bus.Subscribe(key)
	defer bus.Unsubscribe(key, ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case y, ok := <-ch:
			if !ok {
				return nil
			}
			if !t.Observe(y) {
				continue
			}
			if err := onChange(t.past); err != nil {
				return err
			}
		}
	}
}

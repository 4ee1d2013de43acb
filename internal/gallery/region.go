package gallery

// Region is a clickable area of the detail overlay. Regions nest:
// backdrop contains content, content contains the close button.
type Region string

const (
	RegionBackdrop Region = "backdrop"
	RegionContent  Region = "content"
	RegionClose    Region = "close"
)

// parent is the enclosing region a click bubbles to next.
var parent = map[Region]Region{
	RegionClose:   RegionContent,
	RegionContent: RegionBackdrop,
}

// ParseRegion maps the name reported by the browser to a Region.
func ParseRegion(name string) (Region, bool) {
	switch r := Region(name); r {
	case RegionBackdrop, RegionContent, RegionClose:
		return r, true
	}
	return "", false
}

// Click is one click travelling outwards through the regions.
type Click struct {
	stopped bool
	events  []Event
}

// StopPropagation keeps the click from reaching enclosing regions.
func (c *Click) StopPropagation() { c.stopped = true }

// Emit queues an event for the gallery.
func (c *Click) Emit(e Event) { c.events = append(c.events, e) }

// handlers are the overlay's click handlers by region. The content region
// swallows clicks so only the backdrop itself closes the overlay.
var handlers = map[Region]func(*Click){
	RegionClose:    func(c *Click) { c.Emit(Close{}) },
	RegionContent:  func(c *Click) { c.StopPropagation() },
	RegionBackdrop: func(c *Click) { c.Emit(Close{}) },
}

// Dispatch delivers a click on target to its handler and then to each
// enclosing region until one stops propagation. It returns the emitted
// events in order.
func Dispatch(target Region) []Event {
	c := &Click{}
	for r, ok := target, true; ok && !c.stopped; r, ok = parent[r] {
		if h := handlers[r]; h != nil {
			h(c)
		}
	}
	return c.events
}

// Package imagefallback tracks which source an image should render: its
// primary reference until the first load failure, the fallback afterwards.
package imagefallback

// DefaultFallback is the placeholder shown for images that fail to load.
const DefaultFallback = "https://placehold.co/400x400/e2e8f0/94a3b8?text=Image+Not+Found"

// Image is the per-instance fallback state. The switch to the fallback is
// one-way; a failed primary is never retried.
type Image struct {
	primary  string
	fallback string
	fellBack bool
}

// New returns an image rendering primary. An empty fallback uses DefaultFallback.
func New(primary, fallback string) *Image {
	if fallback == "" {
		fallback = DefaultFallback
	}
	return &Image{primary: primary, fallback: fallback}
}

// Src is the reference to render now.
func (i *Image) Src() string {
	if i.fellBack {
		return i.fallback
	}
	return i.primary
}

// Fallback is the constant fallback reference.
func (i *Image) Fallback() string { return i.fallback }

// Fail records a load failure. It reports whether this call caused the
// switch; later calls are no-ops.
func (i *Image) Fail() bool {
	if i.fellBack {
		return false
	}
	i.fellBack = true
	return true
}

// FellBack reports whether the fallback is in use.
func (i *Image) FellBack() bool { return i.fellBack }
